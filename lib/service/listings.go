package service

import (
	"context"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ListingFilter holds the filters shared by the property and land lists.
// Nil fields are not applied.
type ListingFilter struct {
	Page
	Status   string
	City     string
	District string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinArea  *float64
	MaxArea  *float64
	Featured *bool
	SortBy   string
	Order    string
}

func (f *ListingFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.Status != "" {
		q.Where("status = ?", f.Status)
	}
	if f.City != "" {
		q.Where("city ILIKE ?", likePattern(f.City))
	}
	if f.District != "" {
		q.Where("district ILIKE ?", likePattern(f.District))
	}
	applyPriceRange(q, f.MinPrice, f.MaxPrice)
	if f.MinArea != nil {
		q.Where("area >= ?", *f.MinArea)
	}
	if f.MaxArea != nil {
		q.Where("area <= ?", *f.MaxArea)
	}
	if f.Featured != nil {
		q.Where("featured = ?", *f.Featured)
	}
	return q
}

func applyPriceRange(q *bun.SelectQuery, min, max *decimal.Decimal) {
	if min != nil {
		q.Where("price >= ?", *min)
	}
	if max != nil {
		q.Where("price <= ?", *max)
	}
}

// searchColumns matches q case-insensitively against any of columns.
func searchColumns(q *bun.SelectQuery, query string, columns ...string) *bun.SelectQuery {
	pattern := likePattern(query)
	return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, col := range columns {
			q.WhereOr("? ILIKE ?", bun.Ident(col), pattern)
		}
		return q
	})
}

// incrementViews bumps the view counter and scans the updated row into model.
func (svc *BdshubService) incrementViews(ctx context.Context, model interface{}, where string, arg interface{}) error {
	res, err := svc.DB.NewUpdate().Model(model).
		Set("views = views + 1").
		Where(where, arg).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (svc *BdshubService) deleteByID(ctx context.Context, model interface{}, id string) error {
	res, err := svc.DB.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func featuredLimit(limit int) int {
	return Page{Limit: limit}.Normalize(common.DefaultFeaturedLimit, common.MaxFeaturedLimit).Limit
}
