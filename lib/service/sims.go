package service

import (
	"context"
	"database/sql"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type SimInput struct {
	PhoneNumber string          `json:"phone_number" validate:"required"`
	Network     string          `json:"network" validate:"required,oneof=viettel mobifone vinaphone vietnamobile itelecom"`
	SimType     string          `json:"sim_type" validate:"required,oneof=prepaid postpaid"`
	Price       decimal.Decimal `json:"price"`
	IsVip       bool            `json:"is_vip"`
	Features    []string        `json:"features"`
	Description string          `json:"description" validate:"required"`
}

type SimPatch struct {
	PhoneNumber *string          `json:"phone_number"`
	Network     *string          `json:"network" validate:"omitempty,oneof=viettel mobifone vinaphone vietnamobile itelecom"`
	SimType     *string          `json:"sim_type" validate:"omitempty,oneof=prepaid postpaid"`
	Price       *decimal.Decimal `json:"price"`
	IsVip       *bool            `json:"is_vip"`
	Features    []string         `json:"features"`
	Description *string          `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,oneof=available sold reserved"`
}

type SimFilter struct {
	Page
	Network  string
	SimType  string
	Status   string
	IsVip    *bool
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
	Order    string
}

func (svc *BdshubService) CreateSim(ctx context.Context, in *SimInput) (*models.Sim, error) {
	sim := &models.Sim{
		ID:          newID(),
		PhoneNumber: in.PhoneNumber,
		Network:     in.Network,
		SimType:     in.SimType,
		Price:       in.Price,
		IsVip:       in.IsVip,
		Features:    nonNil(in.Features),
		Description: in.Description,
		Status:      common.SimStatusAvailable,
	}
	if _, err := svc.DB.NewInsert().Model(sim).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return sim, nil
}

func (svc *BdshubService) UpdateSim(ctx context.Context, id string, patch *SimPatch) (*models.Sim, error) {
	sim := &models.Sim{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(sim).Where("id = ?", id).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		setString(&sim.PhoneNumber, patch.PhoneNumber)
		setString(&sim.Network, patch.Network)
		setString(&sim.SimType, patch.SimType)
		if patch.Price != nil {
			sim.Price = *patch.Price
		}
		if patch.IsVip != nil {
			sim.IsVip = *patch.IsVip
		}
		if patch.Features != nil {
			sim.Features = patch.Features
		}
		setString(&sim.Description, patch.Description)
		setString(&sim.Status, patch.Status)
		_, err := tx.NewUpdate().Model(sim).
			ExcludeColumn("id", "views", "created_at").
			WherePK().
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sim, nil
}

func (svc *BdshubService) DeleteSim(ctx context.Context, id string) error {
	return svc.deleteByID(ctx, (*models.Sim)(nil), id)
}

func (svc *BdshubService) GetSim(ctx context.Context, id string) (*models.Sim, error) {
	sim := &models.Sim{}
	if err := svc.incrementViews(ctx, sim, "id = ?", id); err != nil {
		return nil, err
	}
	return sim, nil
}

// ListSims only shows available SIMs unless another status is asked for.
func (svc *BdshubService) ListSims(ctx context.Context, filter SimFilter) ([]models.Sim, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	status := filter.Status
	if status == "" {
		status = common.SimStatusAvailable
	}
	sims := []models.Sim{}
	q := svc.DB.NewSelect().Model(&sims).Where("status = ?", status)
	if filter.Network != "" {
		q.Where("network = ?", filter.Network)
	}
	if filter.SimType != "" {
		q.Where("sim_type = ?", filter.SimType)
	}
	if filter.IsVip != nil {
		q.Where("is_vip = ?", *filter.IsVip)
	}
	applyPriceRange(q, filter.MinPrice, filter.MaxPrice)
	err := q.OrderExpr(OrderExpr(filter.SortBy, filter.Order, false)).
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return sims, err
}

func (svc *BdshubService) SearchSims(ctx context.Context, query string, page Page) ([]models.Sim, error) {
	page = page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	pattern := likePattern(query)
	sims := []models.Sim{}
	err := svc.DB.NewSelect().Model(&sims).
		Where("status = ?", common.SimStatusAvailable).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("phone_number ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern).
				WhereOr("array_to_string(features, ' ') ILIKE ?", pattern)
		}).
		OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Scan(ctx)
	return sims, err
}
