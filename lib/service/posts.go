package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PostPayload is the member supplied part of a listing draft. The type
// specific fields are checked by Validate according to PostType.
type PostPayload struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"required"`
	PostType     string          `json:"post_type" validate:"required,oneof=property land sim news"`
	Price        decimal.Decimal `json:"price"`
	Images       []string        `json:"images" validate:"max=10"`
	ContactPhone string          `json:"contact_phone" validate:"required,phone"`
	ContactEmail string          `json:"contact_email" validate:"omitempty,email"`

	PropertyType   string   `json:"property_type" validate:"omitempty,oneof=apartment house villa shophouse office land"`
	PropertyStatus string   `json:"property_status" validate:"omitempty,oneof=for_sale for_rent sold rented"`
	Area           *float64 `json:"area" validate:"omitempty,gt=0"`
	Bedrooms       *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms      *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	Address        string   `json:"address"`
	District       string   `json:"district"`
	City           string   `json:"city"`

	LandType    string   `json:"land_type" validate:"omitempty,oneof=residential commercial industrial agricultural"`
	Width       *float64 `json:"width" validate:"omitempty,gt=0"`
	Length      *float64 `json:"length" validate:"omitempty,gt=0"`
	LegalStatus string   `json:"legal_status"`
	Orientation string   `json:"orientation"`
	RoadWidth   *float64 `json:"road_width" validate:"omitempty,gt=0"`

	PhoneNumber string   `json:"phone_number"`
	Network     string   `json:"network" validate:"omitempty,oneof=viettel mobifone vinaphone vietnamobile itelecom"`
	SimType     string   `json:"sim_type" validate:"omitempty,oneof=prepaid postpaid"`
	IsVip       bool     `json:"is_vip"`
	Features    []string `json:"features"`
}

// MissingFields returns the type specific fields that are required for the
// payload's post type but absent, keyed by json name.
func (p *PostPayload) MissingFields() map[string]string {
	missing := map[string]string{}
	if p.Price.IsNegative() {
		missing["price"] = "must be greater than or equal to 0"
	}
	switch p.PostType {
	case common.PostTypeProperty:
		if p.PropertyType == "" {
			missing["property_type"] = "field required"
		}
		requireLocation(p, missing)
	case common.PostTypeLand:
		if p.LandType == "" {
			missing["land_type"] = "field required"
		}
		requireLocation(p, missing)
	case common.PostTypeSim:
		if p.PhoneNumber == "" {
			missing["phone_number"] = "field required"
		}
		if p.Network == "" {
			missing["network"] = "field required"
		}
		if p.SimType == "" {
			missing["sim_type"] = "field required"
		}
	}
	return missing
}

func requireLocation(p *PostPayload, missing map[string]string) {
	if p.Area == nil {
		missing["area"] = "field required"
	}
	if p.Address == "" {
		missing["address"] = "field required"
	}
	if p.District == "" {
		missing["district"] = "field required"
	}
	if p.City == "" {
		missing["city"] = "field required"
	}
}

func (p *PostPayload) apply(post *models.MemberPost) {
	post.Title = p.Title
	post.Description = p.Description
	post.PostType = p.PostType
	post.Price = p.Price
	post.Images = p.Images
	post.ContactPhone = p.ContactPhone
	post.ContactEmail = p.ContactEmail
	post.PropertyType = p.PropertyType
	post.PropertyStatus = p.PropertyStatus
	post.Area = p.Area
	post.Bedrooms = p.Bedrooms
	post.Bathrooms = p.Bathrooms
	post.Address = p.Address
	post.District = p.District
	post.City = p.City
	post.LandType = p.LandType
	post.Width = p.Width
	post.Length = p.Length
	post.LegalStatus = p.LegalStatus
	post.Orientation = p.Orientation
	post.RoadWidth = p.RoadWidth
	post.PhoneNumber = p.PhoneNumber
	post.Network = p.Network
	post.SimType = p.SimType
	post.IsVip = p.IsVip
	post.Features = p.Features
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.Features == nil {
		post.Features = []string{}
	}
}

// SubmitPost charges the post fee and stores the draft as pending in one DB
// transaction. When the balance does not cover the fee nothing is written.
func (svc *BdshubService) SubmitPost(ctx context.Context, authorID string, payload *PostPayload) (*models.MemberPost, error) {
	if err := CheckInlineImages(payload.Images); err != nil {
		return nil, err
	}
	fee := svc.Config.PostFeeAmount()
	post := &models.MemberPost{
		ID:       newID(),
		AuthorID: authorID,
		Status:   common.PostStatusPending,
		FeePaid:  fee,
	}
	payload.apply(post)

	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if fee.IsPositive() {
			_, err := svc.Debit(ctx, tx, authorID, fee, common.TransactionTypePostFee, fmt.Sprintf("Post fee for: %s", post.Title), post.ID)
			if err != nil {
				return err
			}
		}
		_, err := tx.NewInsert().Model(post).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventPostSubmitted, UserID: authorID, Post: post})
	return post, nil
}

// EditPost overwrites a pending or rejected draft and sends it back to review.
// No further fee is charged.
func (svc *BdshubService) EditPost(ctx context.Context, authorID, postID string, payload *PostPayload) (*models.MemberPost, error) {
	if err := CheckInlineImages(payload.Images); err != nil {
		return nil, err
	}
	post := &models.MemberPost{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(post).Where("id = ?", postID).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		if post.AuthorID != authorID {
			return ErrForbidden
		}
		if post.Status != common.PostStatusPending && post.Status != common.PostStatusRejected {
			return ErrNotEditable
		}
		payload.apply(post)
		post.Status = common.PostStatusPending
		post.RejectionReason = ""
		post.AdminNotes = ""
		_, err := tx.NewUpdate().Model(post).
			ExcludeColumn("id", "author_id", "fee_paid", "created_at", "views").
			WherePK().
			Where("status IN (?, ?)", common.PostStatusPending, common.PostStatusRejected).
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// WithdrawPost deletes a draft that has not been approved. The post fee is
// not refunded.
func (svc *BdshubService) WithdrawPost(ctx context.Context, authorID, postID string) error {
	return svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		post := &models.MemberPost{}
		if err := tx.NewSelect().Model(post).Where("id = ?", postID).For("UPDATE").Scan(ctx); err != nil {
			return notFound(err)
		}
		if post.AuthorID != authorID {
			return ErrForbidden
		}
		if post.Status == common.PostStatusApproved {
			return ErrNotDeletable
		}
		_, err := tx.NewDelete().Model(post).WherePK().Exec(ctx)
		return err
	})
}

// FindPost loads a draft. A non-empty authorID restricts it to that author.
func (svc *BdshubService) FindPost(ctx context.Context, postID, authorID string) (*models.MemberPost, error) {
	post := &models.MemberPost{}
	err := svc.DB.NewSelect().Model(post).Where("id = ?", postID).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	if authorID != "" && post.AuthorID != authorID {
		return nil, ErrForbidden
	}
	return post, nil
}

type PostFilter struct {
	Page
	Status   string `query:"status"`
	PostType string `query:"post_type"`
}

// PostWithAuthor is how drafts are shown to reviewers.
type PostWithAuthor struct {
	models.MemberPost
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
}

// ListPosts lists drafts newest first. An empty authorID lists every author's
// drafts together with the author's name and email.
func (svc *BdshubService) ListPosts(ctx context.Context, authorID string, filter PostFilter) ([]PostWithAuthor, int, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	posts := []models.MemberPost{}
	query := svc.DB.NewSelect().Model(&posts).Relation("Author")
	if authorID != "" {
		query.Where("member_post.author_id = ?", authorID)
	}
	if filter.Status != "" {
		query.Where("member_post.status = ?", filter.Status)
	}
	if filter.PostType != "" {
		query.Where("member_post.post_type = ?", filter.PostType)
	}
	total, err := query.OrderExpr("member_post.created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	result := make([]PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		item := PostWithAuthor{MemberPost: p}
		if p.Author != nil {
			item.AuthorName = p.Author.DisplayName()
			item.AuthorEmail = p.Author.Email
		}
		result = append(result, item)
	}
	return result, total, nil
}
