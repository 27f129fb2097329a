package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/uptrace/bun"
)

// ApprovePost moves a pending draft to approved and promotes it into the
// public listing table of its type, keyed by the draft id. The guarded update
// makes a second approval fail with ErrInvalidStateTransition.
func (svc *BdshubService) ApprovePost(ctx context.Context, adminID, postID string, featured bool, adminNotes string) (*models.MemberPost, error) {
	post := &models.MemberPost{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		res, err := tx.NewUpdate().Model(post).
			Set("status = ?", common.PostStatusApproved).
			Set("approved_by = ?", adminID).
			Set("approved_at = ?", now).
			Set("expires_at = ?", now.Add(svc.Config.PostLifetime())).
			Set("featured = ?", featured).
			Set("admin_notes = ?", nullString(adminNotes)).
			Set("updated_at = ?", now).
			Where("id = ?", postID).
			Where("status = ?", common.PostStatusPending).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return svc.transitionError(ctx, tx, postID)
		}
		return svc.promote(ctx, tx, post)
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventPostApproved, UserID: post.AuthorID, Post: post})
	return post, nil
}

// RejectPost moves a pending draft to rejected and refunds the fee that was
// charged for it.
func (svc *BdshubService) RejectPost(ctx context.Context, adminID, postID, reason, adminNotes string) (*models.MemberPost, error) {
	post := &models.MemberPost{}
	var refund *models.Transaction
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(post).
			Set("status = ?", common.PostStatusRejected).
			Set("rejection_reason = ?", nullString(reason)).
			Set("admin_notes = ?", nullString(adminNotes)).
			Set("approved_by = ?", adminID).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", postID).
			Where("status = ?", common.PostStatusPending).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return svc.transitionError(ctx, tx, postID)
		}
		if !post.FeePaid.IsPositive() {
			return nil
		}
		refund, err = svc.Credit(ctx, tx, post.AuthorID, post.FeePaid, common.TransactionTypeRefund, fmt.Sprintf("Refund post fee for: %s", post.Title), post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventPostRejected, UserID: post.AuthorID, Post: post, Transaction: refund})
	return post, nil
}

func (svc *BdshubService) transitionError(ctx context.Context, db bun.IDB, postID string) error {
	exists, err := db.NewSelect().Model((*models.MemberPost)(nil)).Where("id = ?", postID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidStateTransition
}

func (svc *BdshubService) promote(ctx context.Context, db bun.IDB, post *models.MemberPost) error {
	var listing interface{}
	switch post.PostType {
	case common.PostTypeProperty:
		agent, err := svc.agentName(ctx, db, post.AuthorID)
		if err != nil {
			return err
		}
		listing = propertyFromPost(post, agent)
	case common.PostTypeLand:
		agent, err := svc.agentName(ctx, db, post.AuthorID)
		if err != nil {
			return err
		}
		listing = landFromPost(post, agent)
	case common.PostTypeSim:
		listing = simFromPost(post)
	default:
		// news drafts are approved without a public counterpart
		return nil
	}
	_, err := db.NewInsert().Model(listing).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

func (svc *BdshubService) agentName(ctx context.Context, db bun.IDB, userID string) (string, error) {
	author := &models.User{}
	err := db.NewSelect().Model(author).Column("username", "full_name").Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return "", notFound(err)
	}
	return author.DisplayName(), nil
}

func propertyFromPost(post *models.MemberPost, agent string) *models.Property {
	status := post.PropertyStatus
	if status == "" {
		status = common.PropertyStatusForSale
	}
	p := &models.Property{
		ID:           post.ID,
		Title:        post.Title,
		Description:  post.Description,
		PropertyType: post.PropertyType,
		Status:       status,
		Price:        post.Price,
		Address:      post.Address,
		District:     post.District,
		City:         post.City,
		Images:       nonNil(post.Images),
		Featured:     post.Featured,
		ContactPhone: post.ContactPhone,
		ContactEmail: post.ContactEmail,
		AgentName:    agent,
		CreatedAt:    post.CreatedAt,
	}
	if post.Area != nil {
		p.Area = *post.Area
	}
	if post.Bedrooms != nil {
		p.Bedrooms = *post.Bedrooms
	}
	if post.Bathrooms != nil {
		p.Bathrooms = *post.Bathrooms
	}
	p.PricePerSqm = PricePerSqm(p.Price, p.Area)
	return p
}

func landFromPost(post *models.MemberPost, agent string) *models.Land {
	status := post.PropertyStatus
	if status == "" {
		status = common.PropertyStatusForSale
	}
	legal := post.LegalStatus
	if legal == "" {
		legal = common.DefaultLegalStatus
	}
	l := &models.Land{
		ID:           post.ID,
		Title:        post.Title,
		Description:  post.Description,
		LandType:     post.LandType,
		Status:       status,
		Price:        post.Price,
		Width:        post.Width,
		Length:       post.Length,
		Address:      post.Address,
		District:     post.District,
		City:         post.City,
		Images:       nonNil(post.Images),
		Featured:     post.Featured,
		LegalStatus:  legal,
		Orientation:  post.Orientation,
		RoadWidth:    post.RoadWidth,
		ContactPhone: post.ContactPhone,
		ContactEmail: post.ContactEmail,
		AgentName:    agent,
		CreatedAt:    post.CreatedAt,
	}
	if post.Area != nil {
		l.Area = *post.Area
	}
	l.PricePerSqm = PricePerSqm(l.Price, l.Area)
	return l
}

func simFromPost(post *models.MemberPost) *models.Sim {
	return &models.Sim{
		ID:          post.ID,
		PhoneNumber: post.PhoneNumber,
		Network:     post.Network,
		SimType:     post.SimType,
		Price:       post.Price,
		IsVip:       post.IsVip,
		Features:    nonNil(post.Features),
		Description: post.Description,
		Status:      common.SimStatusAvailable,
		CreatedAt:   post.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
