package service

import (
	"context"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
)

type TicketInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

type TicketPatch struct {
	Status     *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	Priority   *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AdminNotes *string `json:"admin_notes"`
	AssignedTo *string `json:"assigned_to"`
}

type TicketFilter struct {
	Page
	Status   string `query:"status"`
	Priority string `query:"priority"`
}

func (svc *BdshubService) CreateTicket(ctx context.Context, in *TicketInput) (*models.Ticket, error) {
	ticket := &models.Ticket{
		ID:       newID(),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Subject:  in.Subject,
		Message:  in.Message,
		Status:   common.TicketStatusOpen,
		Priority: common.TicketPriorityMedium,
	}
	if _, err := svc.DB.NewInsert().Model(ticket).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (svc *BdshubService) ListTickets(ctx context.Context, filter TicketFilter) ([]models.Ticket, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	tickets := []models.Ticket{}
	q := svc.DB.NewSelect().Model(&tickets)
	if filter.Status != "" {
		q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q.Where("priority = ?", filter.Priority)
	}
	err := q.OrderExpr("created_at DESC").Offset(page.Skip).Limit(page.Limit).Scan(ctx)
	return tickets, err
}

func (svc *BdshubService) FindTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	if err := svc.DB.NewSelect().Model(ticket).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return ticket, nil
}

func (svc *BdshubService) UpdateTicket(ctx context.Context, id string, patch *TicketPatch) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	q := svc.DB.NewUpdate().Model(ticket).Set("updated_at = ?", time.Now())
	if patch.Status != nil {
		q.Set("status = ?", *patch.Status)
	}
	if patch.Priority != nil {
		q.Set("priority = ?", *patch.Priority)
	}
	if patch.AdminNotes != nil {
		q.Set("admin_notes = ?", nullString(*patch.AdminNotes))
	}
	if patch.AssignedTo != nil {
		q.Set("assigned_to = ?", nullString(*patch.AssignedTo))
	}
	res, err := q.Where("id = ?", id).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return ticket, nil
}

func (svc *BdshubService) DeleteTicket(ctx context.Context, id string) error {
	return svc.deleteByID(ctx, (*models.Ticket)(nil), id)
}
