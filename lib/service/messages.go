package service

import (
	"context"
	"time"

	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/uptrace/bun"
)

type MessageInput struct {
	ToUserID    string `json:"to_user_id" validate:"required"`
	ToType      string `json:"to_type" validate:"required,oneof=member admin"`
	Message     string `json:"message" validate:"required,max=5000"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image"`
	TicketID    string `json:"ticket_id"`
	DepositID   string `json:"deposit_id"`
}

type MessageFilter struct {
	TicketID  string `query:"ticket_id"`
	DepositID string `query:"deposit_id"`
	Limit     int    `query:"limit"`
}

func (svc *BdshubService) SendMessage(ctx context.Context, from *models.User, in *MessageInput) (*models.Message, error) {
	if _, err := svc.FindUser(ctx, in.ToUserID); err != nil {
		return nil, err
	}
	msgType := in.MessageType
	if msgType == "" {
		msgType = "text"
	}
	msg := &models.Message{
		ID:          newID(),
		TicketID:    in.TicketID,
		DepositID:   in.DepositID,
		FromUserID:  from.ID,
		ToUserID:    in.ToUserID,
		FromType:    from.Role,
		ToType:      in.ToType,
		Message:     in.Message,
		MessageType: msgType,
	}
	if _, err := svc.DB.NewInsert().Model(msg).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the conversation of userID (sent and received),
// oldest first.
func (svc *BdshubService) ListMessages(ctx context.Context, userID string, filter MessageFilter) ([]models.Message, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	msgs := []models.Message{}
	q := svc.DB.NewSelect().Model(&msgs).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("from_user_id = ?", userID).WhereOr("to_user_id = ?", userID)
		})
	if filter.TicketID != "" {
		q.Where("ticket_id = ?", filter.TicketID)
	}
	if filter.DepositID != "" {
		q.Where("deposit_id = ?", filter.DepositID)
	}
	err := q.OrderExpr("created_at ASC").Limit(limit).Scan(ctx)
	return msgs, err
}

// MarkMessageRead only works for the recipient, anyone else gets ErrNotFound.
func (svc *BdshubService) MarkMessageRead(ctx context.Context, userID, messageID string) error {
	res, err := svc.DB.NewUpdate().Model((*models.Message)(nil)).
		Set("read = TRUE").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", messageID).
		Where("to_user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (svc *BdshubService) UnreadMessageCount(ctx context.Context, userID string) (int, error) {
	return svc.DB.NewSelect().Model((*models.Message)(nil)).
		Where("to_user_id = ?", userID).
		Where("read = FALSE").
		Count(ctx)
}
