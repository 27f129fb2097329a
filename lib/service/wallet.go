package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Credit increases the balance of userID and writes the matching completed
// ledger entry. kind must be deposit or refund.
func (svc *BdshubService) Credit(ctx context.Context, db bun.IDB, userID string, amount decimal.Decimal, kind, description, referenceID string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if kind != common.TransactionTypeDeposit && kind != common.TransactionTypeRefund {
		return nil, fmt.Errorf("credit with %s: %w", kind, ErrInvalidAmount)
	}
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("wallet_balance = wallet_balance + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return svc.insertCompletedEntry(ctx, db, userID, amount, kind, description, referenceID, "")
}

// Debit decreases the balance of userID in a single conditional update so
// two concurrent debits can never overdraw the wallet. kind must be post_fee
// or withdraw.
func (svc *BdshubService) Debit(ctx context.Context, db bun.IDB, userID string, amount decimal.Decimal, kind, description, referenceID string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if kind != common.TransactionTypePostFee && kind != common.TransactionTypeWithdraw {
		return nil, fmt.Errorf("debit with %s: %w", kind, ErrInvalidAmount)
	}
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("wallet_balance = wallet_balance - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("wallet_balance >= ?", amount).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, svc.insufficientBalance(ctx, db, userID, amount)
	}
	return svc.insertCompletedEntry(ctx, db, userID, amount, kind, description, referenceID, "")
}

// Adjust applies a signed admin correction. The resulting balance can not go
// below zero.
func (svc *BdshubService) Adjust(ctx context.Context, db bun.IDB, userID string, delta decimal.Decimal, description, actorID string) (*models.Transaction, error) {
	if delta.IsZero() {
		return nil, ErrInvalidAmount
	}
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("wallet_balance = wallet_balance + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("wallet_balance + ? >= 0", delta).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, svc.insufficientBalance(ctx, db, userID, delta.Neg())
	}
	kind := common.TransactionTypeDeposit
	if delta.IsNegative() {
		kind = common.TransactionTypeWithdraw
	}
	if description == "" {
		description = "Admin balance adjustment"
	}
	return svc.insertCompletedEntry(ctx, db, userID, delta.Abs(), kind, description, "", fmt.Sprintf("Adjusted by admin %s", actorID))
}

// AdjustBalance runs Adjust in its own DB transaction and publishes the result.
func (svc *BdshubService) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal, description, actorID string) (*models.Transaction, error) {
	var entry *models.Transaction
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		entry, err = svc.Adjust(ctx, tx, userID, delta, description, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventWalletAdjusted, UserID: userID, Transaction: entry})
	return entry, nil
}

// LedgerBalance is the signed sum of the completed ledger entries of userID.
func (svc *BdshubService) LedgerBalance(ctx context.Context, db bun.IDB, userID string) (decimal.Decimal, error) {
	var balance decimal.NullDecimal
	err := db.NewSelect().Model((*models.Transaction)(nil)).
		ColumnExpr("sum(CASE WHEN transaction_type IN (?, ?) THEN -amount ELSE amount END)",
			common.TransactionTypePostFee, common.TransactionTypeWithdraw).
		Where("user_id = ?", userID).
		Where("status = ?", common.TransactionStatusCompleted).
		Scan(ctx, &balance)
	if err != nil {
		return decimal.Zero, err
	}
	if !balance.Valid {
		return decimal.Zero, nil
	}
	return balance.Decimal, nil
}

func (svc *BdshubService) CurrentUserBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := svc.FindUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.WalletBalance, nil
}

type TransactionFilter struct {
	Page
	Type   string `query:"transaction_type"`
	Status string `query:"status"`
	UserID string `query:"user_id"`
}

// TransactionsFor lists ledger entries, newest first. An empty userID lists
// every user's entries.
func (svc *BdshubService) TransactionsFor(ctx context.Context, userID string, filter TransactionFilter) ([]models.Transaction, int, error) {
	page := filter.Page.Normalize(common.DefaultPageLimit, common.MaxPageLimit)
	entries := []models.Transaction{}
	query := svc.DB.NewSelect().Model(&entries)
	if userID != "" {
		query.Where("user_id = ?", userID)
	}
	if filter.Type != "" {
		query.Where("transaction_type = ?", filter.Type)
	}
	if filter.Status != "" {
		query.Where("status = ?", filter.Status)
	}
	total, err := query.OrderExpr("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (svc *BdshubService) insertCompletedEntry(ctx context.Context, db bun.IDB, userID string, amount decimal.Decimal, kind, description, referenceID, adminNotes string) (*models.Transaction, error) {
	now := time.Now()
	entry := &models.Transaction{
		ID:              newID(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: kind,
		Status:          common.TransactionStatusCompleted,
		Description:     description,
		ReferenceID:     referenceID,
		AdminNotes:      adminNotes,
		CreatedAt:       now,
		CompletedAt:     bun.NullTime{Time: now},
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

func (svc *BdshubService) insufficientBalance(ctx context.Context, db bun.IDB, userID string, required decimal.Decimal) error {
	var user models.User
	err := db.NewSelect().Model(&user).Column("wallet_balance").Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return notFound(err)
	}
	return &InsufficientBalanceError{Required: required, Available: user.WalletBalance}
}
