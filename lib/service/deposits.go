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

type DepositRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	TransferBill string          `json:"transfer_bill"`
	Description  string          `json:"description"`
}

func (svc *BdshubService) checkDepositAmount(amount decimal.Decimal) error {
	min := decimal.NewFromInt(svc.Config.MinDepositAmount)
	max := decimal.NewFromInt(svc.Config.MaxDepositAmount)
	if amount.LessThan(min) {
		return fmt.Errorf("minimum deposit amount is %s: %w", min.StringFixed(0), ErrInvalidAmount)
	}
	if amount.GreaterThan(max) {
		return fmt.Errorf("maximum deposit amount is %s: %w", max.StringFixed(0), ErrInvalidAmount)
	}
	return nil
}

// RequestDeposit records a pending deposit. The wallet is only credited once
// an admin or the bank confirmation consumer approves it.
func (svc *BdshubService) RequestDeposit(ctx context.Context, userID string, req *DepositRequest) (*models.Transaction, error) {
	if err := svc.checkDepositAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.TransferBill != "" {
		if err := CheckInlineImages([]string{req.TransferBill}); err != nil {
			return nil, err
		}
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Deposit %s", req.Amount.StringFixed(0))
	}
	entry := &models.Transaction{
		ID:              newID(),
		UserID:          userID,
		Amount:          req.Amount,
		TransactionType: common.TransactionTypeDeposit,
		Status:          common.TransactionStatusPending,
		Description:     description,
		TransferBill:    req.TransferBill,
		Method:          common.DepositMethodBank,
	}
	if _, err := svc.DB.NewInsert().Model(entry).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventDepositRequested, UserID: userID, Transaction: entry})
	return entry, nil
}

// ApproveDeposit completes a pending deposit and credits the wallet with the
// requested amount. The request entry itself becomes the completed ledger
// entry, no second entry is written.
func (svc *BdshubService) ApproveDeposit(ctx context.Context, adminID, entryID, adminNotes string) (*models.Transaction, error) {
	if adminNotes == "" {
		adminNotes = fmt.Sprintf("Approved by admin: %s", svc.actorName(ctx, adminID))
	}
	return svc.completeDeposit(ctx, entryID, adminNotes, "", nil)
}

// ConfirmBankTransfer approves a pending deposit from a bank notification.
// The confirmed amount has to match the requested one.
func (svc *BdshubService) ConfirmBankTransfer(ctx context.Context, depositID, bankTransactionID string, amount decimal.Decimal) error {
	_, err := svc.completeDeposit(ctx, depositID, "Confirmed by bank transfer", bankTransactionID, &amount)
	return err
}

func (svc *BdshubService) completeDeposit(ctx context.Context, entryID, adminNotes, bankTransactionID string, expected *decimal.Decimal) (*models.Transaction, error) {
	entry := &models.Transaction{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if expected != nil {
			current := &models.Transaction{}
			err := tx.NewSelect().Model(current).Where("id = ?", entryID).Limit(1).Scan(ctx)
			if err != nil {
				return notFound(err)
			}
			if !current.Amount.Equal(*expected) {
				return fmt.Errorf("confirmed amount %s does not match requested %s: %w", expected.String(), current.Amount.String(), ErrInvalidAmount)
			}
		}
		now := time.Now()
		update := tx.NewUpdate().Model(entry).
			Set("status = ?", common.TransactionStatusCompleted).
			Set("completed_at = ?", now).
			Set("updated_at = ?", now).
			Set("admin_notes = ?", adminNotes)
		if bankTransactionID != "" {
			update.Set("bank_transaction_id = ?", bankTransactionID)
		}
		res, err := update.
			Where("id = ?", entryID).
			Where("transaction_type = ?", common.TransactionTypeDeposit).
			Where("status = ?", common.TransactionStatusPending).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return svc.depositTransitionError(ctx, tx, entryID)
		}
		res, err = tx.NewUpdate().Model((*models.User)(nil)).
			Set("wallet_balance = wallet_balance + ?", entry.Amount).
			Set("updated_at = ?", now).
			Where("id = ?", entry.UserID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventDepositCompleted, UserID: entry.UserID, Transaction: entry})
	return entry, nil
}

// RejectDeposit fails a pending deposit. The wallet is left untouched.
func (svc *BdshubService) RejectDeposit(ctx context.Context, adminID, entryID, reason string) (*models.Transaction, error) {
	notes := fmt.Sprintf("Rejected by admin %s: %s", svc.actorName(ctx, adminID), reason)
	entry := &models.Transaction{}
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(entry).
			Set("status = ?", common.TransactionStatusFailed).
			Set("admin_notes = ?", notes).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", entryID).
			Where("transaction_type = ?", common.TransactionTypeDeposit).
			Where("status = ?", common.TransactionStatusPending).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return svc.depositTransitionError(ctx, tx, entryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	svc.publishEvent(Event{Type: common.EventDepositFailed, UserID: entry.UserID, Transaction: entry})
	return entry, nil
}

func (svc *BdshubService) FindTransaction(ctx context.Context, entryID, userID string) (*models.Transaction, error) {
	entry := &models.Transaction{}
	query := svc.DB.NewSelect().Model(entry).Where("id = ?", entryID)
	if userID != "" {
		query.Where("user_id = ?", userID)
	}
	if err := query.Limit(1).Scan(ctx); err != nil {
		return nil, notFound(err)
	}
	return entry, nil
}

func (svc *BdshubService) depositTransitionError(ctx context.Context, db bun.IDB, entryID string) error {
	exists, err := db.NewSelect().Model((*models.Transaction)(nil)).
		Where("id = ?", entryID).
		Where("transaction_type = ?", common.TransactionTypeDeposit).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInvalidStateTransition
}

// actorName is used for audit notes only, the id is good enough when the
// lookup fails.
func (svc *BdshubService) actorName(ctx context.Context, userID string) string {
	user, err := svc.FindUser(ctx, userID)
	if err != nil {
		return userID
	}
	return user.Username
}
