package models

import (
	"context"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Transaction : a ledger entry. Amount is always a positive magnitude,
// the sign is implied by TransactionType.
type Transaction struct {
	bun.BaseModel `bun:"table:transactions"`

	ID                string          `json:"id" bun:",pk"`
	UserID            string          `json:"user_id" bun:",notnull"`
	User              *User           `json:"-" bun:"rel:belongs-to,join:user_id=id"`
	Amount            decimal.Decimal `json:"amount" bun:"type:numeric(20,2),notnull"`
	TransactionType   string          `json:"transaction_type" bun:",notnull"`
	Status            string          `json:"status" bun:",notnull,default:'pending'"`
	Description       string          `json:"description" bun:",nullzero"`
	ReferenceID       string          `json:"reference_id,omitempty" bun:",nullzero"`
	AdminNotes        string          `json:"admin_notes,omitempty" bun:",nullzero"`
	TransferBill      string          `json:"transfer_bill,omitempty" bun:",nullzero"`
	BankTransactionID string          `json:"transaction_id,omitempty" bun:"bank_transaction_id,nullzero"`
	Method            string          `json:"method,omitempty" bun:",nullzero"`
	CreatedAt         time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt         bun.NullTime    `json:"updated_at"`
	CompletedAt       bun.NullTime    `json:"completed_at"`
}

func (t *Transaction) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

// SignedAmount returns the effect this entry has on the wallet balance once completed.
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.TransactionType {
	case common.TransactionTypePostFee, common.TransactionTypeWithdraw:
		return t.Amount.Neg()
	default:
		return t.Amount
	}
}

var _ bun.BeforeAppendModelHook = (*Transaction)(nil)
