package service

import (
	"testing"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestLedgerEvent(t *testing.T) {
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	completed := created.Add(time.Hour)
	tests := []struct {
		name  string
		entry models.Transaction
		want  string
	}{
		{"bank deposit", models.Transaction{TransactionType: common.TransactionTypeDeposit, Method: common.DepositMethodBank}, common.EventDepositCompleted},
		{"admin credit", models.Transaction{TransactionType: common.TransactionTypeDeposit}, common.EventWalletAdjusted},
		{"admin debit", models.Transaction{TransactionType: common.TransactionTypeWithdraw}, common.EventWalletAdjusted},
		{"post fee", models.Transaction{TransactionType: common.TransactionTypePostFee}, common.EventPostSubmitted},
		{"refund", models.Transaction{TransactionType: common.TransactionTypeRefund}, common.EventPostRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := tt.entry
			entry.UserID = "user-1"
			entry.CreatedAt = created
			event := LedgerEvent(&entry)
			assert.Equal(t, tt.want, event.Type)
			assert.Equal(t, "user-1", event.UserID)
			assert.Equal(t, created, event.CreatedAt)
		})
	}

	entry := &models.Transaction{TransactionType: common.TransactionTypeRefund, CreatedAt: created, CompletedAt: bun.NullTime{Time: completed}}
	assert.Equal(t, completed, LedgerEvent(entry).CreatedAt)
}
