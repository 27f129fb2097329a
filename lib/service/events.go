package service

import (
	"encoding/json"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
)

// EncodeEvent is the wire format shared by the webhook, amqp and kafka sinks.
func EncodeEvent(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// LedgerEvent rebuilds the event a completed ledger entry was published with.
// Deposits without a payment method were written by admin adjustments.
func LedgerEvent(entry *models.Transaction) Event {
	eventType := common.EventWalletAdjusted
	switch entry.TransactionType {
	case common.TransactionTypeDeposit:
		if entry.Method != "" {
			eventType = common.EventDepositCompleted
		}
	case common.TransactionTypePostFee:
		eventType = common.EventPostSubmitted
	case common.TransactionTypeRefund:
		eventType = common.EventPostRejected
	}
	createdAt := entry.CreatedAt
	if !entry.CompletedAt.IsZero() {
		createdAt = entry.CompletedAt.Time
	}
	return Event{Type: eventType, UserID: entry.UserID, Transaction: entry, CreatedAt: createdAt}
}
