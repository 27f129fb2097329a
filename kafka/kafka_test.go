package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/ziflex/lecho/v3"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafkago.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func TestPublishKeysByUser(t *testing.T) {
	w := &recordingWriter{}
	p := NewPublisher(w, lecho.New(os.Stdout))

	tx := &models.Transaction{ID: "tx-1", UserID: "user-1", TransactionType: common.TransactionTypeDeposit}
	err := p.Publish(context.Background(), service.Event{Type: common.EventDepositCompleted, UserID: "user-1", Transaction: tx, CreatedAt: time.Now()})
	assert.NoError(t, err)

	if assert.Len(t, w.msgs, 1) {
		msg := w.msgs[0]
		assert.Equal(t, "user-1", string(msg.Key))
		assert.Equal(t, "event_type", msg.Headers[0].Key)
		assert.Equal(t, common.EventDepositCompleted, string(msg.Headers[0].Value))

		var event service.Event
		assert.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.Equal(t, "tx-1", event.Transaction.ID)
	}
}

func TestStartKeepsGoingAfterErrors(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	p := NewPublisher(w, lecho.New(os.Stdout))

	events := make(chan service.Event, 2)
	events <- service.Event{Type: common.EventPostSubmitted, UserID: "user-1"}
	close(events)
	assert.NoError(t, p.Start(context.Background(), events))
	assert.Equal(t, 0, w.count())

	w.err = nil
	events = make(chan service.Event, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx, events) }()
	events <- service.Event{Type: common.EventPostApproved, UserID: "user-2"}
	assert.Eventually(t, func() bool { return w.count() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
