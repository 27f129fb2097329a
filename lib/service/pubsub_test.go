package service

import (
	"testing"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/stretchr/testify/assert"
)

func TestPubsubDelivery(t *testing.T) {
	ps := NewPubsub()
	ch := make(chan Event, 1)
	id, err := ps.Subscribe("user-1", ch)
	assert.NoError(t, err)
	assert.Equal(t, 1, ps.SubscriberCount("user-1"))

	ps.Publish("user-2", Event{Type: common.EventDepositRequested, UserID: "user-2"})
	assert.Len(t, ch, 0)

	ps.Publish("user-1", Event{Type: common.EventDepositCompleted, UserID: "user-1"})
	event := <-ch
	assert.Equal(t, common.EventDepositCompleted, event.Type)

	// full buffers drop instead of blocking the publisher
	ps.Publish("user-1", Event{Type: common.EventPostApproved})
	ps.Publish("user-1", Event{Type: common.EventPostRejected})
	assert.Len(t, ch, 1)

	ps.Unsubscribe(id, "user-1")
	assert.Equal(t, 0, ps.SubscriberCount("user-1"))
	<-ch
	_, open := <-ch
	assert.False(t, open)
}

func TestPublishEventFansOut(t *testing.T) {
	s := &BdshubService{EventPubSub: NewPubsub()}
	user := make(chan Event, 1)
	all := make(chan Event, 1)
	_, _ = s.EventPubSub.Subscribe("user-1", user)
	_, _ = s.EventPubSub.Subscribe(common.TopicAllEvents, all)

	post := &models.MemberPost{ID: "post-1", AuthorID: "user-1"}
	s.publishEvent(Event{Type: common.EventPostSubmitted, UserID: "user-1", Post: post})

	got := <-user
	assert.Equal(t, "post-1", got.Post.ID)
	assert.False(t, got.CreatedAt.IsZero())
	got = <-all
	assert.Equal(t, common.EventPostSubmitted, got.Type)

	// no pubsub configured
	(&BdshubService{}).publishEvent(Event{Type: common.EventPostSubmitted})
}

func TestEncodeEvent(t *testing.T) {
	tx := &models.Transaction{ID: "tx-1", TransactionType: common.TransactionTypeDeposit}
	b, err := EncodeEvent(Event{Type: common.EventDepositCompleted, UserID: "user-1", Transaction: tx})
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"type":"deposit.completed"`)
	assert.Contains(t, string(b), `"user_id":"user-1"`)
	assert.NotContains(t, string(b), `"post"`)
}

func TestSubscribeAllEvents(t *testing.T) {
	s := &BdshubService{EventPubSub: NewPubsub()}
	events, unsubscribe, err := s.SubscribeAllEvents()
	assert.NoError(t, err)

	s.publishEvent(Event{Type: common.EventWalletAdjusted, UserID: "user-9"})
	event := <-events
	assert.Equal(t, "user-9", event.UserID)

	unsubscribe()
	_, open := <-events
	assert.False(t, open)
	assert.Equal(t, 0, s.EventPubSub.SubscriberCount(common.TopicAllEvents))
}
