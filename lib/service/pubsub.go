package service

import (
	"sync"
	"time"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/bdsvietnam/bdshub.go/db/models"
	"github.com/labstack/gommon/random"
)

// Event is what committed workflow changes publish. Transaction and Post are
// set depending on the type.
type Event struct {
	Type        string              `json:"type"`
	UserID      string              `json:"user_id"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Post        *models.MemberPost  `json:"post,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan Event
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan Event)
	return ps
}

// Subscribe registers ch on topic. Topics are user ids or TopicAllEvents.
func (ps *Pubsub) Subscribe(topic string, ch chan Event) (subId string, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan Event)
	}
	subId = random.String(32, alphaNumBytes)
	for ps.subs[topic][subId] != nil {
		subId = random.String(32, alphaNumBytes)
	}
	ps.subs[topic][subId] = ch
	return subId, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
	if len(ps.subs[topic]) == 0 {
		delete(ps.subs, topic)
	}
}

// Publish delivers msg to the subscribers of topic. Subscribers whose buffer
// is full miss the message.
func (ps *Pubsub) Publish(topic string, msg Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (ps *Pubsub) SubscriberCount(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subs[topic])
}

func (svc *BdshubService) publishEvent(event Event) {
	if svc.EventPubSub == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	svc.EventPubSub.Publish(event.UserID, event)
	svc.EventPubSub.Publish(common.TopicAllEvents, event)
}

// SubscribeAllEvents subscribes a buffered channel to every event. The
// returned func unsubscribes and closes the channel.
func (svc *BdshubService) SubscribeAllEvents() (<-chan Event, func(), error) {
	events := make(chan Event, 100)
	subId, err := svc.EventPubSub.Subscribe(common.TopicAllEvents, events)
	if err != nil {
		return nil, nil, err
	}
	return events, func() { svc.EventPubSub.Unsubscribe(subId, common.TopicAllEvents) }, nil
}
