package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/google/uuid"
)

// Event types published by the ledger.
const (
	EventTypeCharacterCreated  = "character_created"
	EventTypePointsAllocated   = "points_allocated"
	EventTypeCheckRolled       = "check_rolled"
	EventTypeDamageApplied     = "damage_applied"
	EventTypeHealApplied       = "heal_applied"
	EventTypeWalletDebited     = "wallet_debited"
	EventTypeWalletCredited    = "wallet_credited"
	EventTypeItemPurchased     = "item_purchased"
	EventTypeItemGranted       = "item_granted"
	EventTypeCommunityRestored = "community_restored"
)

// Event is one ledger mutation or roll, scoped to a community.
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	CommunityID string          `json:"community_id"`
	MemberID    string          `json:"member_id,omitempty"`
	Timestamp   int64           `json:"timestamp"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

const (
	// SubscriberBufferSize is the number of events buffered per subscriber.
	SubscriberBufferSize = 256
)

// Broker fans events out to per-community subscribers. Delivery is
// best-effort: a subscriber that falls behind its buffer loses events
// rather than blocking the publisher.
type Broker struct {
	lock        sync.Mutex
	subscribers map[string]map[uint64]chan Event
	nextID      uint64
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string]map[uint64]chan Event),
	}
}

// Subscribe registers a subscriber for one community's events. The
// returned cancel function removes the subscription and closes the
// channel.
func (b *Broker) Subscribe(communityID string) (<-chan Event, func()) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.subscribers[communityID] == nil {
		b.subscribers[communityID] = make(map[uint64]chan Event)
	}
	id := b.nextID
	b.nextID++
	ch := make(chan Event, SubscriberBufferSize)
	b.subscribers[communityID][id] = ch

	cancel := func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		if subscribers, ok := b.subscribers[communityID]; ok {
			if ch, ok := subscribers[id]; ok {
				delete(subscribers, id)
				close(ch)
			}
			if len(subscribers) == 0 {
				delete(b.subscribers, communityID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to the community's subscribers. The payload
// is marshaled to JSON; events that cannot be marshaled are dropped.
func (b *Broker) Publish(eventType, communityID, memberID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal %s event payload: %v", eventType, err)
		return
	}

	event := Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		CommunityID: communityID,
		MemberID:    memberID,
		Timestamp:   time.Now().UnixMilli(),
		Payload:     data,
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	for id, ch := range b.subscribers[communityID] {
		select {
		case ch <- event:
		default:
			log.Warn("Dropping %s event for slow subscriber %d", eventType, id)
		}
	}
}
