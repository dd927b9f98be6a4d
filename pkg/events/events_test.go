package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	broker := NewBroker()
	ch, cancel := broker.Subscribe("guild-1")
	defer cancel()

	broker.Publish(EventTypeItemPurchased, "guild-1", "member-1", map[string]int{"qty": 2})

	select {
	case event := <-ch:
		assert.Equal(t, EventTypeItemPurchased, event.Type)
		assert.Equal(t, "guild-1", event.CommunityID)
		assert.Equal(t, "member-1", event.MemberID)
		assert.NotEmpty(t, event.ID)
		assert.JSONEq(t, `{"qty": 2}`, string(event.Payload))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerCommunityIsolation(t *testing.T) {
	broker := NewBroker()
	ch, cancel := broker.Subscribe("guild-1")
	defer cancel()

	broker.Publish(EventTypeItemGranted, "guild-2", "member-1", nil)

	select {
	case event := <-ch:
		t.Fatalf("received event for another community: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerCancel(t *testing.T) {
	broker := NewBroker()
	ch, cancel := broker.Subscribe("guild-1")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	broker.Publish(EventTypeHealApplied, "guild-1", "member-1", nil)
}

func TestBrokerSlowSubscriber(t *testing.T) {
	broker := NewBroker()
	ch, cancel := broker.Subscribe("guild-1")
	defer cancel()

	// fill the buffer and keep publishing; the publisher must not block
	for i := 0; i < SubscriberBufferSize+10; i++ {
		broker.Publish(EventTypeDamageApplied, "guild-1", "member-1", map[string]int{"i": i})
	}

	require.Len(t, ch, SubscriberBufferSize)
}
