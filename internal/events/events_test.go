package events

import (
	"testing"
	"time"

	"fieldops/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDeliveryWithoutClient(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(NOTIFICATION_CHANNEL, func(event Event) error {
		received <- event
		return nil
	}))

	userID := int64(12)
	require.NoError(t, bus.Publish(NOTIFICATION_CHANNEL, Event{
		Type:   WORKER_ASSIGNED,
		UserID: &userID,
		Data:   map[string]any{"orderId": int64(3)},
	}))

	select {
	case event := <-received:
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, NOTIFICATION_CHANNEL, event.Channel)
		assert.Equal(t, WORKER_ASSIGNED, event.Type)
		assert.Equal(t, int64(12), *event.UserID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_OtherChannelsNotNotified(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ORDER_CHANNEL, func(event Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(NOTIFICATION_CHANNEL, Event{Type: NOTIFICATION}))

	select {
	case <-received:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}
}
