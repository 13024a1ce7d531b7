package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fieldops/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type Channel string

func (c Channel) String() string {
	return string(c)
}

const (
	NOTIFICATION_CHANNEL Channel = "notifications"
	ORDER_CHANNEL        Channel = "orders"
)

type MessageType string

const (
	PING            MessageType = "ping"
	PONG            MessageType = "pong"
	ERROR           MessageType = "error"
	AUTH_REQUEST    MessageType = "auth_request"
	AUTH_RESPONSE   MessageType = "auth_response"
	AUTH_SUCCESS    MessageType = "auth_success"
	AUTH_FAILURE    MessageType = "auth_failure"
	NOTIFICATION    MessageType = "notification"
	ORDER_CHANGED   MessageType = "order_changed"
	ORDER_REMINDER  MessageType = "order_reminder"
	WORKER_ASSIGNED MessageType = "worker_assigned"
	ORDER_COMPLETED MessageType = "order_completed"
)

type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	UserID    *int64         `json:"userId,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// EventBus fans events out through valkey pub/sub so every API instance sees
// them. Without a client it only delivers to local handlers.
type EventBus struct {
	client   valkey.Client
	logger   logger.Logger
	config   config.Config
	handlers map[Channel][]EventHandler
	mutex    sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(client valkey.Client, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventBus{
		client:   client,
		logger:   logger.New("EventBus"),
		config:   config,
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.logger.Function("Publish")

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Channel == "" {
		event.Channel = channel
	}

	if eb.client == nil {
		eb.notifyLocalHandlers(channel, event)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, 5*time.Second)
	defer cancel()

	err = eb.client.Do(ctx, eb.client.B().Publish().Channel(channel.String()).Message(string(eventData)).Build()).
		Error()
	if err != nil {
		return log.Err(
			"failed to publish event to valkey",
			err,
			"channel", channel,
			"eventID", event.ID,
		)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "eventType", event.Type)
	return nil
}

func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	log := eb.logger.Function("Subscribe")

	eb.mutex.Lock()
	first := len(eb.handlers[channel]) == 0
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mutex.Unlock()

	log.Info("Handler subscribed to channel", "channel", channel)

	if first && eb.client != nil {
		go eb.listenToChannel(channel)
	}

	return nil
}

func (eb *EventBus) notifyLocalHandlers(channel Channel, event Event) {
	log := eb.logger.Function("notifyLocalHandlers")

	eb.mutex.RLock()
	handlers := eb.handlers[channel]
	eb.mutex.RUnlock()

	for i, handler := range handlers {
		go func(h EventHandler, handlerIndex int) {
			if err := h(event); err != nil {
				log.Er(
					"handler failed",
					err,
					"channel", channel,
					"eventID", event.ID,
					"handlerIndex", handlerIndex,
				)
			}
		}(handler, i)
	}
}

func (eb *EventBus) listenToChannel(channel Channel) {
	log := eb.logger.Function("listenToChannel")

	log.Info("Starting to listen to channel", "channel", channel)

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.String()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			eb.notifyLocalHandlers(channel, event)
		},
	)
	if err != nil && eb.ctx.Err() == nil {
		log.Er("failed to listen to channel", err, "channel", channel)
	}
}

func (eb *EventBus) Close() error {
	eb.cancel()
	eb.logger.Function("Close").Info("EventBus closed")
	return nil
}

// OrderChangedEvent tells connected clients that an order snapshot is stale.
func OrderChangedEvent(orderID int64, status string) Event {
	return Event{
		Type: ORDER_CHANGED,
		Data: map[string]any{
			"orderId": orderID,
			"status":  status,
		},
	}
}
