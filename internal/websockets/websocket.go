package websockets

import (
	"time"

	"fieldops/config"
	"fieldops/internal/events"
	"fieldops/internal/lifecycle"
	"fieldops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64

	SYSTEM_CHANNEL events.Channel = "system"
)

type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	Channel   events.Channel     `json:"channel,omitempty"`
	UserID    *int64             `json:"userId,omitempty"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     int64
	Role       lifecycle.Role
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Manager pushes notifications and order changes from the event bus to
// connected clients. Clients authenticate with the same bearer token the
// API accepts.
type Manager struct {
	hub      *Hub
	identity *services.IdentityService
	config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	eventBus *events.EventBus,
	identity *services.IdentityService,
	config config.Config,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message, SEND_CHANNEL_SIZE),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		identity: identity,
		config:   config,
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToNotificationEvents(); err != nil {
		return nil, err
	}
	if err := manager.subscribeToOrderEvents(); err != nil {
		return nil, err
	}

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	client.startAuthTimeout()
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
	}()

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()
		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == events.AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if !c.Manager.isAuthenticated(c) {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case events.PING:
		c.trySend(Message{
			ID:        uuid.New().String(),
			Type:      events.PONG,
			Channel:   SYSTEM_CHANNEL,
			Timestamp: time.Now(),
		})
	default:
		log.Warn("Unknown message type", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend drops the message rather than block on a slow client.
func (c *Client) trySend(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		c.Manager.log.Function("trySend").Warn("Client send channel full, dropping message", "clientID", c.ID)
		return false
	}
}

func (m *Manager) subscribeToNotificationEvents() error {
	log := m.log.Function("subscribeToNotificationEvents")

	err := m.eventBus.Subscribe(events.NOTIFICATION_CHANNEL, func(event events.Event) error {
		if event.UserID == nil {
			log.Warn("Notification event without recipient", "eventID", event.ID)
			return nil
		}

		m.SendMessageToUser(*event.UserID, Message{
			ID:        event.ID,
			Type:      event.Type,
			Channel:   events.NOTIFICATION_CHANNEL,
			UserID:    event.UserID,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		return log.Err("Failed to subscribe to notification events", err)
	}
	return nil
}

func (m *Manager) subscribeToOrderEvents() error {
	log := m.log.Function("subscribeToOrderEvents")

	err := m.eventBus.Subscribe(events.ORDER_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        event.ID,
			Type:      event.Type,
			Channel:   events.ORDER_CHANNEL,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		return log.Err("Failed to subscribe to order events", err)
	}
	return nil
}

func (m *Manager) BroadcastMessage(message Message) {
	select {
	case m.hub.broadcast <- message:
	default:
		m.log.Function("BroadcastMessage").Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}
