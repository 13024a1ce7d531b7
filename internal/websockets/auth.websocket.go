package websockets

import (
	"context"
	"time"

	"fieldops/internal/events"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

func (c *Client) startAuthTimeout() {
	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.Manager.isAuthenticated(c) {
			return
		}

		c.Manager.log.Function("startAuthTimeout").Warn(
			"Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
		)
		_ = c.Connection.Close()
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Manager.isAuthenticated(c) {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), WRITE_TIMEOUT)
	defer cancel()

	principal, _, err := c.Manager.identity.Resolve(ctx, token)
	if err != nil {
		log.Info("WebSocket token rejected", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	if !c.Manager.promoteClientToAuthenticated(c, principal.ID, principal.Role) {
		return
	}

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", principal.ID)

	userID := principal.ID
	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_SUCCESS,
		Channel:   SYSTEM_CHANNEL,
		UserID:    &userID,
		Data:      map[string]any{"userId": userID, "role": principal.Role},
		Timestamp: time.Now(),
	})
}

func (c *Client) sendAuthFailure(reason string) {
	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"reason": reason},
		Timestamp: time.Now(),
	})

	c.Manager.log.Function("sendAuthFailure").Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	time.AfterFunc(100*time.Millisecond, func() {
		_ = c.Connection.Close()
	})
}

func (c *Client) sendAuthRequest() error {
	err := c.Connection.WriteJSON(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_REQUEST,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"action": "authenticate"},
		Timestamp: time.Now(),
	})
	if err != nil {
		return c.Manager.log.Function("sendAuthRequest").Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").Warn(
		"Blocking message from unauthenticated client",
		"clientID", c.ID,
		"type", message.Type,
	)

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      events.AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"reason": "Authentication required"},
		Timestamp: time.Now(),
	})
}
