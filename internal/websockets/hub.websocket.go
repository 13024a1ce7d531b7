package websockets

import (
	"sync"

	"fieldops/internal/lifecycle"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Info("Client registered", "clientID", client.ID)
}

// unregisterClient is idempotent; the send channel is closed exactly once.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	client.Status = STATUS_CLOSED
	close(client.send)

	m.log.Function("unregisterClient").Info(
		"Client unregistered",
		"clientID", client.ID,
		"userID", client.UserID,
	)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if client.Status != STATUS_AUTHENTICATED {
			continue
		}
		if client.trySend(message) {
			sent++
		}
	}

	m.log.Function("broadcastMessage").Debug(
		"Broadcast complete",
		"messageID", message.ID,
		"sentTo", sent,
		"totalClients", len(h.clients),
	)
}

func (m *Manager) promoteClientToAuthenticated(client *Client, userID int64, role lifecycle.Role) bool {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if client.Status != STATUS_UNAUTHENTICATED {
		return false
	}
	client.Status = STATUS_AUTHENTICATED
	client.UserID = userID
	client.Role = role
	return true
}

func (m *Manager) isAuthenticated(client *Client) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return client.Status == STATUS_AUTHENTICATED
}

func (m *Manager) SendMessageToUser(userID int64, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent, total := 0, 0
	for _, client := range m.hub.clients {
		if client.Status != STATUS_AUTHENTICATED || client.UserID != userID {
			continue
		}
		total++
		if client.trySend(message) {
			sent++
		}
	}

	if total == 0 {
		log.Debug("No connections found for user", "userID", userID)
		return
	}

	log.Info(
		"Message sent to user connections",
		"userID", userID,
		"messageID", message.ID,
		"sentTo", sent,
		"totalConnections", total,
	)
}

func (m *Manager) ClientCount() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.clients)
}
