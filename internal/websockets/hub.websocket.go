package websockets

import (
	"sync"

	"github.com/google/uuid"
)

// Hub tracks job rooms for this process. Rooms live only in memory, so a
// subscriber on another process is reached through the event bus.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[uuid.UUID]map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

// isMember reports whether c is still registered. Callers hold the mutex.
func (h *Hub) isMember(c *Client) bool {
	room, ok := h.rooms[c.JobID]
	if !ok {
		return false
	}
	_, ok = room[c.ID]
	return ok
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	room, ok := m.hub.rooms[client.JobID]
	if !ok {
		room = make(map[string]*Client)
		m.hub.rooms[client.JobID] = room
	}
	room[client.ID] = client

	log.Info(
		"Client joined room",
		"clientID", client.ID,
		"userID", client.UserID,
		"jobID", client.JobID,
		"roomSize", len(room),
	)
}

// unregisterClient removes client from its room and closes its send channel.
// Safe to call more than once for the same client.
func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if !m.hub.isMember(client) {
		return
	}

	room := m.hub.rooms[client.JobID]
	delete(room, client.ID)
	close(client.send)

	if len(room) == 0 {
		delete(m.hub.rooms, client.JobID)
	}

	log.Info(
		"Client left room",
		"clientID", client.ID,
		"userID", client.UserID,
		"jobID", client.JobID,
		"roomSize", len(room),
	)
}

// deliver fans message out to every client in the job room except the
// connections of exclude. A client whose buffer is full misses the message
// and is evicted.
func (m *Manager) deliver(jobID uuid.UUID, message Message, exclude uuid.UUID) {
	log := m.log.Function("deliver")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	room, ok := m.hub.rooms[jobID]
	if !ok {
		return
	}

	sent := 0
	for _, client := range room {
		if exclude != uuid.Nil && client.UserID == exclude {
			continue
		}

		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client too slow, disconnecting", "clientID", client.ID, "jobID", jobID)
			m.evict(client)
		}
	}

	log.Debug("Delivered to room", "jobID", jobID, "type", message.Type, "sentTo", sent)
}

func (m *Manager) evict(client *Client) {
	go func() {
		m.hub.unregister <- client
	}()
}

// RoomSize returns the number of live connections subscribed to jobID.
func (m *Manager) RoomSize(jobID uuid.UUID) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	return len(m.hub.rooms[jobID])
}
