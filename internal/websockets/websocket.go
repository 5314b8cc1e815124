package websockets

import (
	"context"
	"time"

	"maidhub/internal/events"
	"maidhub/internal/models"

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
)

// Message is the frame written to and read from a job room connection.
type Message struct {
	ID        string             `json:"id"`
	Type      events.MessageType `json:"type"`
	JobID     *uuid.UUID         `json:"jobId,omitempty"`
	UserID    *uuid.UUID         `json:"userId,omitempty"`
	Data      map[string]any     `json:"data,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	JobID      uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// SubscriptionAuthorizer decides whether user may join the room of jobID.
type SubscriptionAuthorizer interface {
	AuthorizeSubscription(ctx context.Context, user *models.User, jobID uuid.UUID) error
}

type Manager struct {
	hub        *Hub
	auth       Authenticator
	authorizer SubscriptionAuthorizer
	log        logger.Logger
	eventBus   *events.EventBus
}

func New(
	eventBus *events.EventBus,
	auth Authenticator,
	authorizer SubscriptionAuthorizer,
) (*Manager, error) {
	manager := newManager(eventBus, auth, authorizer)
	log := manager.log.Function("New")

	log.Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := eventBus.Subscribe(events.JOB_CHANNEL, manager.handleJobEvent); err != nil {
		return nil, log.Err("failed to subscribe to job events", err)
	}

	return manager, nil
}

func newManager(
	eventBus *events.EventBus,
	auth Authenticator,
	authorizer SubscriptionAuthorizer,
) *Manager {
	return &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			rooms:      make(map[uuid.UUID]map[string]*Client),
		},
		auth:       auth,
		authorizer: authorizer,
		log:        logger.New("websockets"),
		eventBus:   eventBus,
	}
}

// HandleWebSocket serves one subscription to a job room. The job comes from
// the :jobId route param and the bearer token from the token query param.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	user, jobID, err := m.authorize(c.Params("jobId"), c.Query("token"))
	if err != nil {
		log.Info("Subscription rejected", "jobID", c.Params("jobId"), "error", err.Error())
		m.reject(c, err)
		return
	}

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		JobID:      jobID,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	client.send <- Message{
		ID:        uuid.New().String(),
		Type:      events.SUBSCRIPTION_ACCEPTED,
		JobID:     &jobID,
		UserID:    &user.ID,
		Timestamp: time.Now().UTC(),
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID, "jobID", jobID)
		m.hub.unregister <- client
		_ = c.Close()
	}()

	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

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

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	switch message.Type {
	case events.TYPING:
		isTyping, _ := message.Data["isTyping"].(bool)
		c.Manager.relayTyping(c, isTyping)
	case events.PING:
		c.enqueue(Message{
			ID:        uuid.New().String(),
			Type:      events.PONG,
			JobID:     &c.JobID,
			Timestamp: time.Now().UTC(),
		})
	default:
		log.Warn("Unknown message type", "clientID", c.ID, "type", message.Type)
		c.enqueue(Message{
			ID:        uuid.New().String(),
			Type:      events.ERROR,
			JobID:     &c.JobID,
			Data:      map[string]any{"reason": "Unsupported message type"},
			Timestamp: time.Now().UTC(),
		})
	}
}

// enqueue queues a direct reply for this client, evicting it when its buffer is full.
func (c *Client) enqueue(message Message) {
	c.Manager.hub.mutex.RLock()
	defer c.Manager.hub.mutex.RUnlock()

	if !c.Manager.hub.isMember(c) {
		return
	}

	select {
	case c.send <- message:
	default:
		c.Manager.evict(c)
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
				log.Er("WebSocket write error", err, "clientID", c.ID, "type", message.Type)
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

// handleJobEvent delivers a job channel event to the matching room. Typing
// events skip every connection of the user who is typing.
func (m *Manager) handleJobEvent(event events.Event) error {
	if event.JobID == nil {
		return nil
	}

	message := Message{
		ID:        event.ID,
		Type:      event.Type,
		JobID:     event.JobID,
		UserID:    event.UserID,
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}

	exclude := uuid.Nil
	if event.Type == events.TYPING && event.UserID != nil {
		exclude = *event.UserID
	}

	m.deliver(*event.JobID, message, exclude)
	return nil
}

func (m *Manager) relayTyping(c *Client, isTyping bool) {
	log := m.log.Function("relayTyping")

	userID := c.UserID
	jobID := c.JobID
	err := m.eventBus.Publish(events.JOB_CHANNEL, events.Event{
		Type:   events.TYPING,
		JobID:  &jobID,
		UserID: &userID,
		Data: map[string]any{
			"userId":   userID.String(),
			"isTyping": isTyping,
		},
	})
	if err != nil {
		log.Er("failed to relay typing", err, "clientID", c.ID, "jobID", jobID)
	}
}
