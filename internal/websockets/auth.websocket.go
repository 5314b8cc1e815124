package websockets

import (
	"context"
	"time"

	ierr "maidhub/internal/errors"
	"maidhub/internal/events"
	"maidhub/internal/models"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

// authorize resolves the subscriber from token and checks that they may
// join the room of rawJobID.
func (m *Manager) authorize(rawJobID, token string) (*models.User, uuid.UUID, error) {
	jobID, err := uuid.Parse(rawJobID)
	if err != nil {
		return nil, uuid.Nil, ierr.Validation("Invalid job ID")
	}

	if token == "" {
		return nil, uuid.Nil, ierr.NewError("missing token").
			WithHint("Authentication required").
			Mark(ierr.ErrUnauthenticated)
	}

	ctx, cancel := context.WithTimeout(context.Background(), AUTH_HANDSHAKE_TIMEOUT)
	defer cancel()

	user, err := m.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if err := m.authorizer.AuthorizeSubscription(ctx, user, jobID); err != nil {
		return nil, uuid.Nil, err
	}

	return user, jobID, nil
}

// reject writes a subscription.rejected frame and closes the connection.
func (m *Manager) reject(c *websocket.Conn, reason error) {
	log := m.log.Function("reject")

	frame := Message{
		ID:   uuid.New().String(),
		Type: events.SUBSCRIPTION_REJECTED,
		Data: map[string]any{
			"reason": ierr.Hint(reason),
			"code":   ierr.Code(reason),
		},
		Timestamp: time.Now().UTC(),
	}

	if err := c.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
		log.Er("failed to set write deadline", err)
	}
	if err := c.WriteJSON(frame); err != nil {
		log.Er("failed to send rejection", err)
	}

	closeFrame := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ierr.Hint(reason))
	_ = c.WriteMessage(websocket.CloseMessage, closeFrame)

	if err := c.Close(); err != nil {
		log.Er("failed to close connection", err)
	}
}
