package middleware

import (
	"context"
	"strings"

	ierr "maidhub/internal/errors"
	"maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// Authenticate resolves a bearer token to an active user. It backs both
// RequireAuth and the live channel handshake.
func (m *Middleware) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := m.userRepo.GetByID(ctx, m.DB.SQLWithContext(ctx), claims.UserID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, unauthenticated("Invalid or expired token")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, unauthenticated("Account is disabled")
	}

	return user, nil
}

// RequireAuth validates the bearer token and stores the user in the request
// context. Nested groups may stack it; the token is only resolved once.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) != nil {
			return c.Next()
		}

		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Info("missing or malformed authorization header")
			return WriteError(c, unauthenticated("Authorization header required"))
		}

		user, err := m.Authenticate(c.UserContext(), token)
		if err != nil {
			log.Info("authentication failed", "error", err.Error())
			return WriteError(c, err)
		}

		c.Locals(UserKeyFiber, user)

		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		log.Debug("user authenticated", "userID", user.ID, "role", user.Role)
		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(hint string) error {
	return ierr.NewError(hint).WithHint(hint).Mark(ierr.ErrUnauthenticated)
}
