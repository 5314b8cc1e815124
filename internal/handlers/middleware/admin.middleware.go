package middleware

import (
	ierr "maidhub/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin must run after RequireAuth.
func (m *Middleware) RequireAdmin() fiber.Handler {
	log := m.log.Function("RequireAdmin")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return WriteError(c, unauthenticated("Authentication required"))
		}

		if !user.IsAdmin() {
			log.Info("user is not admin", "userID", user.ID)
			return WriteError(c, ierr.Forbidden("Admin access required"))
		}

		return c.Next()
	}
}
