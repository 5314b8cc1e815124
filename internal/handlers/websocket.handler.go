package handlers

import (
	"strings"
	"time"

	"maidhub/internal/app"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/samber/lo"
)

const wsHandshakeTimeout = 10 * time.Second

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	ws := router.Group("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	ws.Get("/jobs/:jobId", websocket.New(app.Websocket.HandleWebSocket, websocket.Config{
		HandshakeTimeout: wsHandshakeTimeout,
		Origins:          allowedOrigins(app.Config.CorsAllowOrigins),
	}))
}

// allowedOrigins turns the CORS origin list into the upgrader's allow list.
// An empty list or "*" accepts any origin.
func allowedOrigins(corsOrigins string) []string {
	origins := lo.FilterMap(strings.Split(corsOrigins, ","), func(origin string, _ int) (string, bool) {
		origin = strings.TrimSpace(origin)
		return origin, origin != ""
	})
	if len(origins) == 0 || lo.Contains(origins, "*") {
		return []string{"*"}
	}
	return origins
}
