package handlers

import (
	"maidhub/internal/app"
	ierr "maidhub/internal/errors"
	"maidhub/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		log:        logger.New("handlers").File(file),
		router:     router,
		middleware: app.Middleware,
	}
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config, app.Services.Scheduler)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewJobHandler(*app, api).Register()
	NewApplicationHandler(*app, api).Register()
	NewMessageHandler(*app, api).Register()
	NewNotificationHandler(*app, api).Register()
	NewFileHandler(*app, api).Register()
	NewAssistHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

// fail logs err at a level matching its status and writes the error body.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("fail")

	status := ierr.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		log.Er("request failed", err, "method", c.Method(), "path", c.Path())
	} else {
		log.Info(
			"request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"error", err.Error(),
		)
	}

	return middleware.WriteError(c, err)
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, ierr.WithError(err).WithHintf("Invalid %s", param).Mark(ierr.ErrValidation)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return ierr.WithError(err).WithHint("Invalid request body").Mark(ierr.ErrValidation)
	}
	return nil
}
