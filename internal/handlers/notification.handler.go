package handlers

import (
	"maidhub/internal/app"
	notificationController "maidhub/internal/controllers/notifications"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationController notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		notificationController: app.Controllers.Notification,
		Handler:                newHandler(app, router, "notification_handler"),
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())
	notifications.Get("", h.list)
	notifications.Get("/unread-count", h.unreadCount)
	notifications.Post("/read-all", h.markAllRead)
	notifications.Patch("/:id", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	notifications, err := h.notificationController.List(
		c.UserContext(),
		middleware.GetUser(c),
		c.QueryBool("unread"),
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	count, err := h.notificationController.UnreadCount(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	updated, err := h.notificationController.MarkAllRead(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	notificationID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	err = h.notificationController.MarkRead(c.UserContext(), middleware.GetUser(c), notificationID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
