package handlers

import (
	"maidhub/internal/app"
	messageController "maidhub/internal/controllers/messages"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	Handler
	messageController messageController.MessageControllerInterface
}

func NewMessageHandler(app app.App, router fiber.Router) *MessageHandler {
	return &MessageHandler{
		messageController: app.Controllers.Message,
		Handler:           newHandler(app, router, "message_handler"),
	}
}

func (h *MessageHandler) Register() {
	auth := h.middleware.RequireAuth()

	jobs := h.router.Group("/jobs/:id", auth)
	jobs.Get("/participants", h.getParticipants)
	jobs.Get("/messages", h.listMessages)
	jobs.Post("/messages", h.sendMessage)
	jobs.Post("/messages/read", h.markAllRead)

	messages := h.router.Group("/messages", auth)
	messages.Get("/unread", h.unreadCounts)
	messages.Patch("/:id", h.editMessage)
	messages.Delete("/:id", h.deleteMessage)
	messages.Post("/:id/read", h.markRead)
	messages.Post("/:id/reports", h.reportMessage)
}

func (h *MessageHandler) getParticipants(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	participants, err := h.messageController.Participants(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"participants": participants})
}

func (h *MessageHandler) listMessages(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	messages, err := h.messageController.List(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"messages": messages})
}

func (h *MessageHandler) sendMessage(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req messageController.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	message, err := h.messageController.Send(c.UserContext(), middleware.GetUser(c), jobID, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (h *MessageHandler) markAllRead(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	ids, err := h.messageController.MarkAllRead(c.UserContext(), middleware.GetUser(c), jobID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"messageIds": ids,
		"count":      len(ids),
	})
}

func (h *MessageHandler) unreadCounts(c *fiber.Ctx) error {
	counts, err := h.messageController.UnreadCounts(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"unread": counts})
}

func (h *MessageHandler) editMessage(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req messageController.EditMessageRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	message, err := h.messageController.Edit(c.UserContext(), middleware.GetUser(c), messageID, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

func (h *MessageHandler) deleteMessage(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	message, err := h.messageController.Delete(c.UserContext(), middleware.GetUser(c), messageID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

func (h *MessageHandler) markRead(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	if err := h.messageController.MarkRead(c.UserContext(), middleware.GetUser(c), messageID); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MessageHandler) reportMessage(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req messageController.ReportRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	report, err := h.messageController.Report(c.UserContext(), middleware.GetUser(c), messageID, &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"report": report})
}
