package handlers

import (
	"maidhub/internal/app"
	assistController "maidhub/internal/controllers/assist"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AssistHandler struct {
	Handler
	assistController assistController.AssistControllerInterface
}

type applicationMessageRequest struct {
	JobID uuid.UUID `json:"jobId"`
}

func NewAssistHandler(app app.App, router fiber.Router) *AssistHandler {
	return &AssistHandler{
		assistController: app.Controllers.Assist,
		Handler:          newHandler(app, router, "assist_handler"),
	}
}

func (h *AssistHandler) Register() {
	assist := h.router.Group("/assist", h.middleware.RequireAuth())
	assist.Post("/job-description", h.jobDescription)
	assist.Post("/application-message", h.applicationMessage)
	assist.Get("/places", h.places)
}

func (h *AssistHandler) jobDescription(c *fiber.Ctx) error {
	var req assistController.JobDescriptionRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	text, err := h.assistController.GenerateJobDescription(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"text": text})
}

func (h *AssistHandler) applicationMessage(c *fiber.Ctx) error {
	var req applicationMessageRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	text, err := h.assistController.GenerateApplicationMessage(
		c.UserContext(),
		middleware.GetUser(c),
		req.JobID,
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"text": text})
}

func (h *AssistHandler) places(c *fiber.Ctx) error {
	predictions, err := h.assistController.PlacePredictions(c.UserContext(), c.Query("input"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"predictions": predictions})
}
