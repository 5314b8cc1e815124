package handlers

import (
	"maidhub/internal/app"
	applicationController "maidhub/internal/controllers/applications"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	Handler
	applicationController applicationController.ApplicationControllerInterface
}

func NewApplicationHandler(app app.App, router fiber.Router) *ApplicationHandler {
	return &ApplicationHandler{
		applicationController: app.Controllers.Application,
		Handler:               newHandler(app, router, "application_handler"),
	}
}

func (h *ApplicationHandler) Register() {
	auth := h.middleware.RequireAuth()

	jobs := h.router.Group("/jobs/:id/applications", auth)
	jobs.Get("", h.listForJob)
	jobs.Post("", h.apply)

	applications := h.router.Group("/applications", auth)
	applications.Get("/mine", h.listMine)
	applications.Patch("/:id", h.updateStatus)
}

func (h *ApplicationHandler) apply(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req applicationController.ApplyRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return h.fail(c, err)
		}
	}

	application, err := h.applicationController.Apply(
		c.UserContext(),
		middleware.GetUser(c),
		jobID,
		&req,
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"application": application})
}

func (h *ApplicationHandler) listForJob(c *fiber.Ctx) error {
	jobID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	applications, err := h.applicationController.ListForJob(
		c.UserContext(),
		middleware.GetUser(c),
		jobID,
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"applications": applications})
}

func (h *ApplicationHandler) listMine(c *fiber.Ctx) error {
	applications, err := h.applicationController.ListMine(c.UserContext(), middleware.GetUser(c))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"applications": applications})
}

func (h *ApplicationHandler) updateStatus(c *fiber.Ctx) error {
	applicationID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req applicationController.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	application, err := h.applicationController.UpdateStatus(
		c.UserContext(),
		middleware.GetUser(c),
		applicationID,
		&req,
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"application": application})
}
