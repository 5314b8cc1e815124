package handlers

import (
	"strings"

	"maidhub/internal/app"
	messageController "maidhub/internal/controllers/messages"
	reportController "maidhub/internal/controllers/reports"
	"maidhub/internal/handlers/middleware"
	"maidhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	reportController  reportController.ReportControllerInterface
	messageController messageController.MessageControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		reportController:  app.Controllers.Report,
		messageController: app.Controllers.Message,
		Handler:           newHandler(app, router, "admin_handler"),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group(
		"/admin",
		h.middleware.RequireAuth(),
		h.middleware.RequireAdmin(),
	)
	admin.Get("/reports", h.listReports)
	admin.Patch("/reports/:id", h.updateReport)
	admin.Post("/messages/:id/redact", h.redactMessage)
}

func (h *AdminHandler) listReports(c *fiber.Ctx) error {
	var status *models.ReportStatus
	if raw := c.Query("status"); raw != "" {
		reportStatus := models.ReportStatus(strings.ToUpper(raw))
		status = &reportStatus
	}

	reports, err := h.reportController.ListReports(c.UserContext(), middleware.GetUser(c), status)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"reports": reports})
}

func (h *AdminHandler) updateReport(c *fiber.Ctx) error {
	reportID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	var req reportController.UpdateReportRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	report, err := h.reportController.UpdateReport(
		c.UserContext(),
		middleware.GetUser(c),
		reportID,
		&req,
	)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"report": report})
}

func (h *AdminHandler) redactMessage(c *fiber.Ctx) error {
	messageID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	message, err := h.messageController.Redact(c.UserContext(), middleware.GetUser(c), messageID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}
