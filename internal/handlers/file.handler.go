package handlers

import (
	"strings"

	"maidhub/internal/app"
	fileController "maidhub/internal/controllers/files"
	ierr "maidhub/internal/errors"
	"maidhub/internal/handlers/middleware"
	"maidhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	Handler
	fileController fileController.FileControllerInterface
}

func NewFileHandler(app app.App, router fiber.Router) *FileHandler {
	return &FileHandler{
		fileController: app.Controllers.File,
		Handler:        newHandler(app, router, "file_handler"),
	}
}

func (h *FileHandler) Register() {
	files := h.router.Group("/files", h.middleware.RequireAuth())
	files.Post("", h.upload)
	files.Get("/:id/url", h.getURL)
}

// upload accepts a multipart form with a "file" part and an optional
// "purpose" field that defaults to ATTACHMENT.
func (h *FileHandler) upload(c *fiber.Ctx) error {
	log := h.log.Function("upload")

	header, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, ierr.WithError(err).WithHint("A file is required").Mark(ierr.ErrValidation))
	}

	purpose := models.FilePurpose(strings.ToUpper(c.FormValue("purpose")))
	if purpose == "" {
		purpose = models.FilePurposeAttachment
	}

	content, err := header.Open()
	if err != nil {
		return h.fail(c, log.Err("failed to open upload", err, "fileName", header.Filename))
	}
	defer func() {
		if err := content.Close(); err != nil {
			log.Er("failed to close upload", err)
		}
	}()

	response, err := h.fileController.Upload(c.UserContext(), middleware.GetUser(c), &fileController.UploadRequest{
		FileName: header.Filename,
		Size:     header.Size,
		Purpose:  purpose,
		Content:  content,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *FileHandler) getURL(c *fiber.Ctx) error {
	fileID, err := parseID(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	url, err := h.fileController.GetURL(c.UserContext(), middleware.GetUser(c), fileID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}
