package handlers

import (
	"maidhub/internal/app"
	userController "maidhub/internal/controllers/users"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())
	users.Patch("/me", h.updateProfile)
	users.Put("/me/experience", h.setExperienceAnswers)
	users.Get("/:id", h.getProfile)
	users.Get("/:id/experience", h.listExperienceAnswers)
}

// userParam resolves :id, accepting "me" for the caller.
func (h *UserHandler) userParam(c *fiber.Ctx) (uuid.UUID, error) {
	if c.Params("id") == "me" {
		return middleware.GetUser(c).ID, nil
	}
	return parseID(c, "id")
}

func (h *UserHandler) getProfile(c *fiber.Ctx) error {
	userID, err := h.userParam(c)
	if err != nil {
		return h.fail(c, err)
	}

	profile, err := h.userController.GetProfile(c.UserContext(), middleware.GetUser(c), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	var req userController.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	profile, err := h.userController.UpdateProfile(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) listExperienceAnswers(c *fiber.Ctx) error {
	userID, err := h.userParam(c)
	if err != nil {
		return h.fail(c, err)
	}

	answers, err := h.userController.ListExperienceAnswers(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"answers": answers})
}

func (h *UserHandler) setExperienceAnswers(c *fiber.Ctx) error {
	var req userController.SetExperienceAnswersRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	answers, err := h.userController.SetExperienceAnswers(c.UserContext(), middleware.GetUser(c), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"answers": answers})
}
