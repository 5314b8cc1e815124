package handlers

import (
	"maidhub/internal/app"
	authController "maidhub/internal/controllers/auth"
	"maidhub/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
	auth.Get("/me", h.middleware.RequireAuth(), h.getCurrentUser)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req authController.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	response, err := h.authController.Register(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req authController.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return h.fail(c, err)
	}

	response, err := h.authController.Login(c.UserContext(), &req)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(response)
}

func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	return c.JSON(fiber.Map{
		"user": h.authController.Me(c.UserContext(), user),
	})
}
