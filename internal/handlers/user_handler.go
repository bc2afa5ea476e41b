package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the admin-only account listing and removal routes.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// RegisterRoutes registers the user administration routes behind the gate.
// POST /users stays public, so the gate is attached per route rather than to
// a /users group.
func (h *UserHandler) RegisterRoutes(router fiber.Router, gate *middleware.Gate) {
	router.Get("/users", gate.Authenticate(), gate.RequireAdmin(), h.ListUsers)
	router.Delete("/users/:id", gate.Authenticate(), gate.RequireAdmin(), h.DeleteUser)
}

// ListUsers returns every account without password hashes.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to load users.")
	}
	return c.JSON(users)
}

// DeleteUser removes an account.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.authService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete user.")
	}
	return c.JSON(fiber.Map{"message": "Deleted User"})
}
