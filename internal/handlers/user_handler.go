package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	userRoutes := router.Group("/users")
	userRoutes.Put("/me", auth, h.HandleUpdateMe)
	userRoutes.Get("/", auth, admin, h.HandleList)
	userRoutes.Get("/:id", auth, admin, h.HandleGet)
	userRoutes.Put("/:id/role", auth, admin, h.HandleUpdateRole)
	userRoutes.Delete("/:id", auth, admin, h.HandleDelete)
}

func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext(), c.Query("role"))
	if err != nil {
		return fromError(c, err, "list users")
	}
	return ok(c, users)
}

func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "get user")
	}
	return ok(c, user)
}

// UpdateProfileRequest is the editable part of an account.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update profile")
	}
	user, err := h.service.UpdateProfile(c.UserContext(), actor(c).UserID, req.Name, req.Phone)
	if err != nil {
		return fromError(c, err, "update profile")
	}
	return ok(c, user)
}

// UpdateRoleRequest carries the new role of a user.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin delivery"`
}

func (h *UserHandler) HandleUpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update role")
	}
	user, err := h.service.UpdateRole(c.UserContext(), c.Params("id"), req.Role)
	if err != nil {
		return fromError(c, err, "update role")
	}
	return ok(c, user)
}

func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fromError(c, err, "delete user")
	}
	return message(c, "User deleted")
}
