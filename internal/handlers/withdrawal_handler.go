package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles HTTP requests for seller withdrawals.
type WithdrawalHandler struct {
	service  *services.WithdrawalService
	validate *validator.Validate
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(service *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the withdrawal routes with the Fiber app.
func (h *WithdrawalHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	seller := middleware.RequireRoles(models.RoleSeller)

	withdrawalRoutes := router.Group("/withdrawals")
	withdrawalRoutes.Post("/", auth, seller, h.HandleRequest)
	withdrawalRoutes.Get("/me", auth, seller, h.HandleListMine)
	withdrawalRoutes.Get("/", auth, admin, h.HandleList)
	withdrawalRoutes.Patch("/:id/status", auth, admin, h.HandleUpdateStatus)
}

// WithdrawalRequest asks to cash out part of the seller balance.
type WithdrawalRequest struct {
	Amount  float64 `json:"amount" validate:"gt=0"`
	Method  string  `json:"method" validate:"required,max=30"`
	Account string  `json:"account" validate:"required,max=100"`
}

func (h *WithdrawalHandler) HandleRequest(c *fiber.Ctx) error {
	var req WithdrawalRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "request withdrawal")
	}
	w, err := h.service.Request(c.UserContext(), actor(c).UserID, &models.Withdrawal{
		Amount:  req.Amount,
		Method:  req.Method,
		Account: req.Account,
	})
	if err != nil {
		return fromError(c, err, "request withdrawal")
	}
	return created(c, w)
}

func (h *WithdrawalHandler) HandleListMine(c *fiber.Ctx) error {
	withdrawals, err := h.service.ListMine(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "list withdrawals")
	}
	return ok(c, withdrawals)
}

func (h *WithdrawalHandler) HandleList(c *fiber.Ctx) error {
	withdrawals, err := h.service.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return fromError(c, err, "list withdrawals")
	}
	return ok(c, withdrawals)
}

// WithdrawalStatusRequest moves a withdrawal, with an optional note for the seller.
type WithdrawalStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}

func (h *WithdrawalHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req WithdrawalStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update withdrawal status")
	}
	w, err := h.service.UpdateStatus(c.UserContext(), actor(c), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return fromError(c, err, "update withdrawal status")
	}
	return ok(c, w)
}
