package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/", auth, h.HandleCreate)
	paymentRoutes.Get("/me", auth, h.HandleListMine)
	paymentRoutes.Get("/", auth, admin, h.HandleList)
	paymentRoutes.Patch("/:id/status", auth, admin, h.HandleUpdateStatus)
}

// PaymentRequest opens a payment for an order.
type PaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Method  string `json:"method" validate:"required,oneof=card mobile_money cash"`
}

func (h *PaymentHandler) HandleCreate(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create payment")
	}
	payment, err := h.service.Create(c.UserContext(), actor(c), req.OrderID, req.Method)
	if err != nil {
		return fromError(c, err, "create payment")
	}
	return created(c, payment)
}

func (h *PaymentHandler) HandleListMine(c *fiber.Ctx) error {
	payments, err := h.service.ListMine(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "list payments")
	}
	return ok(c, payments)
}

func (h *PaymentHandler) HandleList(c *fiber.Ctx) error {
	payments, err := h.service.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return fromError(c, err, "list payments")
	}
	return ok(c, payments)
}

func (h *PaymentHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update payment status")
	}
	payment, err := h.service.UpdateStatus(c.UserContext(), actor(c), c.Params("id"), req.Status)
	if err != nil {
		return fromError(c, err, "update payment status")
	}
	return ok(c, payment)
}
