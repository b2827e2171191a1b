package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validation.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	seller := middleware.RequireRoles(models.RoleSeller)

	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", auth, h.HandleCheckout)
	orderRoutes.Get("/me", auth, h.HandleGetMyOrders)
	orderRoutes.Get("/seller", auth, seller, h.HandleGetSellerOrders)
	orderRoutes.Get("/", auth, admin, h.HandleGetOrders)
	orderRoutes.Get("/:id", auth, h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", auth, admin, h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", auth, h.HandleCancelOrder)
	orderRoutes.Put("/:id/assign", auth, admin, h.HandleAssignDeliveryPerson)
}

// CheckoutRequest is the body of a checkout.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
}

// HandleCheckout turns the cart of the caller into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create order")
	}
	order, err := h.service.Checkout(c.UserContext(), actor(c).UserID, req.ShippingAddress)
	if err != nil {
		return fromError(c, err, "create order")
	}
	return created(c, order)
}

// HandleGetOrders retrieves all orders, optionally filtered by status.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext(), c.Query("status"))
	if err != nil {
		return fromError(c, err, "retrieve orders")
	}
	return ok(c, orders)
}

func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "retrieve orders")
	}
	return ok(c, orders)
}

// HandleGetSellerOrders lists the orders that contain products of the caller.
func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetSellerOrders(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "retrieve seller orders")
	}
	return ok(c, orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "retrieve order")
	}
	return ok(c, order)
}

// StatusRequest carries a target status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update order status")
	}
	order, err := h.service.UpdateOrderStatus(c.UserContext(), actor(c), c.Params("id"), req.Status)
	if err != nil {
		return fromError(c, err, "update order status")
	}
	return ok(c, order)
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelOrder(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "cancel order")
	}
	return ok(c, order)
}

// AssignRequest names the courier of an order.
type AssignRequest struct {
	DeliveryPersonID string `json:"deliveryPersonId" validate:"required"`
}

func (h *OrderHandler) HandleAssignDeliveryPerson(c *fiber.Ctx) error {
	var req AssignRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "assign delivery person")
	}
	order, err := h.service.AssignDeliveryPerson(c.UserContext(), c.Params("id"), req.DeliveryPersonID)
	if err != nil {
		return fromError(c, err, "assign delivery person")
	}
	return ok(c, order)
}
