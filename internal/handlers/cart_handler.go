package handlers

import (
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart of the caller.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the cart routes with the Fiber app. Every route
// requires authentication.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", auth, h.HandleGetCart)
	cartRoutes.Delete("/", auth, h.HandleClearCart)
	cartRoutes.Post("/items", auth, h.HandleAddItem)
	cartRoutes.Put("/items/:productId", auth, h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", auth, h.HandleRemoveItem)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.Get(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "retrieve cart")
	}
	return ok(c, cart)
}

// AddItemRequest adds quantity units of a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// HandleAddItem adds a product. Adding a product already in the cart
// increases its quantity.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "add cart item")
	}
	cart, err := h.service.AddItem(c.UserContext(), actor(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		return fromError(c, err, "add cart item")
	}
	return ok(c, cart)
}

// UpdateItemRequest sets the quantity of a cart line; 0 removes it.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update cart item")
	}
	cart, err := h.service.UpdateItem(c.UserContext(), actor(c).UserID, c.Params("productId"), req.Quantity)
	if err != nil {
		return fromError(c, err, "update cart item")
	}
	return ok(c, cart)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.UserContext(), actor(c).UserID, c.Params("productId"))
	if err != nil {
		return fromError(c, err, "remove cart item")
	}
	return ok(c, cart)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), actor(c).UserID); err != nil {
		return fromError(c, err, "clear cart")
	}
	return message(c, "Cart cleared")
}
