package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	seller := middleware.RequireRoles(models.RoleSeller)
	sellerOrAdmin := middleware.RequireRoles(models.RoleSeller, models.RoleAdmin)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, seller, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, seller, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, sellerOrAdmin, h.HandleDeleteProduct)
}

// ProductRequest is the body of product create and update calls.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func (r ProductRequest) model() models.Product {
	return models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

// HandleGetProducts lists products, optionally those of one seller.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext(), c.Query("sellerId"))
	if err != nil {
		return fromError(c, err, "retrieve products")
	}
	return ok(c, products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "retrieve product")
	}
	return ok(c, product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create product")
	}
	product := req.model()
	if err := h.service.CreateProduct(c.UserContext(), actor(c), &product); err != nil {
		return fromError(c, err, "create product")
	}
	return created(c, product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update product")
	}
	product := req.model()
	product.ID = c.Params("id")
	updated, err := h.service.UpdateProduct(c.UserContext(), actor(c), &product)
	if err != nil {
		return fromError(c, err, "update product")
	}
	return ok(c, updated)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fromError(c, err, "delete product")
	}
	return message(c, "Product deleted")
}
