package handlers

import (
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/products/:id/reviews", h.HandleList)
	router.Post("/products/:id/reviews", auth, h.HandleCreate)
	router.Delete("/reviews/:id", auth, h.HandleDelete)
}

// ReviewRequest rates a product from 1 to 5.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create review")
	}
	review := models.Review{
		ProductID: c.Params("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.service.Create(c.UserContext(), actor(c), &review); err != nil {
		return fromError(c, err, "create review")
	}
	return created(c, review)
}

// HandleList returns the reviews of a product with their average rating.
func (h *ReviewHandler) HandleList(c *fiber.Ctx) error {
	reviews, err := h.service.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "list reviews")
	}
	return ok(c, reviews)
}

func (h *ReviewHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fromError(c, err, "delete review")
	}
	return message(c, "Review deleted")
}
