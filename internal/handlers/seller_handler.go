package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SellerHandler handles HTTP requests for seller requests and seller
// profiles.
type SellerHandler struct {
	requests *services.SellerRequestService
	sellers  *services.SellerService
	validate *validator.Validate
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(requests *services.SellerRequestService, sellers *services.SellerService) *SellerHandler {
	return &SellerHandler{requests: requests, sellers: sellers, validate: validation.New()}
}

// RegisterRoutes registers the seller routes with the Fiber app.
func (h *SellerHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	seller := middleware.RequireRoles(models.RoleSeller)

	requestRoutes := router.Group("/seller-requests")
	requestRoutes.Post("/", auth, h.HandleSubmit)
	requestRoutes.Get("/me", auth, h.HandleMyRequest)
	requestRoutes.Get("/", auth, admin, h.HandleListRequests)
	requestRoutes.Get("/:id", auth, admin, h.HandleGetRequest)
	requestRoutes.Put("/:id/approve", auth, admin, h.HandleApprove)
	requestRoutes.Put("/:id/reject", auth, admin, h.HandleReject)

	sellerRoutes := router.Group("/sellers")
	sellerRoutes.Get("/me", auth, seller, h.HandleMyProfile)
	sellerRoutes.Put("/me", auth, seller, h.HandleUpdateMyProfile)
	sellerRoutes.Get("/", auth, admin, h.HandleListSellers)
	sellerRoutes.Get("/:id", h.HandleGetSeller)
	sellerRoutes.Patch("/:id/active", auth, admin, h.HandleSetActive)
}

// SellerRequestBody is the application form of a future seller.
type SellerRequestBody struct {
	BusinessName string `json:"businessName" validate:"required,max=150"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,max=30"`
	Address      string `json:"address" validate:"required"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
}

// HandleSubmit files a seller request for the caller.
func (h *SellerHandler) HandleSubmit(c *fiber.Ctx) error {
	var body SellerRequestBody
	if err := bind(c, h.validate, &body); err != nil {
		return fromError(c, err, "submit seller request")
	}

	req := models.SellerRequest{
		BusinessName: body.BusinessName,
		Email:        body.Email,
		Phone:        body.Phone,
		Address:      body.Address,
		Description:  body.Description,
	}
	if err := h.requests.Submit(c.UserContext(), actor(c).UserID, &req); err != nil {
		return fromError(c, err, "submit seller request")
	}
	return created(c, req)
}

// HandleMyRequest returns the latest request of the caller.
func (h *SellerHandler) HandleMyRequest(c *fiber.Ctx) error {
	req, err := h.requests.Mine(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "get seller request")
	}
	return ok(c, req)
}

func (h *SellerHandler) HandleListRequests(c *fiber.Ctx) error {
	reqs, err := h.requests.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return fromError(c, err, "list seller requests")
	}
	return ok(c, reqs)
}

func (h *SellerHandler) HandleGetRequest(c *fiber.Ctx) error {
	req, err := h.requests.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "get seller request")
	}
	return ok(c, req)
}

// HandleApprove approves a pending request and returns the new seller profile.
func (h *SellerHandler) HandleApprove(c *fiber.Ctx) error {
	profile, err := h.requests.Approve(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "approve seller request")
	}
	return ok(c, profile)
}

// RejectRequest carries the reason given to the applicant.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (h *SellerHandler) HandleReject(c *fiber.Ctx) error {
	var body RejectRequest
	if err := bind(c, h.validate, &body); err != nil {
		return fromError(c, err, "reject seller request")
	}
	req, err := h.requests.Reject(c.UserContext(), actor(c), c.Params("id"), body.Reason)
	if err != nil {
		return fromError(c, err, "reject seller request")
	}
	return ok(c, req)
}

func (h *SellerHandler) HandleMyProfile(c *fiber.Ctx) error {
	profile, err := h.sellers.Mine(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "get seller profile")
	}
	return ok(c, profile)
}

// SellerProfileBody holds the editable fields of a seller profile.
type SellerProfileBody struct {
	BusinessName string `json:"businessName" validate:"required,max=150"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,max=30"`
	Address      string `json:"address" validate:"required"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
}

func (h *SellerHandler) HandleUpdateMyProfile(c *fiber.Ctx) error {
	var body SellerProfileBody
	if err := bind(c, h.validate, &body); err != nil {
		return fromError(c, err, "update seller profile")
	}
	profile, err := h.sellers.UpdateMine(c.UserContext(), actor(c).UserID, models.SellerProfile{
		BusinessName: body.BusinessName,
		Email:        body.Email,
		Phone:        body.Phone,
		Address:      body.Address,
		Description:  body.Description,
	})
	if err != nil {
		return fromError(c, err, "update seller profile")
	}
	return ok(c, profile)
}

func (h *SellerHandler) HandleListSellers(c *fiber.Ctx) error {
	sellers, err := h.sellers.List(c.UserContext())
	if err != nil {
		return fromError(c, err, "list sellers")
	}
	return ok(c, sellers)
}

func (h *SellerHandler) HandleGetSeller(c *fiber.Ctx) error {
	profile, err := h.sellers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "get seller")
	}
	return ok(c, profile)
}

// SetActiveRequest toggles a seller profile. A pointer tells a missing
// field apart from false.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *SellerHandler) HandleSetActive(c *fiber.Ctx) error {
	var body SetActiveRequest
	if err := bind(c, h.validate, &body); err != nil {
		return fromError(c, err, "update seller")
	}
	profile, err := h.sellers.SetActive(c.UserContext(), c.Params("id"), *body.IsActive)
	if err != nil {
		return fromError(c, err, "update seller")
	}
	return ok(c, profile)
}
