package handlers

import (
	"dubon/internal/middleware"
	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DeliveryHandler handles HTTP requests for delivery persons. Every route
// is reserved to admins.
type DeliveryHandler struct {
	service  *services.DeliveryService
	validate *validator.Validate
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(service *services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the delivery routes with the Fiber app.
func (h *DeliveryHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRoles(models.RoleAdmin)

	deliveryRoutes := router.Group("/delivery")
	deliveryRoutes.Post("/", auth, admin, h.HandleCreate)
	deliveryRoutes.Get("/get-all", auth, admin, h.HandleGetAll)
	deliveryRoutes.Get("/:id", auth, admin, h.HandleGet)
	deliveryRoutes.Put("/:id", auth, admin, h.HandleUpdate)
	deliveryRoutes.Delete("/:id", auth, admin, h.HandleDelete)
	deliveryRoutes.Post("/:id/block", auth, admin, h.HandleBlock)
	deliveryRoutes.Post("/:id/unblock", auth, admin, h.HandleUnblock)
}

// DeliveryPersonRequest is the body of delivery person create and update calls.
type DeliveryPersonRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=30"`
	VehicleType string `json:"vehicleType" validate:"omitempty,max=30"`
	Zone        string `json:"zone" validate:"omitempty,max=100"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (h *DeliveryHandler) HandleCreate(c *fiber.Ctx) error {
	var req DeliveryPersonRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create delivery person")
	}
	person := models.DeliveryPerson{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Zone:        req.Zone,
	}
	if err := h.service.Create(c.UserContext(), &person); err != nil {
		return fromError(c, err, "create delivery person")
	}
	return created(c, person)
}

func (h *DeliveryHandler) HandleGetAll(c *fiber.Ctx) error {
	people, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return fromError(c, err, "list delivery persons")
	}
	return ok(c, people)
}

func (h *DeliveryHandler) HandleGet(c *fiber.Ctx) error {
	person, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "get delivery person")
	}
	return ok(c, person)
}

// HandleUpdate replaces the details of a courier. Availability is kept
// when the body leaves it out.
func (h *DeliveryHandler) HandleUpdate(c *fiber.Ctx) error {
	var req DeliveryPersonRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update delivery person")
	}
	id := c.Params("id")
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	} else {
		current, err := h.service.Get(c.UserContext(), id)
		if err != nil {
			return fromError(c, err, "update delivery person")
		}
		available = current.IsAvailable
	}
	person, err := h.service.Update(c.UserContext(), &models.DeliveryPerson{
		Base:        models.Base{ID: id},
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Zone:        req.Zone,
		IsAvailable: available,
	})
	if err != nil {
		return fromError(c, err, "update delivery person")
	}
	return ok(c, person)
}

func (h *DeliveryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fromError(c, err, "delete delivery person")
	}
	return message(c, "Delivery person deleted")
}

func (h *DeliveryHandler) HandleBlock(c *fiber.Ctx) error {
	person, err := h.service.Block(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "block delivery person")
	}
	return ok(c, person)
}

func (h *DeliveryHandler) HandleUnblock(c *fiber.Ctx) error {
	person, err := h.service.Unblock(c.UserContext(), c.Params("id"))
	if err != nil {
		return fromError(c, err, "unblock delivery person")
	}
	return ok(c, person)
}
