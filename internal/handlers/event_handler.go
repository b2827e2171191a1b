package handlers

import (
	"time"

	"dubon/internal/models"
	"dubon/internal/services"
	"dubon/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EventHandler handles HTTP requests for events and reservations.
type EventHandler struct {
	service  *services.EventService
	validate *validator.Validate
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the event and reservation routes. Listing and
// reading events accept anonymous callers, identified through optional.
func (h *EventHandler) RegisterRoutes(router fiber.Router, auth, optional fiber.Handler) {
	eventRoutes := router.Group("/events")
	eventRoutes.Get("/", optional, h.HandleList)
	eventRoutes.Get("/:id", optional, h.HandleGet)
	eventRoutes.Post("/", auth, h.HandleCreate)
	eventRoutes.Put("/:id", auth, h.HandleUpdate)
	eventRoutes.Delete("/:id", auth, h.HandleDelete)
	eventRoutes.Patch("/:id/status", auth, h.HandleUpdateStatus)
	eventRoutes.Post("/:id/reservations", auth, h.HandleReserve)
	eventRoutes.Get("/:id/reservations", auth, h.HandleListEventReservations)

	reservationRoutes := router.Group("/reservations")
	reservationRoutes.Get("/me", auth, h.HandleListMyReservations)
	reservationRoutes.Post("/:id/cancel", auth, h.HandleCancelReservation)
}

// EventRequest is the body of event create and update calls.
type EventRequest struct {
	Title       string    `json:"title" validate:"required,max=150"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	Location    string    `json:"location" validate:"required,max=255"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
	Capacity    int       `json:"capacity" validate:"gte=1"`
	Price       float64   `json:"price" validate:"gte=0"`
}

func (r EventRequest) model() models.Event {
	return models.Event{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Capacity:    r.Capacity,
		Price:       r.Price,
	}
}

// HandleList lists published events. Admins may filter on any status.
func (h *EventHandler) HandleList(c *fiber.Ctx) error {
	events, err := h.service.List(c.UserContext(), actor(c), c.Query("status"))
	if err != nil {
		return fromError(c, err, "list events")
	}
	return ok(c, events)
}

func (h *EventHandler) HandleGet(c *fiber.Ctx) error {
	event, err := h.service.Get(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "get event")
	}
	return ok(c, event)
}

func (h *EventHandler) HandleCreate(c *fiber.Ctx) error {
	var req EventRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "create event")
	}
	event := req.model()
	if err := h.service.Create(c.UserContext(), actor(c), &event); err != nil {
		return fromError(c, err, "create event")
	}
	return created(c, event)
}

func (h *EventHandler) HandleUpdate(c *fiber.Ctx) error {
	var req EventRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update event")
	}
	event := req.model()
	event.ID = c.Params("id")
	updated, err := h.service.Update(c.UserContext(), actor(c), &event)
	if err != nil {
		return fromError(c, err, "update event")
	}
	return ok(c, updated)
}

func (h *EventHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fromError(c, err, "delete event")
	}
	return message(c, "Event deleted")
}

func (h *EventHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "update event status")
	}
	event, err := h.service.UpdateStatus(c.UserContext(), actor(c), c.Params("id"), req.Status)
	if err != nil {
		return fromError(c, err, "update event status")
	}
	return ok(c, event)
}

// ReserveRequest books seats on an event.
type ReserveRequest struct {
	Seats int `json:"seats" validate:"gte=1"`
}

func (h *EventHandler) HandleReserve(c *fiber.Ctx) error {
	var req ReserveRequest
	if err := bind(c, h.validate, &req); err != nil {
		return fromError(c, err, "reserve seats")
	}
	res, err := h.service.Reserve(c.UserContext(), actor(c), c.Params("id"), req.Seats)
	if err != nil {
		return fromError(c, err, "reserve seats")
	}
	return created(c, res)
}

func (h *EventHandler) HandleListEventReservations(c *fiber.Ctx) error {
	reservations, err := h.service.ListEventReservations(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "list reservations")
	}
	return ok(c, reservations)
}

func (h *EventHandler) HandleListMyReservations(c *fiber.Ctx) error {
	reservations, err := h.service.ListMyReservations(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "list reservations")
	}
	return ok(c, reservations)
}

func (h *EventHandler) HandleCancelReservation(c *fiber.Ctx) error {
	res, err := h.service.CancelReservation(c.UserContext(), actor(c), c.Params("id"))
	if err != nil {
		return fromError(c, err, "cancel reservation")
	}
	return ok(c, res)
}
