package handlers

import (
	"fmt"

	"dubon/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the notifications of the caller.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", auth, h.HandleList)
	notificationRoutes.Patch("/read-all", auth, h.HandleMarkAllRead)
	notificationRoutes.Patch("/:id/read", auth, h.HandleMarkRead)
}

// HandleList lists notifications, only unread ones with ?unread=true.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	notifications, err := h.service.List(c.UserContext(), actor(c).UserID, c.QueryBool("unread"))
	if err != nil {
		return fromError(c, err, "list notifications")
	}
	return ok(c, notifications)
}

func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), actor(c).UserID, c.Params("id")); err != nil {
		return fromError(c, err, "mark notification read")
	}
	return message(c, "Notification marked as read")
}

func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	n, err := h.service.MarkAllRead(c.UserContext(), actor(c).UserID)
	if err != nil {
		return fromError(c, err, "mark notifications read")
	}
	return message(c, fmt.Sprintf("%d notification(s) marked as read", n))
}
