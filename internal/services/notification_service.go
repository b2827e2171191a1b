package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// NotificationService serves the notifications of a user and turns domain
// events consumed from the bus into notifications.
type NotificationService struct {
	repo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

// HandleMessage stores the notification carried by a domain event. Events
// without a recipient are acknowledged and dropped.
func (s *NotificationService) HandleMessage(ctx context.Context, body []byte) error {
	var ev DomainEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("failed to decode event: %w", err)
	}
	if ev.UserID == "" {
		log.Printf("Event %s for %s has no recipient, skipping", ev.Type, ev.EntityID)
		return nil
	}
	return s.repo.Create(ctx, notificationFromEvent(ev))
}
