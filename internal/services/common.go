package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dubon/internal/models"
	"dubon/internal/repositories"
	"dubon/pkg/cache"
)

var (
	// ErrInvalidCredentials is returned by login for any unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when the actor may not touch the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition is returned for a status move absent from the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidInput is returned for requests that are well-formed but unusable.
	ErrInvalidInput = errors.New("invalid input")
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// EventPublisher sends a message to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// DomainEvent is the payload published on the event bus. Events addressed
// to a user become notifications.
type DomainEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	EntityID   string    `json:"entityId"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// notifier publishes domain events, or stores the notification directly
// when no broker is configured or publishing fails.
type notifier struct {
	publisher     EventPublisher
	notifications repositories.NotificationRepository
}

func (n notifier) emit(ctx context.Context, ev DomainEvent) {
	ev.OccurredAt = time.Now()
	if n.publisher != nil {
		body, err := json.Marshal(ev)
		if err == nil {
			if err = n.publisher.Publish(ctx, ev.Type, body); err == nil {
				return
			}
		}
		log.Printf("Warning: failed to publish %s for %s, storing notification directly: %v", ev.Type, ev.EntityID, err)
	}
	if n.notifications == nil || ev.UserID == "" {
		return
	}
	if err := n.notifications.Create(ctx, notificationFromEvent(ev)); err != nil {
		log.Printf("Warning: failed to store notification %s for user %s: %v", ev.Type, ev.UserID, err)
	}
}

func notificationFromEvent(ev DomainEvent) *models.Notification {
	return &models.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
	}
}

// cacheStore is a nil-safe wrapper; cache failures only cost a database hit.
type cacheStore struct {
	c   cache.Cache
	ttl time.Duration
}

func (s cacheStore) get(ctx context.Context, key string, dest interface{}) bool {
	if s.c == nil {
		return false
	}
	ok, err := s.c.Get(ctx, key, dest)
	if err != nil {
		log.Printf("Warning: cache read %s failed: %v", key, err)
		return false
	}
	return ok
}

func (s cacheStore) set(ctx context.Context, key string, value interface{}) {
	if s.c == nil {
		return
	}
	if err := s.c.Set(ctx, key, value, s.ttl); err != nil {
		log.Printf("Warning: cache write %s failed: %v", key, err)
	}
}

func (s cacheStore) del(ctx context.Context, keys ...string) {
	if s.c == nil {
		return
	}
	if err := s.c.Delete(ctx, keys...); err != nil {
		log.Printf("Warning: cache delete %v failed: %v", keys, err)
	}
}

// checkTransition validates from -> to against the table of the entity.
func checkTransition(table models.Transitions, entity, from, to string) error {
	if err := table.Check(from, to); err != nil {
		return fmt.Errorf("%s: %v: %w", entity, err, ErrInvalidTransition)
	}
	return nil
}

func recordTransition(ctx context.Context, repo repositories.StatusChangeRepository, entity, id, from, to, actorID string) error {
	if repo == nil {
		return nil
	}
	return repo.Record(ctx, &models.StatusChange{
		EntityType: entity,
		EntityID:   id,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
	})
}

// normalizeEmail is the stored form of an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
