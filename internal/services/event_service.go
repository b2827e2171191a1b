package services

import (
	"context"
	"fmt"
	"time"

	"dubon/internal/models"
	"dubon/internal/repositories"
	"dubon/pkg/cache"
)

const (
	entityEvent       = "event"
	entityReservation = "reservation"

	publishedEventsKey = "events:published"
)

// EventService handles events and the seat reservations made on them.
type EventService struct {
	tx           repositories.Transactor
	events       repositories.EventRepository
	reservations repositories.ReservationRepository
	statusLog    repositories.StatusChangeRepository
	notify       notifier
	cache        cacheStore
}

// EventDeps groups the collaborators of EventService.
type EventDeps struct {
	Tx            repositories.Transactor
	Events        repositories.EventRepository
	Reservations  repositories.ReservationRepository
	StatusLog     repositories.StatusChangeRepository
	Notifications repositories.NotificationRepository
	Publisher     EventPublisher
	Cache         cache.Cache
	CacheTTL      time.Duration
}

// NewEventService creates a new EventService.
func NewEventService(d EventDeps) *EventService {
	return &EventService{
		tx:           d.Tx,
		events:       d.Events,
		reservations: d.Reservations,
		statusLog:    d.StatusLog,
		notify:       notifier{publisher: d.Publisher, notifications: d.Notifications},
		cache:        cacheStore{c: d.Cache, ttl: d.CacheTTL},
	}
}

// List returns events in the given status. Anyone but an admin only sees
// published events.
func (s *EventService) List(ctx context.Context, actor Actor, status string) ([]models.Event, error) {
	if !actor.IsAdmin() {
		status = models.EventPublished
	}
	if status != "" && !models.EventTransitions.Known(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	if status == models.EventPublished {
		return s.ListPublished(ctx)
	}
	return s.events.List(ctx, status)
}

// ListPublished returns the published events, served from the cache when
// one is configured.
func (s *EventService) ListPublished(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if s.cache.get(ctx, publishedEventsKey, &events) {
		return events, nil
	}
	events, err := s.events.List(ctx, models.EventPublished)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, publishedEventsKey, events)
	return events, nil
}

// Get returns an event. Unpublished events are only visible to their
// organizer and admins.
func (s *EventService) Get(ctx context.Context, actor Actor, id string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventDraft && event.OrganizerID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("event %s: %w", id, repositories.ErrNotFound)
	}
	return event, nil
}

func validateSchedule(event *models.Event) error {
	if !event.EndsAt.IsZero() && event.EndsAt.Before(event.StartsAt) {
		return fmt.Errorf("event ends before it starts: %w", ErrInvalidInput)
	}
	if event.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive: %w", ErrInvalidInput)
	}
	if event.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", ErrInvalidInput)
	}
	return nil
}

// Create stores a new draft event organized by the actor.
func (s *EventService) Create(ctx context.Context, actor Actor, event *models.Event) error {
	if err := validateSchedule(event); err != nil {
		return err
	}
	event.ID = ""
	event.OrganizerID = actor.UserID
	event.Status = models.EventDraft
	event.Reserved = 0
	return s.events.Create(ctx, event)
}

func (s *EventService) owned(ctx context.Context, actor Actor, id string) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("event %s: %w", id, ErrForbidden)
	}
	return event, nil
}

// Update changes the details of an event. Capacity may not drop below the
// seats already reserved.
func (s *EventService) Update(ctx context.Context, actor Actor, patch *models.Event) (*models.Event, error) {
	var event *models.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.owned(ctx, actor, patch.ID)
		if err != nil {
			return err
		}
		if event.Status == models.EventCancelled || event.Status == models.EventCompleted {
			return fmt.Errorf("event %s is %s: %w", event.ID, event.Status, ErrInvalidTransition)
		}
		if patch.Capacity < event.Reserved {
			return fmt.Errorf("capacity %d below %d reserved seats: %w", patch.Capacity, event.Reserved, ErrInvalidInput)
		}

		event.Title = patch.Title
		event.Description = patch.Description
		event.Location = patch.Location
		event.StartsAt = patch.StartsAt
		event.EndsAt = patch.EndsAt
		event.Capacity = patch.Capacity
		event.Price = patch.Price
		if err := validateSchedule(event); err != nil {
			return err
		}
		return s.events.Update(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	s.cache.del(ctx, publishedEventsKey)
	return event, nil
}

// Delete removes an event that never took a reservation.
func (s *EventService) Delete(ctx context.Context, actor Actor, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, actor, id); err != nil {
			return err
		}
		reservations, err := s.reservations.ListByEvent(ctx, id)
		if err != nil {
			return err
		}
		if len(reservations) > 0 {
			return fmt.Errorf("event %s has reservations: %w", id, repositories.ErrConflict)
		}
		return s.events.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.cache.del(ctx, publishedEventsKey)
	return nil
}

// UpdateStatus moves an event along its lifecycle. Cancelling an event
// cancels its reservations and frees their seats.
func (s *EventService) UpdateStatus(ctx context.Context, actor Actor, id, status string) (*models.Event, error) {
	var cancelled []models.Reservation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.owned(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := checkTransition(models.EventTransitions, entityEvent, event.Status, status); err != nil {
			return err
		}
		if err := s.events.UpdateStatus(ctx, id, event.Status, status); err != nil {
			return err
		}
		if err := recordTransition(ctx, s.statusLog, entityEvent, id, event.Status, status, actor.UserID); err != nil {
			return err
		}
		if status != models.EventCancelled {
			return nil
		}

		reservations, err := s.reservations.ListByEvent(ctx, id)
		if err != nil {
			return err
		}
		for _, res := range reservations {
			if res.Status != models.ReservationConfirmed {
				continue
			}
			if err := s.cancelReservation(ctx, actor, &res); err != nil {
				return err
			}
			cancelled = append(cancelled, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.del(ctx, publishedEventsKey)

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, res := range cancelled {
		s.notify.emit(ctx, DomainEvent{
			Type:     "reservation.cancelled",
			UserID:   res.UserID,
			EntityID: res.ID,
			Title:    "Réservation annulée",
			Message:  fmt.Sprintf("L'événement %s a été annulé, votre réservation de %d place(s) est annulée.", event.Title, res.Seats),
		})
	}
	return event, nil
}

// Reserve books seats on a published event for the actor.
func (s *EventService) Reserve(ctx context.Context, actor Actor, eventID string, seats int) (*models.Reservation, error) {
	if seats <= 0 {
		return nil, fmt.Errorf("seats must be positive: %w", ErrInvalidInput)
	}
	var res *models.Reservation
	var event *models.Event
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status != models.EventPublished {
			return fmt.Errorf("event %s is %s: %w", eventID, event.Status, ErrInvalidTransition)
		}
		if err := s.events.ReserveSeats(ctx, eventID, seats); err != nil {
			return err
		}
		res = &models.Reservation{
			EventID: eventID,
			UserID:  actor.UserID,
			Seats:   seats,
			Total:   float64(seats) * event.Price,
			Status:  models.ReservationConfirmed,
		}
		return s.reservations.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	s.cache.del(ctx, publishedEventsKey)

	s.notify.emit(ctx, DomainEvent{
		Type:     "reservation.confirmed",
		UserID:   actor.UserID,
		EntityID: res.ID,
		Title:    "Réservation confirmée",
		Message:  fmt.Sprintf("%d place(s) réservée(s) pour %s.", seats, event.Title),
	})
	return res, nil
}

// CancelReservation cancels a confirmed reservation of the actor and frees
// its seats.
func (s *EventService) CancelReservation(ctx context.Context, actor Actor, id string) (*models.Reservation, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		res, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if res.UserID != actor.UserID && !actor.IsAdmin() {
			return fmt.Errorf("reservation %s: %w", id, ErrForbidden)
		}
		return s.cancelReservation(ctx, actor, res)
	})
	if err != nil {
		return nil, err
	}
	s.cache.del(ctx, publishedEventsKey)
	return s.reservations.GetByID(ctx, id)
}

func (s *EventService) cancelReservation(ctx context.Context, actor Actor, res *models.Reservation) error {
	if err := checkTransition(models.ReservationTransitions, entityReservation, res.Status, models.ReservationCancelled); err != nil {
		return err
	}
	if err := s.reservations.UpdateStatus(ctx, res.ID, res.Status, models.ReservationCancelled); err != nil {
		return err
	}
	if err := s.events.ReleaseSeats(ctx, res.EventID, res.Seats); err != nil {
		return err
	}
	return recordTransition(ctx, s.statusLog, entityReservation, res.ID, res.Status, models.ReservationCancelled, actor.UserID)
}

func (s *EventService) ListMyReservations(ctx context.Context, userID string) ([]models.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// ListEventReservations returns the reservations of an event to its
// organizer or an admin.
func (s *EventService) ListEventReservations(ctx context.Context, actor Actor, eventID string) ([]models.Reservation, error) {
	if _, err := s.owned(ctx, actor, eventID); err != nil {
		return nil, err
	}
	return s.reservations.ListByEvent(ctx, eventID)
}
