package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// EventRepository defines data access for events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, status string) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, from, to string) error
	// ReserveSeats books seats on a published event when capacity allows.
	ReserveSeats(ctx context.Context, id string, seats int) error
	ReleaseSeats(ctx context.Context, id string, seats int) error
}

// ReservationRepository defines data access for event reservations.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
}

// GORMEventRepository is a GORM implementation of EventRepository.
type GORMEventRepository struct {
	db *gorm.DB
}

// NewGORMEventRepository creates a new GORMEventRepository.
func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{db: db}
}

func (r *GORMEventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := conn(ctx, r.db).Create(event).Error; err != nil {
		return wrap(err, "failed to create event")
	}
	return nil
}

func (r *GORMEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := conn(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get event %s", id)
	}
	return &event, nil
}

func (r *GORMEventRepository) List(ctx context.Context, status string) ([]models.Event, error) {
	var events []models.Event
	q := conn(ctx, r.db).Order("starts_at asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Update writes the descriptive fields. Status and reserved seats have
// dedicated operations.
func (r *GORMEventRepository) Update(ctx context.Context, event *models.Event) error {
	res := conn(ctx, r.db).Model(&models.Event{}).Where("id = ?", event.ID).Updates(map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
		"capacity":    event.Capacity,
		"price":       event.Price,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s not found for update: %w", event.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMEventRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&models.Event{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMEventRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if err := updateStatusGuarded(conn(ctx, r.db), &models.Event{}, id, from, to, nil); err != nil {
		return fmt.Errorf("failed to update status of event %s: %w", id, err)
	}
	return nil
}

func (r *GORMEventRepository) ReserveSeats(ctx context.Context, id string, seats int) error {
	res := conn(ctx, r.db).Model(&models.Event{}).
		Where("id = ? AND status = ? AND reserved + ? <= capacity", id, models.EventPublished, seats).
		Update("reserved", gorm.Expr("reserved + ?", seats))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve seats on event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %s: %w", id, ErrCapacityReached)
	}
	return nil
}

func (r *GORMEventRepository) ReleaseSeats(ctx context.Context, id string, seats int) error {
	res := conn(ctx, r.db).Model(&models.Event{}).
		Where("id = ? AND reserved >= ?", id, seats).
		Update("reserved", gorm.Expr("reserved - ?", seats))
	if res.Error != nil {
		return fmt.Errorf("failed to release seats on event %s: %w", id, res.Error)
	}
	return nil
}

// GORMReservationRepository is a GORM implementation of ReservationRepository.
type GORMReservationRepository struct {
	db *gorm.DB
}

// NewGORMReservationRepository creates a new GORMReservationRepository.
func NewGORMReservationRepository(db *gorm.DB) *GORMReservationRepository {
	return &GORMReservationRepository{db: db}
}

func (r *GORMReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	if err := conn(ctx, r.db).Create(res).Error; err != nil {
		return wrap(err, "failed to create reservation")
	}
	return nil
}

func (r *GORMReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := conn(ctx, r.db).First(&res, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get reservation %s", id)
	}
	return &res, nil
}

func (r *GORMReservationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	var list []models.Reservation
	err := conn(ctx, r.db).Preload("Event").Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations of user %s: %w", userID, err)
	}
	return list, nil
}

func (r *GORMReservationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Reservation, error) {
	var list []models.Reservation
	if err := conn(ctx, r.db).Where("event_id = ?", eventID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations of event %s: %w", eventID, err)
	}
	return list, nil
}

func (r *GORMReservationRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if err := updateStatusGuarded(conn(ctx, r.db), &models.Reservation{}, id, from, to, nil); err != nil {
		return fmt.Errorf("failed to update status of reservation %s: %w", id, err)
	}
	return nil
}
