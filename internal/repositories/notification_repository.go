package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines data access for user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// StatusChangeRepository stores the audit trail of status transitions.
type StatusChangeRepository interface {
	Record(ctx context.Context, change *models.StatusChange) error
	ListFor(ctx context.Context, entityType, entityID string) ([]models.StatusChange, error)
}

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

func (r *GORMNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := conn(ctx, r.db).Create(n).Error; err != nil {
		return wrap(err, "failed to create notification")
	}
	return nil
}

func (r *GORMNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	var list []models.Notification
	q := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at desc")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications of user %s: %w", userID, err)
	}
	return list, nil
}

func (r *GORMNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	var n models.Notification
	if err := conn(ctx, r.db).First(&n, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return wrap(err, "failed to get notification %s", id)
	}
	if err := conn(ctx, r.db).Model(&n).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

func (r *GORMNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications of user %s read: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// GORMStatusChangeRepository is a GORM implementation of StatusChangeRepository.
type GORMStatusChangeRepository struct {
	db *gorm.DB
}

// NewGORMStatusChangeRepository creates a new GORMStatusChangeRepository.
func NewGORMStatusChangeRepository(db *gorm.DB) *GORMStatusChangeRepository {
	return &GORMStatusChangeRepository{db: db}
}

func (r *GORMStatusChangeRepository) Record(ctx context.Context, change *models.StatusChange) error {
	if err := conn(ctx, r.db).Create(change).Error; err != nil {
		return wrap(err, "failed to record status change")
	}
	return nil
}

func (r *GORMStatusChangeRepository) ListFor(ctx context.Context, entityType, entityID string) ([]models.StatusChange, error) {
	var list []models.StatusChange
	err := conn(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes of %s %s: %w", entityType, entityID, err)
	}
	return list, nil
}
