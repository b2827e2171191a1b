package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	List(ctx context.Context, status string) ([]models.Payment, error)
	// HasActive reports whether the order already has a payment that did not fail.
	HasActive(ctx context.Context, orderID string) (bool, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := conn(ctx, r.db).Create(payment).Error; err != nil {
		return wrap(err, "failed to create payment")
	}
	return nil
}

func (r *GORMPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := conn(ctx, r.db).First(&payment, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get payment %s", id)
	}
	return &payment, nil
}

func (r *GORMPaymentRepository) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at desc").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments of user %s: %w", userID, err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).Order("created_at asc").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments of order %s: %w", orderID, err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) List(ctx context.Context, status string) ([]models.Payment, error) {
	var payments []models.Payment
	q := conn(ctx, r.db).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) HasActive(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Payment{}).
		Where("order_id = ? AND status <> ?", orderID, models.PaymentFailed).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count payments of order %s: %w", orderID, err)
	}
	return count > 0, nil
}

func (r *GORMPaymentRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if err := updateStatusGuarded(conn(ctx, r.db), &models.Payment{}, id, from, to, nil); err != nil {
		return fmt.Errorf("failed to update status of payment %s: %w", id, err)
	}
	return nil
}
