package repositories

import (
	"context"
	"fmt"
	"time"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// WithdrawalRepository defines data access for seller withdrawals.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) error
	GetByID(ctx context.Context, id string) (*models.Withdrawal, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Withdrawal, error)
	List(ctx context.Context, status string) ([]models.Withdrawal, error)
	UpdateStatus(ctx context.Context, id, from, to, note string) error
}

// GORMWithdrawalRepository is a GORM implementation of WithdrawalRepository.
type GORMWithdrawalRepository struct {
	db *gorm.DB
}

// NewGORMWithdrawalRepository creates a new GORMWithdrawalRepository.
func NewGORMWithdrawalRepository(db *gorm.DB) *GORMWithdrawalRepository {
	return &GORMWithdrawalRepository{db: db}
}

func (r *GORMWithdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	if err := conn(ctx, r.db).Create(w).Error; err != nil {
		return wrap(err, "failed to create withdrawal")
	}
	return nil
}

func (r *GORMWithdrawalRepository) GetByID(ctx context.Context, id string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := conn(ctx, r.db).First(&w, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get withdrawal %s", id)
	}
	return &w, nil
}

func (r *GORMWithdrawalRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	if err := conn(ctx, r.db).Where("seller_id = ?", sellerID).Order("created_at desc").Find(&ws).Error; err != nil {
		return nil, fmt.Errorf("failed to list withdrawals of seller %s: %w", sellerID, err)
	}
	return ws, nil
}

func (r *GORMWithdrawalRepository) List(ctx context.Context, status string) ([]models.Withdrawal, error) {
	var ws []models.Withdrawal
	q := conn(ctx, r.db).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&ws).Error; err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return ws, nil
}

func (r *GORMWithdrawalRepository) UpdateStatus(ctx context.Context, id, from, to, note string) error {
	err := updateStatusGuarded(conn(ctx, r.db), &models.Withdrawal{}, id, from, to, map[string]interface{}{
		"note":         note,
		"processed_at": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to update status of withdrawal %s: %w", id, err)
	}
	return nil
}
