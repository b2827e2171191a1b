package repositories

import (
	"context"
	"fmt"
	"time"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// SellerRequestRepository defines data access for seller applications.
type SellerRequestRepository interface {
	Create(ctx context.Context, req *models.SellerRequest) error
	GetByID(ctx context.Context, id string) (*models.SellerRequest, error)
	LatestByUser(ctx context.Context, userID string) (*models.SellerRequest, error)
	HasPending(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, status string) ([]models.SellerRequest, error)
	Review(ctx context.Context, id, from, to, reviewerID, reason string) error
}

// SellerRepository defines data access for seller profiles.
type SellerRepository interface {
	Create(ctx context.Context, profile *models.SellerProfile) error
	GetByID(ctx context.Context, id string) (*models.SellerProfile, error)
	GetByUserID(ctx context.Context, userID string) (*models.SellerProfile, error)
	List(ctx context.Context) ([]models.SellerProfile, error)
	Update(ctx context.Context, profile *models.SellerProfile) error
	SetActive(ctx context.Context, id string, active bool) error
	Credit(ctx context.Context, id string, amount float64) error
	// Debit removes amount only when the balance covers it.
	Debit(ctx context.Context, id string, amount float64) error
}

// GORMSellerRequestRepository is a GORM implementation of SellerRequestRepository.
type GORMSellerRequestRepository struct {
	db *gorm.DB
}

// NewGORMSellerRequestRepository creates a new GORMSellerRequestRepository.
func NewGORMSellerRequestRepository(db *gorm.DB) *GORMSellerRequestRepository {
	return &GORMSellerRequestRepository{db: db}
}

func (r *GORMSellerRequestRepository) Create(ctx context.Context, req *models.SellerRequest) error {
	if err := conn(ctx, r.db).Create(req).Error; err != nil {
		return wrap(err, "failed to create seller request")
	}
	return nil
}

func (r *GORMSellerRequestRepository) GetByID(ctx context.Context, id string) (*models.SellerRequest, error) {
	var req models.SellerRequest
	if err := conn(ctx, r.db).Preload("User").First(&req, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get seller request %s", id)
	}
	return &req, nil
}

func (r *GORMSellerRequestRepository) LatestByUser(ctx context.Context, userID string) (*models.SellerRequest, error) {
	var req models.SellerRequest
	err := conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at desc").First(&req).Error
	if err != nil {
		return nil, wrap(err, "failed to get seller request of user %s", userID)
	}
	return &req, nil
}

func (r *GORMSellerRequestRepository) HasPending(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.SellerRequest{}).
		Where("user_id = ? AND status = ?", userID, models.RequestPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count pending seller requests: %w", err)
	}
	return count > 0, nil
}

func (r *GORMSellerRequestRepository) List(ctx context.Context, status string) ([]models.SellerRequest, error) {
	var reqs []models.SellerRequest
	q := conn(ctx, r.db).Preload("User").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list seller requests: %w", err)
	}
	return reqs, nil
}

// Review records the decision of an admin on a pending request.
func (r *GORMSellerRequestRepository) Review(ctx context.Context, id, from, to, reviewerID, reason string) error {
	now := time.Now()
	err := updateStatusGuarded(conn(ctx, r.db), &models.SellerRequest{}, id, from, to, map[string]interface{}{
		"reviewed_by":   reviewerID,
		"reviewed_at":   now,
		"reject_reason": reason,
	})
	if err != nil {
		return fmt.Errorf("failed to review seller request %s: %w", id, err)
	}
	return nil
}

// GORMSellerRepository is a GORM implementation of SellerRepository.
type GORMSellerRepository struct {
	db *gorm.DB
}

// NewGORMSellerRepository creates a new GORMSellerRepository.
func NewGORMSellerRepository(db *gorm.DB) *GORMSellerRepository {
	return &GORMSellerRepository{db: db}
}

func (r *GORMSellerRepository) Create(ctx context.Context, profile *models.SellerProfile) error {
	if err := conn(ctx, r.db).Create(profile).Error; err != nil {
		return wrap(err, "failed to create seller profile")
	}
	return nil
}

func (r *GORMSellerRepository) GetByID(ctx context.Context, id string) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	if err := conn(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get seller %s", id)
	}
	return &profile, nil
}

func (r *GORMSellerRepository) GetByUserID(ctx context.Context, userID string) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	if err := conn(ctx, r.db).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, wrap(err, "failed to get seller of user %s", userID)
	}
	return &profile, nil
}

func (r *GORMSellerRepository) List(ctx context.Context) ([]models.SellerProfile, error) {
	var profiles []models.SellerProfile
	if err := conn(ctx, r.db).Order("created_at desc").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return profiles, nil
}

// Update saves the contact fields of a profile. Balance is never written here.
func (r *GORMSellerRepository) Update(ctx context.Context, profile *models.SellerProfile) error {
	res := conn(ctx, r.db).Model(&models.SellerProfile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"business_name": profile.BusinessName,
		"email":         profile.Email,
		"phone":         profile.Phone,
		"address":       profile.Address,
		"description":   profile.Description,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update seller %s: %w", profile.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("seller %s not found for update: %w", profile.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMSellerRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := conn(ctx, r.db).Model(&models.SellerProfile{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update seller %s: %w", id, res.Error)
	}
	return nil
}

func (r *GORMSellerRepository) Credit(ctx context.Context, id string, amount float64) error {
	res := conn(ctx, r.db).Model(&models.SellerProfile{}).Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit seller %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("seller %s not found: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMSellerRepository) Debit(ctx context.Context, id string, amount float64) error {
	res := conn(ctx, r.db).Model(&models.SellerProfile{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit seller %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("seller %s: %w", id, ErrInsufficientBalance)
	}
	return nil
}
