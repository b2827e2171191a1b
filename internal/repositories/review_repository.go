package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines data access for product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	AverageRating(ctx context.Context, productID string) (float64, error)
	Delete(ctx context.Context, id string) error
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// Create fails with ErrConflict when the user already reviewed the product.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := conn(ctx, r.db).Create(review).Error; err != nil {
		return wrap(err, "failed to create review")
	}
	return nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := conn(ctx, r.db).First(&review, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get review %s", id)
	}
	return &review, nil
}

func (r *GORMReviewRepository) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := conn(ctx, r.db).Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews of product %s: %w", productID, err)
	}
	return reviews, nil
}

func (r *GORMReviewRepository) AverageRating(ctx context.Context, productID string) (float64, error) {
	var avg *float64
	err := conn(ctx, r.db).Model(&models.Review{}).
		Select("AVG(rating)").
		Where("product_id = ?", productID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings of product %s: %w", productID, err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
