package services

import (
	"context"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// ProductReviews is the review listing of a product with its average rating.
type ProductReviews struct {
	Average float64         `json:"average"`
	Count   int             `json:"count"`
	Reviews []models.Review `json:"reviews"`
}

// ReviewService handles product reviews. A user reviews a product once.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, products repositories.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

func (s *ReviewService) Create(ctx context.Context, actor Actor, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", ErrInvalidInput)
	}
	if _, err := s.products.GetByID(ctx, review.ProductID); err != nil {
		return err
	}
	review.ID = ""
	review.UserID = actor.UserID
	return s.reviews.Create(ctx, review)
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) (*ProductReviews, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageRating(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{Average: avg, Count: len(reviews), Reviews: reviews}, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("review %s: %w", id, ErrForbidden)
	}
	return s.reviews.Delete(ctx, id)
}
