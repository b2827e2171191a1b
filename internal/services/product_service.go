package services

import (
	"context"
	"errors"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo    repositories.ProductRepository
	sellers repositories.SellerRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, sellers repositories.SellerRepository) *ProductService {
	return &ProductService{
		repo:    repo,
		sellers: sellers,
	}
}

// GetAllProducts retrieves all products, optionally those of one seller.
func (s *ProductService) GetAllProducts(ctx context.Context, sellerID string) ([]models.Product, error) {
	return s.repo.GetAll(ctx, sellerID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// activeSeller resolves the seller profile of userID and requires it to be active.
func (s *ProductService) activeSeller(ctx context.Context, userID string) (*models.SellerProfile, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("no seller profile: %w", ErrForbidden)
		}
		return nil, err
	}
	if !seller.IsActive {
		return nil, fmt.Errorf("seller %s is deactivated: %w", seller.ID, ErrForbidden)
	}
	return seller, nil
}

// CreateProduct creates a product owned by the caller's seller profile.
func (s *ProductService) CreateProduct(ctx context.Context, actor Actor, product *models.Product) error {
	seller, err := s.activeSeller(ctx, actor.UserID)
	if err != nil {
		return err
	}
	product.ID = ""
	product.SellerID = seller.ID
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates a product of the caller.
func (s *ProductService) UpdateProduct(ctx context.Context, actor Actor, product *models.Product) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	seller, err := s.activeSeller(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != seller.ID {
		return nil, fmt.Errorf("product %s belongs to another seller: %w", product.ID, ErrForbidden)
	}
	product.SellerID = existing.SellerID
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product. Admins may delete any product.
func (s *ProductService) DeleteProduct(ctx context.Context, actor Actor, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		seller, err := s.sellers.GetByUserID(ctx, actor.UserID)
		if err != nil || seller.ID != existing.SellerID {
			return fmt.Errorf("product %s belongs to another seller: %w", id, ErrForbidden)
		}
	}
	return s.repo.Delete(ctx, id)
}
