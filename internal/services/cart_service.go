package services

import (
	"context"
	"errors"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// CartService handles the shopping cart of a user.
type CartService struct {
	tx       repositories.Transactor
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(tx repositories.Transactor, carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{tx: tx, carts: carts, products: products}
}

// Get returns the cart of userID, or an empty one when none exists yet.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

// AddItem adds qty units of a product. Adding a product already in the cart
// increments its line.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
	}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		cart, err := s.carts.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		inCart := 0
		item, err := s.carts.GetItem(ctx, cart.ID, productID)
		switch {
		case err == nil:
			inCart = item.Quantity
		case !errors.Is(err, repositories.ErrNotFound):
			return err
		}
		if inCart+qty > product.Stock {
			return fmt.Errorf("only %d units of %s available: %w", product.Stock, product.Name, repositories.ErrInsufficientStock)
		}
		return s.carts.AddItem(ctx, cart.ID, productID, qty, product.Price)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateItem sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", ErrInvalidInput)
	}
	if qty == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, fmt.Errorf("only %d units of %s available: %w", product.Stock, product.Name, repositories.ErrInsufficientStock)
	}
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetItemQuantity(ctx, cart.ID, productID, qty, product.Price); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// RemoveItem drops a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.carts.Clear(ctx, cart.ID)
}
