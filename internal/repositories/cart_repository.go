package repositories

import (
	"context"
	"fmt"
	"time"

	"dubon/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines data access for carts and their lines.
type CartRepository interface {
	// GetByUserID returns the cart with items and products preloaded.
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	GetItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	// AddItem inserts the line or increments the quantity of an existing one.
	AddItem(ctx context.Context, cartID, productID string, qty int, unitPrice float64) error
	SetItemQuantity(ctx context.Context, cartID, productID string, qty int, unitPrice float64) error
	RemoveItem(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, wrap(err, "failed to get cart of user %s", userID)
	}
	cart.ComputeTotal()
	return &cart, nil
}

// GetOrCreate tolerates concurrent first adds: the loser of the insert race
// reads the winner's row.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	db := conn(ctx, r.db)
	fresh := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error
	if err != nil {
		return nil, wrap(err, "failed to create cart for user %s", userID)
	}

	var cart models.Cart
	if err := db.First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, wrap(err, "failed to load cart of user %s", userID)
	}
	return &cart, nil
}

func (r *GORMCartRepository) GetItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := conn(ctx, r.db).First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		return nil, wrap(err, "failed to get cart item %s", productID)
	}
	return &item, nil
}

// AddItem is a single upsert on (cart_id, product_id) so that two concurrent
// adds of the same product both count.
func (r *GORMCartRepository) AddItem(ctx context.Context, cartID, productID string, qty int, unitPrice float64) error {
	item := models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: unitPrice,
	}
	err := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
			"unit_price": unitPrice,
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to add product %s to cart %s: %w", productID, cartID, err)
	}
	return nil
}

func (r *GORMCartRepository) SetItemQuantity(ctx context.Context, cartID, productID string, qty int, unitPrice float64) error {
	res := conn(ctx, r.db).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{"quantity": qty, "unit_price": unitPrice})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not in cart: %w", productID, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, cartID, productID string) error {
	res := conn(ctx, r.db).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s not in cart: %w", productID, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) Clear(ctx context.Context, cartID string) error {
	if err := conn(ctx, r.db).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
