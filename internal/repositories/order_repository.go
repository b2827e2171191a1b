package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Order, error)
	List(ctx context.Context, status string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, from, to string) error
	AssignDeliveryPerson(ctx context.Context, id, deliveryPersonID string) error
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create saves the order together with its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := conn(ctx, r.db).Create(order).Error; err != nil {
		return wrap(err, "failed to create order")
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := conn(ctx, r.db).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get order %s", id)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := conn(ctx, r.db).Preload("Items").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// ListBySeller returns orders containing at least one product of the seller.
// Only the seller's own lines are preloaded.
func (r *GORMOrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Order, error) {
	var orders []models.Order
	db := conn(ctx, r.db)
	sub := db.Session(&gorm.Session{NewDB: true}).Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)
	err := db.
		Preload("Items", "seller_id = ?", sellerID).
		Where("id IN (?)", sub).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of seller %s: %w", sellerID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) List(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	q := conn(ctx, r.db).Preload("Items").Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order from one status to the next.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if err := updateStatusGuarded(conn(ctx, r.db), &models.Order{}, id, from, to, nil); err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	return nil
}

func (r *GORMOrderRepository) AssignDeliveryPerson(ctx context.Context, id, deliveryPersonID string) error {
	res := conn(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).Update("delivery_person_id", deliveryPersonID)
	if res.Error != nil {
		return fmt.Errorf("failed to assign order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s not found: %w", id, ErrNotFound)
	}
	return nil
}
