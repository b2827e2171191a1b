package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, optionally those of a single seller.
func (r *GORMProductRepository) GetAll(ctx context.Context, sellerID string) ([]models.Product, error) {
	var products []models.Product
	q := conn(ctx, r.db).Order("created_at desc")
	if sellerID != "" {
		q = q.Where("seller_id = ?", sellerID)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get product by ID %s", id)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := conn(ctx, r.db).Create(product).Error; err != nil {
		return wrap(err, "failed to create product")
	}
	return nil
}

// Update updates the editable columns of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := conn(ctx, r.db).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product together with the cart lines holding it. Order
// lines keep their copy of the product data.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return wrap(err, "failed to delete product %s", id)
	}
	return nil
}

// DecrementStock subtracts qty from the stock in a single conditional update.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res := conn(ctx, r.db).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// IncrementStock puts qty units back into stock.
func (r *GORMProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	res := conn(ctx, r.db).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to restock product %s: %w", id, res.Error)
	}
	return nil
}
