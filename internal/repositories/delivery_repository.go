package repositories

import (
	"context"
	"fmt"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// DeliveryPersonRepository defines data access for delivery persons.
type DeliveryPersonRepository interface {
	Create(ctx context.Context, person *models.DeliveryPerson) error
	GetAll(ctx context.Context) ([]models.DeliveryPerson, error)
	GetByID(ctx context.Context, id string) (*models.DeliveryPerson, error)
	Update(ctx context.Context, person *models.DeliveryPerson) error
	Delete(ctx context.Context, id string) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

// GORMDeliveryPersonRepository is a GORM implementation of DeliveryPersonRepository.
type GORMDeliveryPersonRepository struct {
	db *gorm.DB
}

// NewGORMDeliveryPersonRepository creates a new GORMDeliveryPersonRepository.
func NewGORMDeliveryPersonRepository(db *gorm.DB) *GORMDeliveryPersonRepository {
	return &GORMDeliveryPersonRepository{db: db}
}

func (r *GORMDeliveryPersonRepository) Create(ctx context.Context, person *models.DeliveryPerson) error {
	if err := conn(ctx, r.db).Create(person).Error; err != nil {
		return wrap(err, "failed to create delivery person")
	}
	return nil
}

func (r *GORMDeliveryPersonRepository) GetAll(ctx context.Context) ([]models.DeliveryPerson, error) {
	var people []models.DeliveryPerson
	if err := conn(ctx, r.db).Order("name asc").Find(&people).Error; err != nil {
		return nil, fmt.Errorf("failed to list delivery persons: %w", err)
	}
	return people, nil
}

func (r *GORMDeliveryPersonRepository) GetByID(ctx context.Context, id string) (*models.DeliveryPerson, error) {
	var person models.DeliveryPerson
	if err := conn(ctx, r.db).First(&person, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get delivery person %s", id)
	}
	return &person, nil
}

func (r *GORMDeliveryPersonRepository) Update(ctx context.Context, person *models.DeliveryPerson) error {
	res := conn(ctx, r.db).Model(&models.DeliveryPerson{}).Where("id = ?", person.ID).Updates(map[string]interface{}{
		"name":         person.Name,
		"email":        person.Email,
		"phone":        person.Phone,
		"vehicle_type": person.VehicleType,
		"zone":         person.Zone,
		"is_available": person.IsAvailable,
	})
	if res.Error != nil {
		return wrap(res.Error, "failed to update delivery person %s", person.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delivery person %s not found for update: %w", person.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMDeliveryPersonRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&models.DeliveryPerson{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete delivery person: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delivery person %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// SetBlocked does not report missing rows: MySQL counts unchanged rows as unaffected.
func (r *GORMDeliveryPersonRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	res := conn(ctx, r.db).Model(&models.DeliveryPerson{}).Where("id = ?", id).Update("is_blocked", blocked)
	if res.Error != nil {
		return fmt.Errorf("failed to update delivery person %s: %w", id, res.Error)
	}
	return nil
}
