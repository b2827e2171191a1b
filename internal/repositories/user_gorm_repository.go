package repositories

import (
	"context"
	"fmt"
	"strings"

	"dubon/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := conn(ctx, r.db).Create(user).Error; err != nil {
		return wrap(err, "failed to create user")
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := conn(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrap(err, "failed to get user by email %s", email)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get user by ID %s", id)
	}
	return &user, nil
}

// List returns all users, optionally filtered by role.
func (r *GORMUserRepository) List(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	q := conn(ctx, r.db).Order("created_at desc")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile updates the editable profile fields of a user.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, id, name, phone string) error {
	res := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "phone": phone})
	if res.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", id, res.Error)
	}
	return nil
}

// UpdateRole changes the role of a user.
func (r *GORMUserRepository) UpdateRole(ctx context.Context, id, role string) error {
	res := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to update role of user %s: %w", id, res.Error)
	}
	return nil
}

// Delete deletes a user by their ID. A user still referenced by seller
// requests fails with ErrConflict.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return wrap(res.Error, "failed to delete user %s", id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
