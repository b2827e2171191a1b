package services

import (
	"context"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// UserService handles account management.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	return s.users.List(ctx, role)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes the name and phone of the caller.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, phone string) (*models.User, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, id, name, phone); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// UpdateRole changes the role of a user. Sellers are created by approving a
// seller request, never by this call.
func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RoleDelivery:
	default:
		return nil, fmt.Errorf("role %q cannot be assigned directly: %w", role, ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if actor.UserID == id {
		return fmt.Errorf("cannot delete your own account: %w", ErrForbidden)
	}
	return s.users.Delete(ctx, id)
}
