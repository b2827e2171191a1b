package services

import (
	"context"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

// DeliveryService manages the couriers orders can be assigned to.
type DeliveryService struct {
	repo repositories.DeliveryPersonRepository
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(repo repositories.DeliveryPersonRepository) *DeliveryService {
	return &DeliveryService{repo: repo}
}

// Create registers a courier. New couriers are available and not blocked.
func (s *DeliveryService) Create(ctx context.Context, person *models.DeliveryPerson) error {
	person.ID = ""
	person.Email = normalizeEmail(person.Email)
	person.IsBlocked = false
	person.IsAvailable = true
	return s.repo.Create(ctx, person)
}

func (s *DeliveryService) GetAll(ctx context.Context) ([]models.DeliveryPerson, error) {
	return s.repo.GetAll(ctx)
}

func (s *DeliveryService) Get(ctx context.Context, id string) (*models.DeliveryPerson, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the contact details and availability of a courier. The
// blocked flag is only changed through Block and Unblock.
func (s *DeliveryService) Update(ctx context.Context, patch *models.DeliveryPerson) (*models.DeliveryPerson, error) {
	person, err := s.repo.GetByID(ctx, patch.ID)
	if err != nil {
		return nil, err
	}
	person.Name = patch.Name
	person.Email = normalizeEmail(patch.Email)
	person.Phone = patch.Phone
	person.VehicleType = patch.VehicleType
	person.Zone = patch.Zone
	person.IsAvailable = patch.IsAvailable
	if err := s.repo.Update(ctx, person); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, person.ID)
}

func (s *DeliveryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *DeliveryService) Block(ctx context.Context, id string) (*models.DeliveryPerson, error) {
	return s.setBlocked(ctx, id, true)
}

func (s *DeliveryService) Unblock(ctx context.Context, id string) (*models.DeliveryPerson, error) {
	return s.setBlocked(ctx, id, false)
}

func (s *DeliveryService) setBlocked(ctx context.Context, id string, blocked bool) (*models.DeliveryPerson, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetBlocked(ctx, id, blocked); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
