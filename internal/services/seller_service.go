package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dubon/internal/models"
	"dubon/internal/repositories"
	"dubon/pkg/cache"
)

const entitySellerRequest = "seller_request"

func sellerRequestCacheKey(userID string) string {
	return "seller_request:user:" + userID
}

// SellerRequestService handles applications to become a seller.
type SellerRequestService struct {
	tx        repositories.Transactor
	requests  repositories.SellerRequestRepository
	sellers   repositories.SellerRepository
	users     repositories.UserRepository
	statusLog repositories.StatusChangeRepository
	notify    notifier
	cache     cacheStore
}

// NewSellerRequestService creates a new SellerRequestService. publisher and
// c may be nil.
func NewSellerRequestService(
	tx repositories.Transactor,
	requests repositories.SellerRequestRepository,
	sellers repositories.SellerRepository,
	users repositories.UserRepository,
	statusLog repositories.StatusChangeRepository,
	notifications repositories.NotificationRepository,
	publisher EventPublisher,
	c cache.Cache,
	cacheTTL time.Duration,
) *SellerRequestService {
	return &SellerRequestService{
		tx:        tx,
		requests:  requests,
		sellers:   sellers,
		users:     users,
		statusLog: statusLog,
		notify:    notifier{publisher: publisher, notifications: notifications},
		cache:     cacheStore{c: c, ttl: cacheTTL},
	}
}

// Submit files a new pending request for userID.
func (s *SellerRequestService) Submit(ctx context.Context, userID string, req *models.SellerRequest) error {
	if _, err := s.sellers.GetByUserID(ctx, userID); err == nil {
		return fmt.Errorf("user is already a seller: %w", repositories.ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	pending, err := s.requests.HasPending(ctx, userID)
	if err != nil {
		return err
	}
	if pending {
		return fmt.Errorf("a seller request is already pending: %w", repositories.ErrConflict)
	}

	req.ID = ""
	req.UserID = userID
	req.Status = models.RequestPending
	req.RejectReason = ""
	req.ReviewedAt = nil
	req.ReviewedBy = nil
	if err := s.requests.Create(ctx, req); err != nil {
		return err
	}
	s.cache.del(ctx, sellerRequestCacheKey(userID))
	return nil
}

// Mine returns the latest request of userID. The seller dashboard polls it.
func (s *SellerRequestService) Mine(ctx context.Context, userID string) (*models.SellerRequest, error) {
	var cached models.SellerRequest
	if s.cache.get(ctx, sellerRequestCacheKey(userID), &cached) {
		return &cached, nil
	}
	req, err := s.requests.LatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, sellerRequestCacheKey(userID), req)
	return req, nil
}

func (s *SellerRequestService) List(ctx context.Context, status string) ([]models.SellerRequest, error) {
	if status != "" && !models.SellerRequestTransitions.Known(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	return s.requests.List(ctx, status)
}

func (s *SellerRequestService) Get(ctx context.Context, id string) (*models.SellerRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// Approve accepts a pending request: the seller profile is created and the
// user becomes a seller in the same transaction.
func (s *SellerRequestService) Approve(ctx context.Context, actor Actor, id string) (*models.SellerProfile, error) {
	var profile *models.SellerProfile
	var req *models.SellerRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(models.SellerRequestTransitions, entitySellerRequest, req.Status, models.RequestApproved); err != nil {
			return err
		}
		if err := s.requests.Review(ctx, id, req.Status, models.RequestApproved, actor.UserID, ""); err != nil {
			return err
		}
		profile = &models.SellerProfile{
			UserID:       req.UserID,
			BusinessName: req.BusinessName,
			Email:        req.Email,
			Phone:        req.Phone,
			Address:      req.Address,
			Description:  req.Description,
			IsActive:     true,
		}
		if err := s.sellers.Create(ctx, profile); err != nil {
			return err
		}
		if err := s.users.UpdateRole(ctx, req.UserID, models.RoleSeller); err != nil {
			return err
		}
		return recordTransition(ctx, s.statusLog, entitySellerRequest, id, req.Status, models.RequestApproved, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.del(ctx, sellerRequestCacheKey(req.UserID))
	s.notify.emit(ctx, DomainEvent{
		Type:     "seller_request.approved",
		UserID:   req.UserID,
		EntityID: id,
		Title:    "Demande vendeur approuvée",
		Message:  fmt.Sprintf("Votre boutique %s est maintenant active.", req.BusinessName),
	})
	return profile, nil
}

// Reject refuses a pending request with a reason.
func (s *SellerRequestService) Reject(ctx context.Context, actor Actor, id, reason string) (*models.SellerRequest, error) {
	var req *models.SellerRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(models.SellerRequestTransitions, entitySellerRequest, req.Status, models.RequestRejected); err != nil {
			return err
		}
		if err := s.requests.Review(ctx, id, req.Status, models.RequestRejected, actor.UserID, reason); err != nil {
			return err
		}
		return recordTransition(ctx, s.statusLog, entitySellerRequest, id, req.Status, models.RequestRejected, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.cache.del(ctx, sellerRequestCacheKey(req.UserID))
	s.notify.emit(ctx, DomainEvent{
		Type:     "seller_request.rejected",
		UserID:   req.UserID,
		EntityID: id,
		Title:    "Demande vendeur refusée",
		Message:  reason,
	})
	return s.requests.GetByID(ctx, id)
}

// SellerService handles seller profiles.
type SellerService struct {
	sellers repositories.SellerRepository
}

// NewSellerService creates a new SellerService.
func NewSellerService(sellers repositories.SellerRepository) *SellerService {
	return &SellerService{sellers: sellers}
}

func (s *SellerService) Mine(ctx context.Context, userID string) (*models.SellerProfile, error) {
	return s.sellers.GetByUserID(ctx, userID)
}

// UpdateMine saves the contact details of the caller's profile.
func (s *SellerService) UpdateMine(ctx context.Context, userID string, patch models.SellerProfile) (*models.SellerProfile, error) {
	profile, err := s.sellers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch.ID = profile.ID
	if err := s.sellers.Update(ctx, &patch); err != nil {
		return nil, err
	}
	return s.sellers.GetByID(ctx, profile.ID)
}

func (s *SellerService) Get(ctx context.Context, id string) (*models.SellerProfile, error) {
	return s.sellers.GetByID(ctx, id)
}

func (s *SellerService) List(ctx context.Context) ([]models.SellerProfile, error) {
	return s.sellers.List(ctx)
}

func (s *SellerService) SetActive(ctx context.Context, id string, active bool) (*models.SellerProfile, error) {
	if _, err := s.sellers.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.sellers.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.sellers.GetByID(ctx, id)
}
