package services

import (
	"context"
	"errors"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

const entityWithdrawal = "withdrawal"

// WithdrawalService handles sellers cashing out their balance. The amount
// is reserved from the balance when the request is filed and given back if
// the request is rejected.
type WithdrawalService struct {
	tx          repositories.Transactor
	withdrawals repositories.WithdrawalRepository
	sellers     repositories.SellerRepository
	statusLog   repositories.StatusChangeRepository
	notify      notifier
}

// NewWithdrawalService creates a new WithdrawalService.
func NewWithdrawalService(
	tx repositories.Transactor,
	withdrawals repositories.WithdrawalRepository,
	sellers repositories.SellerRepository,
	statusLog repositories.StatusChangeRepository,
	notifications repositories.NotificationRepository,
	publisher EventPublisher,
) *WithdrawalService {
	return &WithdrawalService{
		tx:          tx,
		withdrawals: withdrawals,
		sellers:     sellers,
		statusLog:   statusLog,
		notify:      notifier{publisher: publisher, notifications: notifications},
	}
}

func (s *WithdrawalService) sellerOf(ctx context.Context, userID string) (*models.SellerProfile, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("no seller profile: %w", ErrForbidden)
	}
	return seller, err
}

// Request files a withdrawal and reserves its amount.
func (s *WithdrawalService) Request(ctx context.Context, userID string, w *models.Withdrawal) (*models.Withdrawal, error) {
	if w.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", ErrInvalidInput)
	}
	seller, err := s.sellerOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	w.ID = ""
	w.SellerID = seller.ID
	w.Status = models.WithdrawalPending
	w.Note = ""
	w.ProcessedAt = nil
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.sellers.Debit(ctx, seller.ID, w.Amount); err != nil {
			return err
		}
		return s.withdrawals.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WithdrawalService) ListMine(ctx context.Context, userID string) ([]models.Withdrawal, error) {
	seller, err := s.sellerOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withdrawals.ListBySeller(ctx, seller.ID)
}

func (s *WithdrawalService) List(ctx context.Context, status string) ([]models.Withdrawal, error) {
	if status != "" && !models.WithdrawalTransitions.Known(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	return s.withdrawals.List(ctx, status)
}

// UpdateStatus moves a withdrawal along its lifecycle. Rejection refunds
// the reserved amount.
func (s *WithdrawalService) UpdateStatus(ctx context.Context, actor Actor, id, status, note string) (*models.Withdrawal, error) {
	var w *models.Withdrawal
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		w, err = s.withdrawals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(models.WithdrawalTransitions, entityWithdrawal, w.Status, status); err != nil {
			return err
		}
		if err := s.withdrawals.UpdateStatus(ctx, id, w.Status, status, note); err != nil {
			return err
		}
		if status == models.WithdrawalRejected {
			if err := s.sellers.Credit(ctx, w.SellerID, w.Amount); err != nil {
				return err
			}
		}
		return recordTransition(ctx, s.statusLog, entityWithdrawal, id, w.Status, status, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	if seller, err := s.sellers.GetByID(ctx, w.SellerID); err == nil {
		s.notify.emit(ctx, DomainEvent{
			Type:     "withdrawal." + status,
			UserID:   seller.UserID,
			EntityID: id,
			Title:    "Retrait " + status,
			Message:  fmt.Sprintf("Votre retrait de %.2f est maintenant %s.", w.Amount, status),
		})
	}
	return s.withdrawals.GetByID(ctx, id)
}
