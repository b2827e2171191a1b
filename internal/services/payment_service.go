package services

import (
	"context"
	"fmt"
	"strings"

	"dubon/internal/models"
	"dubon/internal/repositories"

	"github.com/google/uuid"
)

const entityPayment = "payment"

// PaymentService records payments and tracks their status.
type PaymentService struct {
	tx        repositories.Transactor
	payments  repositories.PaymentRepository
	orders    repositories.OrderRepository
	statusLog repositories.StatusChangeRepository
	notify    notifier
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	tx repositories.Transactor,
	payments repositories.PaymentRepository,
	orders repositories.OrderRepository,
	statusLog repositories.StatusChangeRepository,
	notifications repositories.NotificationRepository,
	publisher EventPublisher,
) *PaymentService {
	return &PaymentService{
		tx:        tx,
		payments:  payments,
		orders:    orders,
		statusLog: statusLog,
		notify:    notifier{publisher: publisher, notifications: notifications},
	}
}

// Create opens a pending payment for an order of the caller. An order has at
// most one payment that has not failed.
func (s *PaymentService) Create(ctx context.Context, actor Actor, orderID, method string) (*models.Payment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrForbidden)
	}
	if order.Status == models.OrderCancelled {
		return nil, fmt.Errorf("order %s is cancelled: %w", orderID, ErrInvalidInput)
	}
	active, err := s.payments.HasActive(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, fmt.Errorf("order %s already has a payment: %w", orderID, repositories.ErrConflict)
	}

	payment := &models.Payment{
		OrderID:   orderID,
		UserID:    actor.UserID,
		Amount:    order.TotalAmount,
		Method:    method,
		Status:    models.PaymentPending,
		Reference: newPaymentReference(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:16])
}

func (s *PaymentService) ListMine(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *PaymentService) List(ctx context.Context, status string) ([]models.Payment, error) {
	if status != "" && !models.PaymentTransitions.Known(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	return s.payments.List(ctx, status)
}

// UpdateStatus moves a payment along its lifecycle. A completed payment
// starts processing of its pending order.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor Actor, id, status string) (*models.Payment, error) {
	var payment *models.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkTransition(models.PaymentTransitions, entityPayment, payment.Status, status); err != nil {
			return err
		}
		if err := s.payments.UpdateStatus(ctx, id, payment.Status, status); err != nil {
			return err
		}
		if err := recordTransition(ctx, s.statusLog, entityPayment, id, payment.Status, status, actor.UserID); err != nil {
			return err
		}
		if status != models.PaymentCompleted {
			return nil
		}

		order, err := s.orders.GetByID(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order.Status != models.OrderPending {
			return nil
		}
		if err := s.orders.UpdateStatus(ctx, order.ID, models.OrderPending, models.OrderProcessing); err != nil {
			return err
		}
		return recordTransition(ctx, s.statusLog, entityOrder, order.ID, models.OrderPending, models.OrderProcessing, actor.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.notify.emit(ctx, DomainEvent{
		Type:     "payment." + status,
		UserID:   payment.UserID,
		EntityID: id,
		Title:    "Paiement " + status,
		Message:  fmt.Sprintf("Le paiement %s de %.2f est maintenant %s.", payment.Reference, payment.Amount, status),
	})
	return s.payments.GetByID(ctx, id)
}
