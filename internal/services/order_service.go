package services

import (
	"context"
	"errors"
	"fmt"

	"dubon/internal/models"
	"dubon/internal/repositories"
)

const entityOrder = "order"

// OrderService handles business logic related to orders.
type OrderService struct {
	tx         repositories.Transactor
	orderRepo  repositories.OrderRepository
	payments   repositories.PaymentRepository
	carts      repositories.CartRepository
	products   repositories.ProductRepository
	sellers    repositories.SellerRepository
	deliveries repositories.DeliveryPersonRepository
	statusLog  repositories.StatusChangeRepository
	notify     notifier
}

// OrderDeps groups the collaborators of OrderService.
type OrderDeps struct {
	Tx            repositories.Transactor
	Orders        repositories.OrderRepository
	Payments      repositories.PaymentRepository
	Carts         repositories.CartRepository
	Products      repositories.ProductRepository
	Sellers       repositories.SellerRepository
	Deliveries    repositories.DeliveryPersonRepository
	StatusLog     repositories.StatusChangeRepository
	Notifications repositories.NotificationRepository
	Publisher     EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(d OrderDeps) *OrderService {
	return &OrderService{
		tx:         d.Tx,
		orderRepo:  d.Orders,
		payments:   d.Payments,
		carts:      d.Carts,
		products:   d.Products,
		sellers:    d.Sellers,
		deliveries: d.Deliveries,
		statusLog:  d.StatusLog,
		notify:     notifier{publisher: d.Publisher, notifications: d.Notifications},
	}
}

// Checkout turns the cart of userID into a pending order. Stock is taken,
// the order is written and the cart is emptied in one transaction.
func (s *OrderService) Checkout(ctx context.Context, userID, shippingAddress string) (*models.Order, error) {
	var order *models.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cart, err := s.carts.GetByUserID(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) || (err == nil && len(cart.Items) == 0) {
			return fmt.Errorf("cart is empty: %w", ErrInvalidInput)
		}
		if err != nil {
			return err
		}

		var total float64
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			product, err := s.products.GetByID(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("product %s not found: %w", line.ProductID, err)
			}
			if err := s.products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return fmt.Errorf("%s (requested: %d): %w", product.Name, line.Quantity, err)
			}
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				SellerID:  product.SellerID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			total += product.Price * float64(line.Quantity)
		}

		order = &models.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     total,
			Status:          models.OrderPending,
			ShippingAddress: shippingAddress,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return s.carts.Clear(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notify.emit(ctx, DomainEvent{
		Type:     "order.created",
		UserID:   userID,
		EntityID: order.ID,
		Title:    "Commande enregistrée",
		Message:  fmt.Sprintf("Votre commande de %.2f a été enregistrée.", order.TotalAmount),
	})
	return order, nil
}

// GetAllOrders retrieves all orders, optionally with a given status.
func (s *OrderService) GetAllOrders(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.OrderTransitions.Known(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}
	return s.orderRepo.List(ctx, status)
}

// GetUserOrders retrieves the orders placed by userID.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// GetSellerOrders retrieves orders containing products of the caller's shop.
func (s *OrderService) GetSellerOrders(ctx context.Context, userID string) ([]models.Order, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("no seller profile: %w", ErrForbidden)
		}
		return nil, err
	}
	return s.orderRepo.ListBySeller(ctx, seller.ID)
}

// GetOrderByID retrieves an order visible to actor.
func (s *OrderService) GetOrderByID(ctx context.Context, actor Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("order %s: %w", id, ErrForbidden)
	}
	return order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Cancelling restocks
// the products; delivering credits the sellers.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor Actor, id, status string) (*models.Order, error) {
	var order *models.Order
	var from string
	var refunded []models.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if err := s.applyStatus(ctx, actor, order, status); err != nil {
			return err
		}
		if status == models.OrderCancelled {
			refunded, err = s.refundPayments(ctx, actor, order.ID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, p := range refunded {
		s.notify.emit(ctx, DomainEvent{
			Type:     "payment." + models.PaymentRefunded,
			UserID:   p.UserID,
			EntityID: p.ID,
			Title:    "Remboursement",
			Message:  fmt.Sprintf("Le paiement %s de votre commande annulée sera remboursé.", p.Reference),
		})
	}

	s.notify.emit(ctx, DomainEvent{
		Type:     "order." + status,
		UserID:   order.UserID,
		EntityID: order.ID,
		Title:    "Mise à jour de commande",
		Message:  fmt.Sprintf("Votre commande est passée de %s à %s.", from, status),
	})
	return s.orderRepo.GetByID(ctx, id)
}

// CancelOrder lets the buyer cancel an order that is still pending.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, fmt.Errorf("order %s: %w", id, ErrForbidden)
	}
	if order.Status != models.OrderPending {
		return nil, fmt.Errorf("only pending orders can be cancelled by the buyer: %w", ErrInvalidTransition)
	}
	return s.UpdateOrderStatus(ctx, actor, id, models.OrderCancelled)
}

func (s *OrderService) applyStatus(ctx context.Context, actor Actor, order *models.Order, to string) error {
	if err := checkTransition(models.OrderTransitions, entityOrder, order.Status, to); err != nil {
		return err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, to); err != nil {
		return err
	}

	switch to {
	case models.OrderCancelled:
		for _, item := range order.Items {
			if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
	case models.OrderDelivered:
		earnings := make(map[string]float64)
		for _, item := range order.Items {
			earnings[item.SellerID] += item.Price * float64(item.Quantity)
		}
		for sellerID, amount := range earnings {
			if sellerID == "" {
				continue
			}
			if err := s.sellers.Credit(ctx, sellerID, amount); err != nil {
				return err
			}
		}
	}
	return recordTransition(ctx, s.statusLog, entityOrder, order.ID, order.Status, to, actor.UserID)
}

// refundPayments moves the completed payments of a cancelled order to
// refunded.
func (s *OrderService) refundPayments(ctx context.Context, actor Actor, orderID string) ([]models.Payment, error) {
	if s.payments == nil {
		return nil, nil
	}
	payments, err := s.payments.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var refunded []models.Payment
	for _, p := range payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if err := s.payments.UpdateStatus(ctx, p.ID, p.Status, models.PaymentRefunded); err != nil {
			return nil, err
		}
		if err := recordTransition(ctx, s.statusLog, entityPayment, p.ID, p.Status, models.PaymentRefunded, actor.UserID); err != nil {
			return nil, err
		}
		p.Status = models.PaymentRefunded
		refunded = append(refunded, p)
	}
	return refunded, nil
}

// AssignDeliveryPerson hands an open order to a courier who is not blocked.
func (s *OrderService) AssignDeliveryPerson(ctx context.Context, id, deliveryPersonID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderDelivered || order.Status == models.OrderCancelled {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.Status, ErrInvalidTransition)
	}
	person, err := s.deliveries.GetByID(ctx, deliveryPersonID)
	if err != nil {
		return nil, err
	}
	if person.IsBlocked {
		return nil, fmt.Errorf("delivery person %s is blocked: %w", person.Name, repositories.ErrConflict)
	}
	if err := s.orderRepo.AssignDeliveryPerson(ctx, id, deliveryPersonID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, id)
}
