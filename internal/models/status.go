package models

import "fmt"

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Seller request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Withdrawal statuses.
const (
	WithdrawalPending   = "pending"
	WithdrawalApproved  = "approved"
	WithdrawalRejected  = "rejected"
	WithdrawalCompleted = "completed"
)

// Event statuses.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Reservation statuses.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// Transitions maps a status to the statuses it may move to.
// A status with no entry is terminal.
type Transitions map[string][]string

var (
	OrderTransitions = Transitions{
		OrderPending:    {OrderProcessing, OrderCancelled},
		OrderProcessing: {OrderShipped, OrderCancelled},
		OrderShipped:    {OrderDelivered},
	}
	SellerRequestTransitions = Transitions{
		RequestPending: {RequestApproved, RequestRejected},
	}
	PaymentTransitions = Transitions{
		PaymentPending:   {PaymentCompleted, PaymentFailed},
		PaymentCompleted: {PaymentRefunded},
	}
	WithdrawalTransitions = Transitions{
		WithdrawalPending:  {WithdrawalApproved, WithdrawalRejected},
		WithdrawalApproved: {WithdrawalCompleted},
	}
	EventTransitions = Transitions{
		EventDraft:     {EventPublished, EventCancelled},
		EventPublished: {EventCancelled, EventCompleted},
	}
	ReservationTransitions = Transitions{
		ReservationConfirmed: {ReservationCancelled},
	}
)

// Known reports whether status appears anywhere in the table.
func (t Transitions) Known(status string) bool {
	for from, targets := range t {
		if from == status {
			return true
		}
		for _, to := range targets {
			if to == status {
				return true
			}
		}
	}
	return false
}

// Allowed reports whether from -> to is a legal move.
func (t Transitions) Allowed(from, to string) bool {
	for _, target := range t[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Check returns a descriptive error for an illegal move.
func (t Transitions) Check(from, to string) error {
	if !t.Known(to) {
		return fmt.Errorf("unknown status %q", to)
	}
	if !t.Allowed(from, to) {
		return fmt.Errorf("cannot move from %q to %q", from, to)
	}
	return nil
}
