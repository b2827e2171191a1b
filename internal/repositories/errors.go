package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique or foreign key constraint would be
	// violated.
	ErrConflict = errors.New("record already exists")
	// ErrStaleStatus is returned when a guarded status update matched no row
	// because another writer changed the status first.
	ErrStaleStatus = errors.New("status changed concurrently")
	// ErrInsufficientStock is returned when a product has fewer units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInsufficientBalance is returned when a seller balance cannot cover a debit.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrCapacityReached is returned when an event has no seats left.
	ErrCapacityReached = errors.New("event capacity reached")
)

// wrap translates gorm errors into the package sentinels.
func wrap(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
