package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMenuItemNotFound        = errors.New("menu item not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrDuplicateOrderNumber    = errors.New("duplicate order number")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotRestaurantOwner      = errors.New("menu item belongs to another restaurant")
)

// ValidationError reports malformed client input. It never leaves side
// effects behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientStockError names the offending line item. Available is -1 when
// the shortage was detected by the advisory cache gate, which does not know
// the authoritative count.
type InsufficientStockError struct {
	MenuItemID int64
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("insufficient stock for menu item %d: requested %d", e.MenuItemID, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for menu item %d: requested %d, available %d", e.MenuItemID, e.Requested, e.Available)
}
