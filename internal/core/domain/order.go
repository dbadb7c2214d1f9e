package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidStatusTransition reports whether an order may move from one status to
// another. Cancellation is only possible before the kitchen finishes.
func ValidStatusTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPreparing || to == OrderStatusCancelled
	case OrderStatusPreparing:
		return to == OrderStatusReady || to == OrderStatusCancelled
	case OrderStatusReady:
		return to == OrderStatusDelivered
	}
	return false
}

type Order struct {
	ID           int64
	RestaurantID int64
	CustomerID   int64
	OrderNumber  string
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	Status       OrderStatus
	Notes        string
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem is one committed line of an order. Name and price are copied
// from the menu item at placement time and never change afterwards.
type OrderItem struct {
	ID                  int64
	OrderID             int64
	MenuItemID          int64
	ItemName            string
	ItemPrice           decimal.Decimal
	Quantity            int
	TotalPrice          decimal.Decimal
	SpecialInstructions string
}

// CartLine is one requested entry of a cart. Carts are transient: they only
// exist for the duration of a single placement attempt and carry no prices,
// those are always resolved server-side.
type CartLine struct {
	MenuItemID          int64
	Quantity            int
	SpecialInstructions string
}
