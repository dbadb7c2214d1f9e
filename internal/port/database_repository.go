package port

import (
	"context"

	"github.com/tavolo/ordercore/internal/core/domain"
)

// OrderStore is the persistence boundary for orders.
type OrderStore interface {
	// WithinTx runs fn inside a single database transaction. Any error
	// returned by fn rolls back every write made through the OrderTx view.
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error

	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)

	// ListCustomerOrders returns a customer's orders, newest first. Line
	// items are not loaded for listings.
	ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error)

	// ListRestaurantOrders returns a restaurant's orders, newest first.
	ListRestaurantOrders(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Order, error)
}

// OrderTx is the transaction-scoped view used during order placement and
// status changes. Reads through it observe the same isolation level as the
// writes, so a looked-up snapshot and the matching stock decrement cannot
// race with a concurrent placement.
type OrderTx interface {
	// LookupMenuItem returns an immutable snapshot of the item as of the
	// current transaction.
	LookupMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItemSnapshot, error)

	// ReserveStock atomically decrements stock when at least quantity is
	// left and returns the remaining count. Fails with
	// InsufficientStockError (naming the item) otherwise; a partial
	// reservation is never visible outside the transaction.
	ReserveStock(ctx context.Context, menuItemID int64, quantity int) (int, error)

	// ReleaseStock adds quantity back and returns the remaining count.
	// Used when a cancellable order is voided.
	ReleaseStock(ctx context.Context, menuItemID int64, quantity int) (int, error)

	// InsertOrder persists the order row and returns its id. A colliding
	// order number fails with ErrDuplicateOrderNumber so the caller can
	// retry with a fresh one.
	InsertOrder(ctx context.Context, order *domain.Order) (int64, error)

	InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error

	// GetOrderForUpdate loads an order with its items, holding a row lock
	// until the transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID int64) (*domain.Order, error)

	SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
}
