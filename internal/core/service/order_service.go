package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

type OrderService struct {
	store   port.OrderStore
	cache   port.CacheRepository
	taxRate decimal.Decimal
	log     *slog.Logger
}

func NewOrderService(store port.OrderStore, cache port.CacheRepository, taxRate decimal.Decimal, log *slog.Logger) *OrderService {
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{
		store:   store,
		cache:   cache,
		taxRate: taxRate,
		log:     log,
	}
}

// PlaceOrderRequest carries one placement attempt. CustomerID comes from the
// authentication layer and is trusted as-is. RequestID is an optional
// client-supplied idempotency token.
type PlaceOrderRequest struct {
	RequestID    string
	CustomerID   int64
	RestaurantID int64
	Cart         []domain.CartLine
	Notes        string
}

// PlaceOrder prices the cart, reserves stock and persists the order in one
// all-or-nothing transaction. Either the order and every stock decrement
// commit together, or nothing is left behind.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	start := time.Now()

	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	if req.RequestID != "" {
		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey(req.RequestID))
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	gated, err := s.gateStock(ctx, req.Cart)
	if err != nil {
		s.releaseGate(ctx, gated)
		s.clearIdempotency(ctx, req.RequestID)
		return nil, err
	}

	var (
		order     *domain.Order
		remaining map[int64]int
	)
	err = s.store.WithinTx(ctx, func(tx port.OrderTx) error {
		draft, err := buildDraft(ctx, req.Cart, tx, s.taxRate)
		if err != nil {
			return err
		}

		remaining = make(map[int64]int, len(req.Cart))
		for _, line := range req.Cart {
			left, err := tx.ReserveStock(ctx, line.MenuItemID, line.Quantity)
			if err != nil {
				return err
			}
			remaining[line.MenuItemID] = left
		}

		now := time.Now().UTC()
		o := &domain.Order{
			RestaurantID: req.RestaurantID,
			CustomerID:   req.CustomerID,
			OrderNumber:  newOrderNumber(),
			Subtotal:     draft.Subtotal,
			TaxAmount:    draft.Tax,
			TotalAmount:  draft.Total,
			Status:       domain.OrderStatusPending,
			Notes:        req.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		id, err := tx.InsertOrder(ctx, o)
		if errors.Is(err, domain.ErrDuplicateOrderNumber) {
			// One retry with a fresh number, then give up.
			o.OrderNumber = newOrderNumber()
			id, err = tx.InsertOrder(ctx, o)
		}
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		o.ID = id

		for i := range draft.Items {
			draft.Items[i].OrderID = id
		}
		if err := tx.InsertOrderItems(ctx, id, draft.Items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		o.Items = draft.Items
		order = o
		return nil
	})
	if err != nil {
		s.releaseGate(ctx, gated)
		s.clearIdempotency(ctx, req.RequestID)
		return nil, err
	}

	s.syncStockMirror(ctx, remaining)

	s.log.Info("order placed",
		slog.String("order_number", order.OrderNumber),
		slog.Int64("customer_id", order.CustomerID),
		slog.Int64("restaurant_id", order.RestaurantID),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Duration("duration", time.Since(start)),
	)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.ListCustomerOrders(ctx, customerID, limit, offset)
}

func (s *OrderService) ListRestaurantOrders(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Order, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.ListRestaurantOrders(ctx, restaurantID, limit, offset)
}

// UpdateOrderStatus moves an order along pending -> preparing -> ready ->
// delivered, or cancels it while still cancellable. Cancelling restores the
// reserved stock in the same transaction.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, to domain.OrderStatus) (*domain.Order, error) {
	if !to.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", to)}
	}

	var (
		order    *domain.Order
		restored map[int64]int
	)
	err := s.store.WithinTx(ctx, func(tx port.OrderTx) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !domain.ValidStatusTransition(o.Status, to) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, o.Status, to)
		}
		if err := tx.SetOrderStatus(ctx, orderID, to); err != nil {
			return err
		}
		if to == domain.OrderStatusCancelled {
			restored = make(map[int64]int, len(o.Items))
			for _, item := range o.Items {
				left, err := tx.ReleaseStock(ctx, item.MenuItemID, item.Quantity)
				if err != nil {
					return err
				}
				restored[item.MenuItemID] = left
			}
		}
		o.Status = to
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.syncStockMirror(ctx, restored)

	s.log.Info("order status updated",
		slog.String("order_number", order.OrderNumber),
		slog.String("status", string(to)),
	)
	return order, nil
}

// gateStock runs the advisory cache gate over the cart. It returns the lines
// whose mirrored stock was actually decremented so a failure can restore
// exactly those.
func (s *OrderService) gateStock(ctx context.Context, cart []domain.CartLine) ([]domain.CartLine, error) {
	applied := make([]domain.CartLine, 0, len(cart))
	for _, line := range cart {
		res, err := s.cache.DecrementStock(ctx, line.MenuItemID, line.Quantity)
		if err != nil {
			return applied, fmt.Errorf("stock gate: %w", err)
		}
		switch res {
		case port.GateApplied:
			applied = append(applied, line)
		case port.GateBypassed:
			// nothing mirrored, the database decides
		case port.GateBlocked:
			return applied, &domain.InsufficientStockError{
				MenuItemID: line.MenuItemID,
				Requested:  line.Quantity,
				Available:  -1,
			}
		}
	}
	return applied, nil
}

func (s *OrderService) releaseGate(ctx context.Context, applied []domain.CartLine) {
	for _, line := range applied {
		if err := s.cache.IncrementStock(ctx, line.MenuItemID, line.Quantity); err != nil {
			s.log.Error("stock gate rollback failed",
				slog.Int64("menu_item_id", line.MenuItemID),
				slog.Int("quantity", line.Quantity),
				slog.Any("error", err),
			)
		}
	}
}

func (s *OrderService) clearIdempotency(ctx context.Context, requestID string) {
	if requestID == "" {
		return
	}
	if err := s.cache.ClearIdempotency(ctx, idempotencyKey(requestID)); err != nil {
		s.log.Warn("idempotency cleanup failed", slog.String("request_id", requestID), slog.Any("error", err))
	}
}

// syncStockMirror pushes authoritative post-commit counts into the cache.
// Failures only degrade the fast-fail gate, never correctness.
func (s *OrderService) syncStockMirror(ctx context.Context, counts map[int64]int) {
	for itemID, left := range counts {
		if err := s.cache.SetStock(ctx, itemID, left); err != nil {
			s.log.Warn("stock mirror sync failed", slog.Int64("menu_item_id", itemID), slog.Any("error", err))
		}
	}
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if req.CustomerID <= 0 {
		return &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if req.RestaurantID <= 0 {
		return &domain.ValidationError{Field: "restaurant_id", Reason: "required"}
	}
	if len(req.Cart) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "at least one item must be ordered"}
	}
	for i, line := range req.Cart {
		if line.MenuItemID <= 0 {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].menu_item_id", i), Reason: "required"}
		}
		if line.Quantity < 1 {
			return &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be at least 1"}
		}
	}
	return nil
}

func idempotencyKey(requestID string) string {
	return "order:req:" + requestID
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
