package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/port"
)

type PaymentService struct {
	payments port.PaymentStore
	orders   port.OrderStore
	log      *slog.Logger
}

func NewPaymentService(payments port.PaymentStore, orders port.OrderStore, log *slog.Logger) *PaymentService {
	if log == nil {
		log = slog.Default()
	}
	return &PaymentService{payments: payments, orders: orders, log: log}
}

type RecordPaymentRequest struct {
	OrderID    int64
	CustomerID int64
	Method     domain.PaymentMethod
	Amount     decimal.Decimal
	Details    string
}

// RecordPayment settles an order instantly. There is no gateway round trip;
// the payment completes with a generated transaction token.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*domain.Payment, error) {
	if req.CustomerID <= 0 {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if !req.Method.Valid() {
		return nil, &domain.ValidationError{Field: "payment_method", Reason: fmt.Sprintf("unknown method %q", req.Method)}
	}

	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusCancelled {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "order is cancelled"}
	}
	if !req.Amount.Equal(order.TotalAmount) {
		return nil, &domain.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("must equal order total %s", order.TotalAmount.StringFixed(2)),
		}
	}

	now := time.Now().UTC()
	p := &domain.Payment{
		OrderID:       order.ID,
		CustomerID:    req.CustomerID,
		Method:        req.Method,
		Amount:        req.Amount,
		TransactionID: newTransactionID(),
		Details:       req.Details,
		Status:        domain.PaymentStatusCompleted,
		PaidAt:        now,
		CreatedAt:     now,
	}

	id, err := s.payments.CreatePayment(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	s.log.Info("payment recorded",
		slog.String("transaction_id", p.TransactionID),
		slog.String("order_number", order.OrderNumber),
		slog.String("amount", p.Amount.StringFixed(2)),
	)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	return s.payments.GetPayment(ctx, paymentID)
}
