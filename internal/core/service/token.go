package service

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// newOrderNumber returns a human-readable order number backed by random UUID
// bytes. Uniqueness is enforced by the orders.order_number index; PlaceOrder
// retries once with a fresh number on a collision.
func newOrderNumber() string {
	u := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(u[:5]))
}

// newTransactionID returns a payment transaction token.
func newTransactionID() string {
	u := uuid.New()
	return "TXN-" + strings.ToUpper(hex.EncodeToString(u[:5]))
}
