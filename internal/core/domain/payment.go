package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodEWallet      PaymentMethod = "e_wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodEWallet:
		return true
	}
	return false
}

// Payment records a settled order payment. There is no gateway behind this:
// payments complete instantly with a generated transaction token.
type Payment struct {
	ID            int64
	OrderID       int64
	CustomerID    int64
	Method        PaymentMethod
	Amount        decimal.Decimal
	TransactionID string
	Details       string
	Status        string
	PaidAt        time.Time
	CreatedAt     time.Time
}

const PaymentStatusCompleted = "completed"
