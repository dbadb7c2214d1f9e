package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
)

// catalogReader is the read side of the order path. port.OrderTx satisfies it.
type catalogReader interface {
	LookupMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItemSnapshot, error)
}

// orderDraft holds priced line items and totals before anything is persisted.
type orderDraft struct {
	Items    []domain.OrderItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// buildDraft resolves every cart line against the catalog and prices the
// order. Prices and names come exclusively from the catalog snapshot, never
// from the client. All rounding is half-up to cents.
//
// The stock check here is advisory; ReserveStock re-checks authoritatively
// under the same transaction before anything commits.
func buildDraft(ctx context.Context, cart []domain.CartLine, catalog catalogReader, taxRate decimal.Decimal) (*orderDraft, error) {
	draft := &orderDraft{
		Items:    make([]domain.OrderItem, 0, len(cart)),
		Subtotal: decimal.Zero,
	}

	for _, line := range cart {
		snap, err := catalog.LookupMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrMenuItemNotFound) {
				return nil, fmt.Errorf("menu item %d: %w", line.MenuItemID, err)
			}
			return nil, fmt.Errorf("lookup menu item %d: %w", line.MenuItemID, err)
		}
		if !snap.Orderable() {
			return nil, &domain.ValidationError{
				Field:  "items",
				Reason: fmt.Sprintf("menu item %d is not available", snap.ID),
			}
		}
		if snap.Stock < line.Quantity {
			return nil, &domain.InsufficientStockError{
				MenuItemID: snap.ID,
				Requested:  line.Quantity,
				Available:  snap.Stock,
			}
		}

		lineTotal := snap.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		draft.Items = append(draft.Items, domain.OrderItem{
			MenuItemID:          snap.ID,
			ItemName:            snap.Name,
			ItemPrice:           snap.Price,
			Quantity:            line.Quantity,
			TotalPrice:          lineTotal,
			SpecialInstructions: line.SpecialInstructions,
		})
		draft.Subtotal = draft.Subtotal.Add(lineTotal)
	}

	draft.Tax = draft.Subtotal.Mul(taxRate).Round(2)
	draft.Total = draft.Subtotal.Add(draft.Tax)
	return draft, nil
}
