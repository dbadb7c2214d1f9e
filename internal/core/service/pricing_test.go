package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
)

// mapCatalog is a minimal catalogReader for pricing tests.
type mapCatalog map[int64]*domain.MenuItem

func (c mapCatalog) LookupMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItemSnapshot, error) {
	item, ok := c[menuItemID]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	snap := item.Snapshot()
	return &snap, nil
}

func TestBuildDraft_Totals(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		quantity int
		subtotal string
		tax      string
		total    string
	}{
		{"plain", "10.00", 1, "10.00", "1.00", "11.00"},
		{"tax rounds half up", "0.05", 1, "0.05", "0.01", "0.06"},
		{"tax rounds up from 0.999", "3.33", 3, "9.99", "1.00", "10.99"},
		{"tax rounds down", "0.04", 1, "0.04", "0.00", "0.04"},
		{"single salmon", "28.99", 1, "28.99", "2.90", "31.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := mapCatalog{1: testMenuItem(1, "Item", tt.price, 100)}
			draft, err := buildDraft(context.Background(),
				[]domain.CartLine{{MenuItemID: 1, Quantity: tt.quantity}},
				catalog, testTaxRate)
			if err != nil {
				t.Fatalf("buildDraft failed: %v", err)
			}

			if got := draft.Subtotal.StringFixed(2); got != tt.subtotal {
				t.Errorf("subtotal: expected %s, got %s", tt.subtotal, got)
			}
			if got := draft.Tax.StringFixed(2); got != tt.tax {
				t.Errorf("tax: expected %s, got %s", tt.tax, got)
			}
			if got := draft.Total.StringFixed(2); got != tt.total {
				t.Errorf("total: expected %s, got %s", tt.total, got)
			}
			if !draft.Total.Equal(draft.Subtotal.Add(draft.Tax)) {
				t.Error("total must equal subtotal plus tax")
			}
		})
	}
}

func TestBuildDraft_MultiLine(t *testing.T) {
	catalog := mapCatalog{
		1: testMenuItem(1, "Grilled Salmon", "28.99", 20),
		2: testMenuItem(2, "Tiramisu", "8.99", 20),
	}

	draft, err := buildDraft(context.Background(), []domain.CartLine{
		{MenuItemID: 1, Quantity: 1},
		{MenuItemID: 2, Quantity: 2},
	}, catalog, testTaxRate)
	if err != nil {
		t.Fatalf("buildDraft failed: %v", err)
	}

	if got := draft.Subtotal.StringFixed(2); got != "46.97" {
		t.Errorf("expected subtotal 46.97, got %s", got)
	}
	if got := draft.Tax.StringFixed(2); got != "4.70" {
		t.Errorf("expected tax 4.70, got %s", got)
	}
	if got := draft.Total.StringFixed(2); got != "51.67" {
		t.Errorf("expected total 51.67, got %s", got)
	}
}

func TestBuildDraft_SnapshotsCatalogPricing(t *testing.T) {
	catalog := mapCatalog{1: testMenuItem(1, "Tiramisu", "8.99", 20)}

	draft, err := buildDraft(context.Background(),
		[]domain.CartLine{{MenuItemID: 1, Quantity: 2, SpecialInstructions: "extra cocoa"}},
		catalog, testTaxRate)
	if err != nil {
		t.Fatalf("buildDraft failed: %v", err)
	}

	line := draft.Items[0]
	if line.ItemName != "Tiramisu" {
		t.Errorf("expected snapshotted name, got %q", line.ItemName)
	}
	if got := line.ItemPrice.StringFixed(2); got != "8.99" {
		t.Errorf("expected snapshotted price 8.99, got %s", got)
	}
	if got := line.TotalPrice.StringFixed(2); got != "17.98" {
		t.Errorf("expected line total 17.98, got %s", got)
	}
	if line.SpecialInstructions != "extra cocoa" {
		t.Errorf("expected instructions kept, got %q", line.SpecialInstructions)
	}

	// Changing the catalog afterwards must not affect the draft.
	catalog[1].Price = decimal.RequireFromString("99.99")
	if got := line.ItemPrice.StringFixed(2); got != "8.99" {
		t.Errorf("draft price must be a copy, got %s", got)
	}
}

func TestBuildDraft_Failures(t *testing.T) {
	unavailable := testMenuItem(2, "Off Menu", "5.00", 10)
	unavailable.IsAvailable = false
	catalog := mapCatalog{
		1: testMenuItem(1, "Burger", "9.99", 2),
		2: unavailable,
	}

	t.Run("unknown item", func(t *testing.T) {
		_, err := buildDraft(context.Background(),
			[]domain.CartLine{{MenuItemID: 42, Quantity: 1}}, catalog, testTaxRate)
		if !errors.Is(err, domain.ErrMenuItemNotFound) {
			t.Errorf("expected ErrMenuItemNotFound, got: %v", err)
		}
	})

	t.Run("unavailable item", func(t *testing.T) {
		_, err := buildDraft(context.Background(),
			[]domain.CartLine{{MenuItemID: 2, Quantity: 1}}, catalog, testTaxRate)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got: %v", err)
		}
	})

	t.Run("advisory stock check", func(t *testing.T) {
		_, err := buildDraft(context.Background(),
			[]domain.CartLine{{MenuItemID: 1, Quantity: 3}}, catalog, testTaxRate)
		var stockErr *domain.InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got: %v", err)
		}
		if stockErr.Requested != 3 || stockErr.Available != 2 {
			t.Errorf("unexpected detail: %+v", stockErr)
		}
	})
}
