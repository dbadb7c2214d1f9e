package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSnapshotOrderable(t *testing.T) {
	tests := []struct {
		name      string
		available bool
		status    MenuItemStatus
		orderable bool
	}{
		{"available and active", true, MenuItemStatusActive, true},
		{"unavailable", false, MenuItemStatusActive, false},
		{"inactive", true, MenuItemStatusInactive, false},
		{"unavailable and inactive", false, MenuItemStatusInactive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := MenuItem{
				ID:          1,
				Name:        "Burger",
				Price:       decimal.RequireFromString("9.99"),
				Stock:       5,
				IsAvailable: tt.available,
				Status:      tt.status,
			}
			if got := item.Snapshot().Orderable(); got != tt.orderable {
				t.Errorf("Orderable() = %v, want %v", got, tt.orderable)
			}
		})
	}
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{MenuItemID: 3, Requested: 5, Available: 2}
	want := "insufficient stock for menu item 3: requested 5, available 2"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	gate := &InsufficientStockError{MenuItemID: 3, Requested: 5, Available: -1}
	want = "insufficient stock for menu item 3: requested 5"
	if gate.Error() != want {
		t.Errorf("got %q, want %q", gate.Error(), want)
	}
}
