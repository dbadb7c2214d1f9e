package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItemStatus string

const (
	MenuItemStatusActive   MenuItemStatus = "active"
	MenuItemStatusInactive MenuItemStatus = "inactive"
)

type MenuItem struct {
	ID           int64
	RestaurantID int64
	CategoryID   int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Stock        int
	IsAvailable  bool
	SortOrder    int
	Status       MenuItemStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MenuItemSnapshot is the immutable view of a menu item taken at order time.
// Order lines copy name and price from it so later menu edits never touch
// committed orders.
type MenuItemSnapshot struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Stock       int
	IsAvailable bool
	Status      MenuItemStatus
}

// Orderable reports whether the item can appear on a new order at all.
// Stock is checked separately because it depends on the requested quantity.
func (s MenuItemSnapshot) Orderable() bool {
	return s.IsAvailable && s.Status == MenuItemStatusActive
}

// Snapshot freezes the orderable view of the item.
func (m *MenuItem) Snapshot() MenuItemSnapshot {
	return MenuItemSnapshot{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Stock:       m.Stock,
		IsAvailable: m.IsAvailable,
		Status:      m.Status,
	}
}
