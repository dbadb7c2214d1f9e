package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/port"
)

type MenuService struct {
	store port.MenuStore
	cache port.CacheRepository
	log   *slog.Logger
}

func NewMenuService(store port.MenuStore, cache port.CacheRepository, log *slog.Logger) *MenuService {
	if log == nil {
		log = slog.Default()
	}
	return &MenuService{store: store, cache: cache, log: log}
}

func (s *MenuService) ListMenu(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, &domain.ValidationError{Field: "restaurant_id", Reason: "required"}
	}
	return s.store.ListMenu(ctx, restaurantID)
}

func (s *MenuService) GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	return s.store.GetMenuItem(ctx, menuItemID)
}

// CreateMenuItem adds an item to the calling owner's menu. The restaurant id
// comes from the resolved session, not from the payload.
func (s *MenuService) CreateMenuItem(ctx context.Context, restaurantID int64, item domain.MenuItem) (*domain.MenuItem, error) {
	if restaurantID <= 0 {
		return nil, &domain.ValidationError{Field: "restaurant_id", Reason: "required"}
	}
	item.RestaurantID = restaurantID
	if item.Status == "" {
		item.Status = domain.MenuItemStatusActive
	}
	if err := validateMenuItem(&item); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	id, err := s.store.CreateMenuItem(ctx, &item)
	if err != nil {
		return nil, err
	}
	item.ID = id

	s.mirrorStock(ctx, item.ID, item.Stock)
	s.log.Info("menu item created",
		slog.Int64("menu_item_id", item.ID),
		slog.Int64("restaurant_id", restaurantID),
		slog.String("name", item.Name),
	)
	return &item, nil
}

// MenuItemUpdate is a partial update; nil fields are left unchanged.
type MenuItemUpdate struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Price       *decimal.Decimal
	Stock       *int
	IsAvailable *bool
	SortOrder   *int
	Status      *domain.MenuItemStatus
}

func (s *MenuService) UpdateMenuItem(ctx context.Context, restaurantID, menuItemID int64, upd MenuItemUpdate) (*domain.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != restaurantID {
		return nil, domain.ErrNotRestaurantOwner
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.CategoryID != nil {
		item.CategoryID = *upd.CategoryID
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Stock != nil {
		item.Stock = *upd.Stock
	}
	if upd.IsAvailable != nil {
		item.IsAvailable = *upd.IsAvailable
	}
	if upd.SortOrder != nil {
		item.SortOrder = *upd.SortOrder
	}
	if upd.Status != nil {
		item.Status = *upd.Status
	}
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	s.mirrorStock(ctx, item.ID, item.Stock)
	return item, nil
}

func (s *MenuService) mirrorStock(ctx context.Context, menuItemID int64, stock int) {
	if err := s.cache.SetStock(ctx, menuItemID, stock); err != nil {
		s.log.Warn("stock mirror sync failed", slog.Int64("menu_item_id", menuItemID), slog.Any("error", err))
	}
}

func validateMenuItem(item *domain.MenuItem) error {
	if item.Name == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if item.CategoryID <= 0 {
		return &domain.ValidationError{Field: "menu_category_id", Reason: "required"}
	}
	if !item.Price.IsPositive() {
		return &domain.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if item.Stock < 0 {
		return &domain.ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	switch item.Status {
	case domain.MenuItemStatusActive, domain.MenuItemStatusInactive:
	default:
		return &domain.ValidationError{Field: "status", Reason: "must be active or inactive"}
	}
	return nil
}
