package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/core/domain"
)

type fakeMenuStore struct {
	mu     sync.Mutex
	items  map[int64]*domain.MenuItem
	nextID int64
}

func newFakeMenuStore(items ...*domain.MenuItem) *fakeMenuStore {
	s := &fakeMenuStore{items: make(map[int64]*domain.MenuItem)}
	for _, item := range items {
		s.items[item.ID] = item
		if item.ID > s.nextID {
			s.nextID = item.ID
		}
	}
	return s
}

func (s *fakeMenuStore) ListMenu(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.MenuItem
	for _, item := range s.items {
		if item.RestaurantID == restaurantID && item.Status == domain.MenuItemStatusActive {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *fakeMenuStore) GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[menuItemID]
	if !ok {
		return nil, domain.ErrMenuItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *fakeMenuStore) CreateMenuItem(ctx context.Context, item *domain.MenuItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *item
	cp.ID = s.nextID
	s.items[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeMenuStore) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrMenuItemNotFound
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func TestCreateMenuItem(t *testing.T) {
	store := newFakeMenuStore()
	cache := newFakeCache()
	svc := NewMenuService(store, cache, nil)

	item, err := svc.CreateMenuItem(context.Background(), 1, domain.MenuItem{
		CategoryID:  1,
		Name:        "Margherita",
		Price:       decimal.RequireFromString("11.50"),
		Stock:       15,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("CreateMenuItem failed: %v", err)
	}

	if item.ID == 0 {
		t.Error("expected an assigned id")
	}
	if item.RestaurantID != 1 {
		t.Errorf("restaurant id must come from the session, got %d", item.RestaurantID)
	}
	if item.Status != domain.MenuItemStatusActive {
		t.Errorf("expected default active status, got %s", item.Status)
	}
	if got := cache.stockOf(item.ID); got != 15 {
		t.Errorf("expected stock mirrored to 15, got %d", got)
	}
}

func TestCreateMenuItem_Validation(t *testing.T) {
	valid := func() domain.MenuItem {
		return domain.MenuItem{
			CategoryID:  1,
			Name:        "Margherita",
			Price:       decimal.RequireFromString("11.50"),
			Stock:       15,
			IsAvailable: true,
		}
	}

	tests := []struct {
		name   string
		mutate func(*domain.MenuItem)
		field  string
	}{
		{"empty name", func(m *domain.MenuItem) { m.Name = "" }, "name"},
		{"missing category", func(m *domain.MenuItem) { m.CategoryID = 0 }, "menu_category_id"},
		{"zero price", func(m *domain.MenuItem) { m.Price = decimal.Zero }, "price"},
		{"negative price", func(m *domain.MenuItem) { m.Price = decimal.RequireFromString("-1") }, "price"},
		{"negative stock", func(m *domain.MenuItem) { m.Stock = -1 }, "stock"},
		{"bogus status", func(m *domain.MenuItem) { m.Status = "archived" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewMenuService(newFakeMenuStore(), newFakeCache(), nil)
			item := valid()
			tt.mutate(&item)

			_, err := svc.CreateMenuItem(context.Background(), 1, item)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestUpdateMenuItem(t *testing.T) {
	existing := testMenuItem(3, "Margherita", "11.50", 15)
	store := newFakeMenuStore(existing)
	cache := newFakeCache()
	svc := NewMenuService(store, cache, nil)

	newPrice := decimal.RequireFromString("12.00")
	newStock := 8
	item, err := svc.UpdateMenuItem(context.Background(), 1, 3, MenuItemUpdate{
		Price: &newPrice,
		Stock: &newStock,
	})
	if err != nil {
		t.Fatalf("UpdateMenuItem failed: %v", err)
	}

	if got := item.Price.StringFixed(2); got != "12.00" {
		t.Errorf("expected price 12.00, got %s", got)
	}
	if item.Stock != 8 {
		t.Errorf("expected stock 8, got %d", item.Stock)
	}
	if item.Name != "Margherita" {
		t.Errorf("untouched fields must survive, got name %q", item.Name)
	}
	if got := cache.stockOf(3); got != 8 {
		t.Errorf("expected stock mirrored to 8, got %d", got)
	}
}

func TestUpdateMenuItem_WrongOwner(t *testing.T) {
	store := newFakeMenuStore(testMenuItem(3, "Margherita", "11.50", 15))
	svc := NewMenuService(store, newFakeCache(), nil)

	name := "Hijacked"
	_, err := svc.UpdateMenuItem(context.Background(), 2, 3, MenuItemUpdate{Name: &name})
	if !errors.Is(err, domain.ErrNotRestaurantOwner) {
		t.Errorf("expected ErrNotRestaurantOwner, got: %v", err)
	}

	item, _ := store.GetMenuItem(context.Background(), 3)
	if item.Name != "Margherita" {
		t.Errorf("item must be unchanged, got name %q", item.Name)
	}
}

func TestUpdateMenuItem_NotFound(t *testing.T) {
	svc := NewMenuService(newFakeMenuStore(), newFakeCache(), nil)

	name := "Ghost"
	_, err := svc.UpdateMenuItem(context.Background(), 1, 42, MenuItemUpdate{Name: &name})
	if !errors.Is(err, domain.ErrMenuItemNotFound) {
		t.Errorf("expected ErrMenuItemNotFound, got: %v", err)
	}
}

func TestListMenu_RequiresRestaurant(t *testing.T) {
	svc := NewMenuService(newFakeMenuStore(), newFakeCache(), nil)

	_, err := svc.ListMenu(context.Background(), 0)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got: %v", err)
	}
}
