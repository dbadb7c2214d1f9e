package port

import (
	"context"

	"github.com/tavolo/ordercore/internal/core/domain"
)

type MenuStore interface {
	// ListMenu returns a restaurant's active menu items ordered for display.
	ListMenu(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error)

	GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error)

	CreateMenuItem(ctx context.Context, item *domain.MenuItem) (int64, error)

	UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error
}
