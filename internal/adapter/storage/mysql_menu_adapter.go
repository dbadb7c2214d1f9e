package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tavolo/ordercore/internal/core/domain"
)

const selectMenuItemQuery = `
	SELECT id, restaurant_id, menu_category_id, name, description, price, stock, is_available, sort_order, status, created_at, updated_at
	FROM menu_items`

func (m *MySQLAdapter) ListMenu(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	rows, err := m.db.QueryContext(ctx,
		selectMenuItemQuery+` WHERE restaurant_id = ? AND status = 'active' ORDER BY sort_order, id`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query menu: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan menu: %w", err)
	}
	return items, nil
}

func (m *MySQLAdapter) GetMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItem, error) {
	return scanMenuItem(m.db.QueryRowContext(ctx, selectMenuItemQuery+` WHERE id = ?`, menuItemID))
}

func (m *MySQLAdapter) CreateMenuItem(ctx context.Context, item *domain.MenuItem) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO menu_items (restaurant_id, menu_category_id, name, description, price, stock, is_available, sort_order, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.RestaurantID, item.CategoryID, item.Name, nullString(item.Description),
		item.Price, item.Stock, item.IsAvailable, item.SortOrder, item.Status,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert menu item: %w", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) UpdateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE menu_items
		SET menu_category_id = ?, name = ?, description = ?, price = ?, stock = ?, is_available = ?, sort_order = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		item.CategoryID, item.Name, nullString(item.Description), item.Price,
		item.Stock, item.IsAvailable, item.SortOrder, item.Status,
		item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

func scanMenuItem(row rowScanner) (*domain.MenuItem, error) {
	var (
		item        domain.MenuItem
		description sql.NullString
	)
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.CategoryID, &item.Name, &description,
		&item.Price, &item.Stock, &item.IsAvailable, &item.SortOrder, &item.Status,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	item.Description = description.String
	return &item, nil
}
