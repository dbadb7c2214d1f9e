package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/port"
)

// MySQL error 1062: duplicate entry for a unique key.
const mysqlErrDupEntry = 1062

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) WithinTx(ctx context.Context, fn func(tx port.OrderTx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := scanOrder(m.db.QueryRowContext(ctx, selectOrderQuery+` WHERE id = ?`, orderID))
	if err != nil {
		return nil, err
	}
	items, err := loadOrderItems(ctx, m.db, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (m *MySQLAdapter) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	return m.listOrders(ctx, `customer_id`, customerID, limit, offset)
}

func (m *MySQLAdapter) ListRestaurantOrders(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Order, error) {
	return m.listOrders(ctx, `restaurant_id`, restaurantID, limit, offset)
}

func (m *MySQLAdapter) listOrders(ctx context.Context, column string, id int64, limit, offset int) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx,
		selectOrderQuery+` WHERE `+column+` = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		id, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	return orders, nil
}

// orderTx implements port.OrderTx over a live *sql.Tx.
type orderTx struct {
	tx *sql.Tx
}

func (t *orderTx) LookupMenuItem(ctx context.Context, menuItemID int64) (*domain.MenuItemSnapshot, error) {
	var snap domain.MenuItemSnapshot
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, price, stock, is_available, status
		FROM menu_items WHERE id = ?`, menuItemID,
	).Scan(&snap.ID, &snap.Name, &snap.Price, &snap.Stock, &snap.IsAvailable, &snap.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	return &snap, nil
}

func (t *orderTx) ReserveStock(ctx context.Context, menuItemID int64, quantity int) (int, error) {
	// Conditional decrement: the WHERE clause is what makes concurrent
	// reservations serialize correctly without an explicit row lock.
	result, err := t.tx.ExecContext(ctx, `
		UPDATE menu_items
		SET stock = stock - ?, updated_at = NOW()
		WHERE id = ? AND stock >= ?`,
		quantity, menuItemID, quantity,
	)
	if err != nil {
		return 0, fmt.Errorf("reserve stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var available int
		err := t.tx.QueryRowContext(ctx, `SELECT stock FROM menu_items WHERE id = ?`, menuItemID).Scan(&available)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrMenuItemNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("query stock: %w", err)
		}
		return 0, &domain.InsufficientStockError{
			MenuItemID: menuItemID,
			Requested:  quantity,
			Available:  available,
		}
	}

	var remaining int
	if err := t.tx.QueryRowContext(ctx, `SELECT stock FROM menu_items WHERE id = ?`, menuItemID).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return remaining, nil
}

func (t *orderTx) ReleaseStock(ctx context.Context, menuItemID int64, quantity int) (int, error) {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE menu_items
		SET stock = stock + ?, updated_at = NOW()
		WHERE id = ?`,
		quantity, menuItemID,
	)
	if err != nil {
		return 0, fmt.Errorf("release stock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrMenuItemNotFound
	}

	var remaining int
	if err := t.tx.QueryRowContext(ctx, `SELECT stock FROM menu_items WHERE id = ?`, menuItemID).Scan(&remaining); err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return remaining, nil
}

func (t *orderTx) InsertOrder(ctx context.Context, order *domain.Order) (int64, error) {
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (restaurant_id, customer_id, order_number, subtotal, tax_amount, total_amount, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.RestaurantID, order.CustomerID, order.OrderNumber,
		order.Subtotal, order.TaxAmount, order.TotalAmount,
		order.Status, nullString(order.Notes), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDupEntry {
			return 0, domain.ErrDuplicateOrderNumber
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return result.LastInsertId()
}

func (t *orderTx) InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	for _, item := range items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, item_name, item_price, quantity, total_price, special_instructions)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.MenuItemID, item.ItemName, item.ItemPrice,
			item.Quantity, item.TotalPrice, nullString(item.SpecialInstructions),
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (t *orderTx) GetOrderForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := scanOrder(t.tx.QueryRowContext(ctx, selectOrderQuery+` WHERE id = ? FOR UPDATE`, orderID))
	if err != nil {
		return nil, err
	}
	items, err := loadOrderItems(ctx, t.tx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (t *orderTx) SetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?`,
		status, orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

const selectOrderQuery = `
	SELECT id, restaurant_id, customer_id, order_number, subtotal, tax_amount, total_amount, status, notes, created_at, updated_at
	FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o     domain.Order
		notes sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.CustomerID, &o.OrderNumber,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount,
		&o.Status, &notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Notes = notes.String
	return &o, nil
}

func loadOrderItems(ctx context.Context, q queryer, orderID int64) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, item_name, item_price, quantity, total_price, special_instructions
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item         domain.OrderItem
			instructions sql.NullString
		)
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName,
			&item.ItemPrice, &item.Quantity, &item.TotalPrice, &instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.SpecialInstructions = instructions.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan order items: %w", err)
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
