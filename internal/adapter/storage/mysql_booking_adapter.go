package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tavolo/ordercore/internal/core/domain"
)

func (m *MySQLAdapter) CreateReservation(ctx context.Context, res *domain.Reservation) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO reservations (restaurant_id, customer_id, party_size, reservation_time, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RestaurantID, res.CustomerID, res.PartySize, res.ReservationTime,
		res.Status, nullString(res.Notes), res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	return scanReservation(m.db.QueryRowContext(ctx, selectReservationQuery+` WHERE id = ?`, reservationID))
}

func (m *MySQLAdapter) ListRestaurantReservations(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Reservation, error) {
	rows, err := m.db.QueryContext(ctx,
		selectReservationQuery+` WHERE restaurant_id = ? ORDER BY reservation_time DESC, id DESC LIMIT ? OFFSET ?`,
		restaurantID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan reservations: %w", err)
	}
	return reservations, nil
}

func (m *MySQLAdapter) UpdateReservationStatus(ctx context.Context, reservationID int64, from, to domain.ReservationStatus) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		to, reservationID, from,
	)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := m.GetReservation(ctx, reservationID); err != nil {
			return err
		}
		return fmt.Errorf("%w: reservation %d is no longer %s", domain.ErrInvalidStatusTransition, reservationID, from)
	}
	return nil
}

func (m *MySQLAdapter) CreatePayment(ctx context.Context, payment *domain.Payment) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO payments (order_id, customer_id, payment_method, amount, transaction_id, payment_details, status, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.OrderID, payment.CustomerID, payment.Method, payment.Amount,
		payment.TransactionID, nullString(payment.Details), payment.Status,
		payment.PaidAt, payment.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	var (
		p       domain.Payment
		details sql.NullString
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, order_id, customer_id, payment_method, amount, transaction_id, payment_details, status, paid_at, created_at
		FROM payments WHERE id = ?`, paymentID,
	).Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Method, &p.Amount,
		&p.TransactionID, &details, &p.Status, &p.PaidAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.Details = details.String
	return &p, nil
}

const selectReservationQuery = `
	SELECT id, restaurant_id, customer_id, party_size, reservation_time, status, notes, created_at, updated_at
	FROM reservations`

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res   domain.Reservation
		notes sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.RestaurantID, &res.CustomerID, &res.PartySize,
		&res.ReservationTime, &res.Status, &notes, &res.CreatedAt, &res.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	res.Notes = notes.String
	return &res, nil
}
