package port

import (
	"context"

	"github.com/tavolo/ordercore/internal/core/domain"
)

type ReservationStore interface {
	CreateReservation(ctx context.Context, res *domain.Reservation) (int64, error)

	GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error)

	ListRestaurantReservations(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Reservation, error)

	// UpdateReservationStatus moves a reservation from one status to
	// another, failing with ErrInvalidStatusTransition when the stored
	// status no longer matches from.
	UpdateReservationStatus(ctx context.Context, reservationID int64, from, to domain.ReservationStatus) error
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *domain.Payment) (int64, error)

	GetPayment(ctx context.Context, paymentID int64) (*domain.Payment, error)
}
