package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/port"
)

type ReservationService struct {
	store port.ReservationStore
	log   *slog.Logger
	now   func() time.Time
}

func NewReservationService(store port.ReservationStore, log *slog.Logger) *ReservationService {
	if log == nil {
		log = slog.Default()
	}
	return &ReservationService{store: store, log: log, now: time.Now}
}

type CreateReservationRequest struct {
	CustomerID      int64
	RestaurantID    int64
	PartySize       int
	ReservationTime time.Time
	Notes           string
}

func (s *ReservationService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	if req.CustomerID <= 0 {
		return nil, &domain.ValidationError{Field: "customer_id", Reason: "required"}
	}
	if req.RestaurantID <= 0 {
		return nil, &domain.ValidationError{Field: "restaurant_id", Reason: "required"}
	}
	if req.PartySize < 1 {
		return nil, &domain.ValidationError{Field: "party_size", Reason: "must be at least 1"}
	}
	if !req.ReservationTime.After(s.now()) {
		return nil, &domain.ValidationError{Field: "reservation_time", Reason: "must be in the future"}
	}

	now := s.now().UTC()
	res := &domain.Reservation{
		RestaurantID:    req.RestaurantID,
		CustomerID:      req.CustomerID,
		PartySize:       req.PartySize,
		ReservationTime: req.ReservationTime.UTC(),
		Status:          domain.ReservationStatusPending,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.store.CreateReservation(ctx, res)
	if err != nil {
		return nil, err
	}
	res.ID = id

	s.log.Info("reservation created",
		slog.Int64("reservation_id", id),
		slog.Int64("restaurant_id", req.RestaurantID),
		slog.Int("party_size", req.PartySize),
	)
	return res, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	return s.store.GetReservation(ctx, reservationID)
}

func (s *ReservationService) ListRestaurantReservations(ctx context.Context, restaurantID int64, limit, offset int) ([]domain.Reservation, error) {
	limit, offset = clampPage(limit, offset)
	return s.store.ListRestaurantReservations(ctx, restaurantID, limit, offset)
}

func (s *ReservationService) UpdateReservationStatus(ctx context.Context, reservationID int64, to domain.ReservationStatus) (*domain.Reservation, error) {
	if !to.Valid() {
		return nil, &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", to)}
	}

	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidReservationTransition(res.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, res.Status, to)
	}

	// Conditional on the status just read so two racing updates cannot
	// both apply.
	if err := s.store.UpdateReservationStatus(ctx, reservationID, res.Status, to); err != nil {
		return nil, err
	}
	res.Status = to
	return res, nil
}
