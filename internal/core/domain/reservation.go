package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

func ValidReservationTransition(from, to ReservationStatus) bool {
	switch from {
	case ReservationStatusPending:
		return to == ReservationStatusConfirmed || to == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return to == ReservationStatusCompleted || to == ReservationStatusCancelled
	}
	return false
}

type Reservation struct {
	ID              int64
	RestaurantID    int64
	CustomerID      int64
	PartySize       int
	ReservationTime time.Time
	Status          ReservationStatus
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
