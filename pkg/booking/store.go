package booking

import (
	"context"
	"time"
)

// Store is the persistence surface the booking service depends on.
//
// InsertReservation must be backed by a uniqueness constraint over
// (table, date, time) restricted to active statuses and report a violation
// as ErrSlotTaken; the service-level occupancy read is only a fast path.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error
	GetTable(ctx context.Context, tableID TableID) (Table, error)
	CountActiveReservations(ctx context.Context, tableID TableID, date SlotDate, slotTime SlotTime) (int64, error)
	InsertReservation(ctx context.Context, input ReservationInput, status ReservationStatus) (Reservation, error)
	GetReservation(ctx context.Context, reservationID ReservationID) (ReservationDetail, error)
	GetReservationOwned(ctx context.Context, reservationID ReservationID, userID UserID) (ReservationDetail, error)
	ListUserReservations(ctx context.Context, userID UserID) ([]ReservationDetail, error)
	ListReservations(ctx context.Context, filter AdminFilter) ([]ReservationDetail, error)
	UpdateReservationStatus(ctx context.Context, reservationID ReservationID, from ReservationStatus, to ReservationStatus) (Reservation, error)
	ListAvailableTables(ctx context.Context, restaurantID RestaurantID, date SlotDate, slotTime SlotTime, minCapacity int) ([]Table, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}

// Clock supplies the current time; injected so date buckets are testable.
type Clock func() time.Time
