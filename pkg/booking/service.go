package booking

import (
	"context"
	"errors"
	"fmt"
)

const (
	operationCreate     = "create_reservation"
	operationUpdate     = "update_status"
	operationBulkUpdate = "bulk_update_status"
	operationCancel     = "cancel_reservation"
)

// Service contains the reservation domain logic over a Store.
type Service struct {
	store  Store
	nowFn  Clock
	logger OperationLogger
}

// NewService wires a Service.
func NewService(store Store, now Clock, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// CreateReservation books a table slot, inserting a pending reservation.
//
// The occupancy read is an early exit only; the storage constraint decides
// races between concurrent identical requests, so the loser of a race still
// receives ErrSlotTaken from the insert.
func (service *Service) CreateReservation(ctx context.Context, input ReservationInput) (Reservation, error) {
	var created Reservation
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		table, err := transactionStore.GetTable(ctx, input.TableID)
		if err != nil {
			return err
		}
		if table.RestaurantID != input.RestaurantID {
			return fmt.Errorf("%w: table %s", ErrTableWrongRestaurant, input.TableID.String())
		}
		if table.Status != TableAvailable {
			return fmt.Errorf("%w: table %s", ErrTableUnavailable, input.TableID.String())
		}
		if input.PartySize.Int() > table.Capacity {
			return fmt.Errorf("%w: party of %d on a table for %d", ErrPartyTooLarge, input.PartySize.Int(), table.Capacity)
		}
		occupied, err := transactionStore.CountActiveReservations(ctx, input.TableID, input.Date, input.Time)
		if err != nil {
			return err
		}
		if occupied > 0 {
			return ErrSlotTaken
		}
		created, err = transactionStore.InsertReservation(ctx, input, StatusPending)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation:     operationCreate,
		UserID:        input.UserID,
		ReservationID: created.ID,
		TableID:       input.TableID,
		Date:          input.Date,
		Time:          input.Time,
		Status:        StatusPending,
		Error:         operationError,
	})
	if operationError != nil {
		return Reservation{}, operationError
	}
	return created, nil
}

// UpdateStatus drives an admin transition through the status state machine.
func (service *Service) UpdateStatus(ctx context.Context, reservationID ReservationID, target ReservationStatus) (Reservation, error) {
	var updated Reservation
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		current, err := transactionStore.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !current.Status.AdminCanTransition(target) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, target)
		}
		updated, err = transactionStore.UpdateReservationStatus(ctx, reservationID, current.Status, target)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation:     operationUpdate,
		ReservationID: reservationID,
		Status:        target,
		Error:         operationError,
	})
	if operationError != nil {
		return Reservation{}, operationError
	}
	return updated, nil
}

// Cancel performs a customer self-cancel, allowed only while pending.
func (service *Service) Cancel(ctx context.Context, reservationID ReservationID, userID UserID) (Reservation, error) {
	var cancelled Reservation
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		current, err := transactionStore.GetReservationOwned(ctx, reservationID, userID)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return fmt.Errorf("%w: status is %s", ErrNotCancellable, current.Status)
		}
		cancelled, err = transactionStore.UpdateReservationStatus(ctx, reservationID, StatusPending, StatusCancelled)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation:     operationCancel,
		UserID:        userID,
		ReservationID: reservationID,
		Status:        StatusCancelled,
		Error:         operationError,
	})
	if operationError != nil {
		return Reservation{}, operationError
	}
	return cancelled, nil
}

// BulkUpdateStatus applies an admin transition to each id on a best-effort
// basis. Unknown ids and reservations that cannot take the transition are
// skipped; the result reports only what actually changed.
func (service *Service) BulkUpdateStatus(ctx context.Context, reservationIDs []ReservationID, target ReservationStatus) (int, []Reservation, error) {
	if _, err := ParseReservationStatus(target.String()); err != nil {
		return 0, nil, err
	}
	updated := make([]Reservation, 0, len(reservationIDs))
	for _, reservationID := range reservationIDs {
		var row Reservation
		err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
			current, err := transactionStore.GetReservation(ctx, reservationID)
			if err != nil {
				return err
			}
			if !current.Status.IsActive() {
				return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, target)
			}
			row, err = transactionStore.UpdateReservationStatus(ctx, reservationID, current.Status, target)
			return err
		})
		if err != nil {
			if errors.Is(err, ErrReservationNotFound) || errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return len(updated), updated, err
		}
		updated = append(updated, row)
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationBulkUpdate,
		Status:    target,
	})
	return len(updated), updated, nil
}

// ListForUser returns the caller's reservations, most recent slot first.
func (service *Service) ListForUser(ctx context.Context, userID UserID) ([]ReservationDetail, error) {
	return service.store.ListUserReservations(ctx, userID)
}

// GetForUser returns a single reservation, gated to its owner.
func (service *Service) GetForUser(ctx context.Context, reservationID ReservationID, userID UserID) (ReservationDetail, error) {
	return service.store.GetReservationOwned(ctx, reservationID, userID)
}

// GetForAdmin returns a single reservation with customer and table detail.
func (service *Service) GetForAdmin(ctx context.Context, reservationID ReservationID) (ReservationDetail, error) {
	return service.store.GetReservation(ctx, reservationID)
}

// ListForAdmin returns reservations across all users, optionally narrowed by
// status and a date bucket computed against the server's current date.
func (service *Service) ListForAdmin(ctx context.Context, status ReservationStatus, bucket DateBucket) ([]ReservationDetail, error) {
	filter := AdminFilter{Status: status}
	if from, to, constrained := bucket.Range(service.nowFn()); constrained {
		filter.FromDate = from
		filter.ToDate = to
		filter.HasDates = true
	}
	return service.store.ListReservations(ctx, filter)
}

// AvailableTables lists tables of the restaurant that can seat the party at
// the requested slot, smallest sufficient capacity first.
func (service *Service) AvailableTables(ctx context.Context, restaurantID RestaurantID, date SlotDate, slotTime SlotTime, partySize PartySize) ([]Table, error) {
	return service.store.ListAvailableTables(ctx, restaurantID, date, slotTime, partySize.Int())
}

// StatusCounts aggregates reservation totals for the dashboard.
func (service *Service) StatusCounts(ctx context.Context) (StatusCounts, error) {
	return service.store.CountByStatus(ctx)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	service.logger.LogOperation(ctx, entry)
}
