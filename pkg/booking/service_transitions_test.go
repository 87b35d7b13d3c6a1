package booking

import (
	"context"
	"errors"
	"testing"
)

func seedReservation(t *testing.T, service *Service, store *stubStore, status ReservationStatus) Reservation {
	t.Helper()
	created, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1"))
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if status == StatusPending {
		return created
	}
	updated, err := service.UpdateStatus(context.Background(), created.ID, status)
	if err != nil {
		t.Fatalf("seed transition to %s: %v", status, err)
	}
	return updated
}

func TestUpdateStatusAllowsMachineEdges(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		from ReservationStatus
		to   ReservationStatus
	}{
		{name: "pending confirmed", from: StatusPending, to: StatusConfirmed},
		{name: "pending rejected", from: StatusPending, to: StatusRejected},
		{name: "pending cancelled", from: StatusPending, to: StatusCancelled},
		{name: "confirmed cancelled", from: StatusConfirmed, to: StatusCancelled},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			store := newStubStore()
			store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
			service := mustNewService(t, store)
			reservation := seedReservation(t, service, store, testCase.from)

			updated, err := service.UpdateStatus(context.Background(), reservation.ID, testCase.to)
			if err != nil {
				t.Fatalf("transition %s to %s: %v", testCase.from, testCase.to, err)
			}
			if updated.Status != testCase.to {
				t.Fatalf("expected status %s, got %s", testCase.to, updated.Status)
			}
		})
	}
}

func TestUpdateStatusRejectsTerminalStates(t *testing.T) {
	t.Parallel()
	for _, terminal := range []ReservationStatus{StatusRejected, StatusCancelled} {
		for _, target := range []ReservationStatus{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled} {
			store := newStubStore()
			store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
			service := mustNewService(t, store)
			reservation := seedReservation(t, service, store, terminal)

			_, err := service.UpdateStatus(context.Background(), reservation.ID, target)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition from %s to %s, got %v", terminal, target, err)
			}
		}
	}
}

func TestUpdateStatusUnknownReservation(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	service := mustNewService(t, store)

	_, err := service.UpdateStatus(context.Background(), ReservationID{value: "missing"}, StatusConfirmed)
	if !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCancelRequiresPendingStatus(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)
	reservation := seedReservation(t, service, store, StatusConfirmed)

	_, err := service.Cancel(context.Background(), reservation.ID, reservation.UserID)
	if !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable for confirmed reservation, got %v", err)
	}
}

func TestCancelHidesForeignReservations(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)
	reservation := seedReservation(t, service, store, StatusPending)

	_, err := service.Cancel(context.Background(), reservation.ID, mustUserID(t, "user-other"))
	if !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound for foreign owner, got %v", err)
	}
}

func TestCancelPendingSucceeds(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)
	reservation := seedReservation(t, service, store, StatusPending)

	cancelled, err := service.Cancel(context.Background(), reservation.ID, reservation.UserID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestBulkUpdateStatusSkipsIneligibleRows(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	store.addTable(t, "table-2", "rest-1", 2, 4, TableAvailable)
	store.addTable(t, "table-3", "rest-1", 3, 4, TableAvailable)
	service := mustNewService(t, store)

	pending, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1"))
	if err != nil {
		t.Fatalf("seed pending: %v", err)
	}
	second := bookingInput(t, store, "table-2")
	second.UserID = mustUserID(t, "user-b")
	cancelledSeed, err := service.CreateReservation(context.Background(), second)
	if err != nil {
		t.Fatalf("seed second: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), cancelledSeed.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel second: %v", err)
	}

	ids := []ReservationID{
		pending.ID,
		cancelledSeed.ID,
		{value: "missing"},
	}
	count, updated, err := service.BulkUpdateStatus(context.Background(), ids, StatusConfirmed)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if count != 1 || len(updated) != 1 {
		t.Fatalf("expected exactly one update, got count=%d rows=%d", count, len(updated))
	}
	if updated[0].ID != pending.ID || updated[0].Status != StatusConfirmed {
		t.Fatalf("unexpected updated row %+v", updated[0])
	}
}

func TestBulkUpdateStatusRejectsUnknownTarget(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	service := mustNewService(t, store)

	_, _, err := service.BulkUpdateStatus(context.Background(), nil, ReservationStatus("archived"))
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
