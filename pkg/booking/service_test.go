package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCreateReservationInsertsPending(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)

	created, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1"))
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.ID.String() == "" {
		t.Fatalf("expected assigned reservation id")
	}
}

func TestCreateReservationRejectsOccupiedSlot(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)

	if _, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	input := bookingInput(t, store, "table-1")
	input.UserID = mustUserID(t, "user-b")
	_, err := service.CreateReservation(context.Background(), input)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCreateReservationSlotFreesAfterTerminalStatus(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)

	first, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), first.ID, StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	input := bookingInput(t, store, "table-1")
	input.UserID = mustUserID(t, "user-b")
	retry, err := service.CreateReservation(context.Background(), input)
	if err != nil {
		t.Fatalf("expected slot to be free after rejection, got %v", err)
	}
	if retry.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", retry.Status)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-small", "rest-1", 1, 2, TableAvailable)
	store.addTable(t, "table-closed", "rest-1", 2, 4, TableUnavailable)
	store.addTable(t, "table-other", "rest-2", 1, 4, TableAvailable)
	service := mustNewService(t, store)

	testCases := []struct {
		name      string
		tableID   string
		partySize int
		wantErr   error
	}{
		{name: "party larger than table", tableID: "table-small", partySize: 3, wantErr: ErrPartyTooLarge},
		{name: "table marked unavailable", tableID: "table-closed", partySize: 2, wantErr: ErrTableUnavailable},
		{name: "table of another restaurant", tableID: "table-other", partySize: 2, wantErr: ErrTableWrongRestaurant},
		{name: "unknown table", tableID: "table-missing", partySize: 2, wantErr: ErrTableNotFound},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			input := ReservationInput{
				UserID:       mustUserID(t, "user-a"),
				RestaurantID: mustRestaurantID(t, "rest-1"),
				TableID:      mustTableID(t, testCase.tableID),
				Date:         mustSlotDate(t, "2024-06-01"),
				Time:         mustSlotTime(t, "19:00"),
				PartySize:    mustPartySize(t, testCase.partySize),
			}
			_, err := service.CreateReservation(context.Background(), input)
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("expected %v, got %v", testCase.wantErr, err)
			}
		})
	}
}

func TestAvailableTablesOrdersBySmallestSufficientCapacity(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-2", "rest-1", 1, 2, TableAvailable)
	store.addTable(t, "table-4", "rest-1", 2, 4, TableAvailable)
	store.addTable(t, "table-6", "rest-1", 3, 6, TableAvailable)
	service := mustNewService(t, store)

	tables, err := service.AvailableTables(
		context.Background(),
		mustRestaurantID(t, "rest-1"),
		mustSlotDate(t, "2024-06-01"),
		mustSlotTime(t, "19:00"),
		mustPartySize(t, 3),
	)
	if err != nil {
		t.Fatalf("available tables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if tables[0].Capacity != 4 || tables[1].Capacity != 6 {
		t.Fatalf("expected capacities [4 6], got [%d %d]", tables[0].Capacity, tables[1].Capacity)
	}
}

func TestAvailableTablesExcludesBookedSlot(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-4", "rest-1", 1, 4, TableAvailable)
	store.addTable(t, "table-6", "rest-1", 2, 6, TableAvailable)
	service := mustNewService(t, store)

	input := bookingInput(t, store, "table-4")
	if _, err := service.CreateReservation(context.Background(), input); err != nil {
		t.Fatalf("booking: %v", err)
	}

	tables, err := service.AvailableTables(
		context.Background(),
		mustRestaurantID(t, "rest-1"),
		input.Date,
		input.Time,
		mustPartySize(t, 2),
	)
	if err != nil {
		t.Fatalf("available tables: %v", err)
	}
	if len(tables) != 1 || tables[0].ID.String() != "table-6" {
		t.Fatalf("expected only table-6 to remain, got %+v", tables)
	}

	otherTime, err := service.AvailableTables(
		context.Background(),
		mustRestaurantID(t, "rest-1"),
		input.Date,
		mustSlotTime(t, "20:00"),
		mustPartySize(t, 2),
	)
	if err != nil {
		t.Fatalf("available tables other slot: %v", err)
	}
	if len(otherTime) != 2 {
		t.Fatalf("expected both tables free at another slot, got %d", len(otherTime))
	}
}

func TestListForAdminAppliesDateBucket(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	service := mustNewService(t, store)

	dates := []string{"2024-06-01", "2024-06-02", "2024-06-10", "2024-07-15"}
	for index, date := range dates {
		input := bookingInput(t, store, "table-1")
		input.Date = mustSlotDate(t, date)
		input.Time = mustSlotTime(t, "19:00")
		input.UserID = mustUserID(t, fmt.Sprintf("user-%d", index))
		if _, err := service.CreateReservation(context.Background(), input); err != nil {
			t.Fatalf("seed booking %s: %v", date, err)
		}
	}

	testCases := []struct {
		bucket DateBucket
		want   int
	}{
		{bucket: BucketToday, want: 1},
		{bucket: BucketTomorrow, want: 1},
		{bucket: BucketWeek, want: 2},
		{bucket: BucketMonth, want: 3},
		{bucket: BucketAll, want: 4},
	}
	for _, testCase := range testCases {
		rows, err := service.ListForAdmin(context.Background(), "", testCase.bucket)
		if err != nil {
			t.Fatalf("list for admin %s: %v", testCase.bucket, err)
		}
		if len(rows) != testCase.want {
			t.Fatalf("bucket %s: expected %d rows, got %d", testCase.bucket, testCase.want, len(rows))
		}
	}
}

func TestStatusCountsAggregatesStatuses(t *testing.T) {
	t.Parallel()
	store := newStubStore()
	store.addTable(t, "table-1", "rest-1", 1, 4, TableAvailable)
	store.addTable(t, "table-2", "rest-1", 2, 4, TableAvailable)
	service := mustNewService(t, store)

	first, err := service.CreateReservation(context.Background(), bookingInput(t, store, "table-1"))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second := bookingInput(t, store, "table-2")
	second.UserID = mustUserID(t, "user-b")
	if _, err := service.CreateReservation(context.Background(), second); err != nil {
		t.Fatalf("second booking: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), first.ID, StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	counts, err := service.StatusCounts(context.Background())
	if err != nil {
		t.Fatalf("status counts: %v", err)
	}
	if counts.Total != 2 || counts.Pending != 1 || counts.Confirmed != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}
