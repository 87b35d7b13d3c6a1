package booking

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"
)

// stubStore is an in-memory Store that also emulates the storage-level
// active-slot uniqueness constraint on insert.
type stubStore struct {
	tables       map[string]Table
	reservations map[string]ReservationDetail
	nextID       int
}

func newStubStore() *stubStore {
	return &stubStore{
		tables:       make(map[string]Table),
		reservations: make(map[string]ReservationDetail),
	}
}

func (store *stubStore) addTable(t *testing.T, id string, restaurantID string, number int, capacity int, status TableStatus) Table {
	t.Helper()
	table := Table{
		ID:           mustTableID(t, id),
		RestaurantID: mustRestaurantID(t, restaurantID),
		TableNumber:  number,
		Capacity:     capacity,
		Status:       status,
	}
	store.tables[id] = table
	return table
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return fn(ctx, store)
}

func (store *stubStore) GetTable(_ context.Context, tableID TableID) (Table, error) {
	table, ok := store.tables[tableID.String()]
	if !ok {
		return Table{}, ErrTableNotFound
	}
	return table, nil
}

func (store *stubStore) CountActiveReservations(_ context.Context, tableID TableID, date SlotDate, slotTime SlotTime) (int64, error) {
	var count int64
	for _, row := range store.reservations {
		if row.TableID == tableID && row.Date == date && row.Time == slotTime && row.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (store *stubStore) InsertReservation(ctx context.Context, input ReservationInput, status ReservationStatus) (Reservation, error) {
	occupied, err := store.CountActiveReservations(ctx, input.TableID, input.Date, input.Time)
	if err != nil {
		return Reservation{}, err
	}
	if status.IsActive() && occupied > 0 {
		return Reservation{}, ErrSlotTaken
	}
	store.nextID++
	id := fmt.Sprintf("res-%d", store.nextID)
	now := time.Now().UTC()
	row := ReservationDetail{
		Reservation: Reservation{
			ID:              ReservationID{value: id},
			UserID:          input.UserID,
			RestaurantID:    input.RestaurantID,
			TableID:         input.TableID,
			Date:            input.Date,
			Time:            input.Time,
			PartySize:       input.PartySize,
			SpecialRequests: input.SpecialRequests,
			Status:          status,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
	store.reservations[id] = row
	return row.Reservation, nil
}

func (store *stubStore) GetReservation(_ context.Context, reservationID ReservationID) (ReservationDetail, error) {
	row, ok := store.reservations[reservationID.String()]
	if !ok {
		return ReservationDetail{}, ErrReservationNotFound
	}
	return row, nil
}

func (store *stubStore) GetReservationOwned(ctx context.Context, reservationID ReservationID, userID UserID) (ReservationDetail, error) {
	row, err := store.GetReservation(ctx, reservationID)
	if err != nil {
		return ReservationDetail{}, err
	}
	if row.UserID != userID {
		return ReservationDetail{}, ErrReservationNotFound
	}
	return row, nil
}

func (store *stubStore) ListUserReservations(_ context.Context, userID UserID) ([]ReservationDetail, error) {
	rows := make([]ReservationDetail, 0)
	for _, row := range store.reservations {
		if row.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID.String() < rows[j].ID.String() })
	return rows, nil
}

func (store *stubStore) ListReservations(_ context.Context, filter AdminFilter) ([]ReservationDetail, error) {
	rows := make([]ReservationDetail, 0)
	for _, row := range store.reservations {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if filter.HasDates {
			if row.Date.String() < filter.FromDate.String() || row.Date.String() > filter.ToDate.String() {
				continue
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID.String() < rows[j].ID.String() })
	return rows, nil
}

func (store *stubStore) UpdateReservationStatus(_ context.Context, reservationID ReservationID, from ReservationStatus, to ReservationStatus) (Reservation, error) {
	row, ok := store.reservations[reservationID.String()]
	if !ok || row.Status != from {
		return Reservation{}, ErrInvalidTransition
	}
	row.Status = to
	row.UpdatedAt = time.Now().UTC()
	store.reservations[reservationID.String()] = row
	return row.Reservation, nil
}

func (store *stubStore) ListAvailableTables(ctx context.Context, restaurantID RestaurantID, date SlotDate, slotTime SlotTime, minCapacity int) ([]Table, error) {
	tables := make([]Table, 0)
	for _, table := range store.tables {
		if table.RestaurantID != restaurantID || table.Status != TableAvailable || table.Capacity < minCapacity {
			continue
		}
		occupied, err := store.CountActiveReservations(ctx, table.ID, date, slotTime)
		if err != nil {
			return nil, err
		}
		if occupied > 0 {
			continue
		}
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Capacity != tables[j].Capacity {
			return tables[i].Capacity < tables[j].Capacity
		}
		return tables[i].TableNumber < tables[j].TableNumber
	})
	return tables, nil
}

func (store *stubStore) CountByStatus(_ context.Context) (StatusCounts, error) {
	counts := StatusCounts{}
	for _, row := range store.reservations {
		counts.Total++
		switch row.Status {
		case StatusPending:
			counts.Pending++
		case StatusConfirmed:
			counts.Confirmed++
		case StatusRejected:
			counts.Rejected++
		case StatusCancelled:
			counts.Cancelled++
		}
	}
	return counts, nil
}

func mustNewService(t *testing.T, store Store) *Service {
	t.Helper()
	service, err := NewService(store, func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) })
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return service
}

func mustUserID(t *testing.T, raw string) UserID {
	t.Helper()
	id, err := NewUserID(raw)
	if err != nil {
		t.Fatalf("user id %q: %v", raw, err)
	}
	return id
}

func mustRestaurantID(t *testing.T, raw string) RestaurantID {
	t.Helper()
	id, err := NewRestaurantID(raw)
	if err != nil {
		t.Fatalf("restaurant id %q: %v", raw, err)
	}
	return id
}

func mustTableID(t *testing.T, raw string) TableID {
	t.Helper()
	id, err := NewTableID(raw)
	if err != nil {
		t.Fatalf("table id %q: %v", raw, err)
	}
	return id
}

func mustSlotDate(t *testing.T, raw string) SlotDate {
	t.Helper()
	date, err := NewSlotDate(raw)
	if err != nil {
		t.Fatalf("slot date %q: %v", raw, err)
	}
	return date
}

func mustSlotTime(t *testing.T, raw string) SlotTime {
	t.Helper()
	slotTime, err := NewSlotTime(raw)
	if err != nil {
		t.Fatalf("slot time %q: %v", raw, err)
	}
	return slotTime
}

func mustPartySize(t *testing.T, raw int) PartySize {
	t.Helper()
	size, err := NewPartySize(raw)
	if err != nil {
		t.Fatalf("party size %d: %v", raw, err)
	}
	return size
}

func bookingInput(t *testing.T, store *stubStore, tableID string) ReservationInput {
	t.Helper()
	table := store.tables[tableID]
	return ReservationInput{
		UserID:       mustUserID(t, "user-a"),
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		Date:         mustSlotDate(t, "2024-06-01"),
		Time:         mustSlotTime(t, "19:00"),
		PartySize:    mustPartySize(t, 2),
	}
}
