package booking

import (
	"fmt"
	"strings"
	"time"
)

// MaxPartySize caps a single reservation regardless of table capacity.
const MaxPartySize = 20

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"
)

// UserID identifies a reservation owner.
type UserID struct {
	value string
}

// RestaurantID identifies a restaurant.
type RestaurantID struct {
	value string
}

// TableID identifies a table within a restaurant.
type TableID struct {
	value string
}

// ReservationID identifies a reservation record.
type ReservationID struct {
	value string
}

// SlotDate is a validated calendar date in YYYY-MM-DD form.
type SlotDate struct {
	value string
}

// SlotTime is a validated time-of-day in HH:MM form.
type SlotTime struct {
	value string
}

// PartySize is the number of guests covered by a reservation.
type PartySize int

// ReservationStatus enumerates the reservation lifecycle.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
)

// TableStatus marks whether a table is offered for booking at all.
type TableStatus string

const (
	TableAvailable   TableStatus = "available"
	TableUnavailable TableStatus = "unavailable"
)

// DateBucket selects a relative date window for admin listings.
type DateBucket string

const (
	BucketAll      DateBucket = "all"
	BucketToday    DateBucket = "today"
	BucketTomorrow DateBucket = "tomorrow"
	BucketWeek     DateBucket = "week"
	BucketMonth    DateBucket = "month"
)

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// NewRestaurantID validates and normalizes a restaurant id.
func NewRestaurantID(raw string) (RestaurantID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RestaurantID{}, fmt.Errorf("%w: empty value", ErrInvalidRestaurantID)
	}
	return RestaurantID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id RestaurantID) String() string {
	return id.value
}

// NewTableID validates and normalizes a table id.
func NewTableID(raw string) (TableID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TableID{}, fmt.Errorf("%w: empty value", ErrInvalidTableID)
	}
	return TableID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id TableID) String() string {
	return id.value
}

// NewReservationID validates and normalizes a reservation id.
func NewReservationID(raw string) (ReservationID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ReservationID{}, fmt.Errorf("%w: empty value", ErrInvalidReservationID)
	}
	return ReservationID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ReservationID) String() string {
	return id.value
}

// NewSlotDate validates a calendar date string.
func NewSlotDate(raw string) (SlotDate, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := time.Parse(slotDateLayout, trimmed)
	if err != nil {
		return SlotDate{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidSlotDate, raw)
	}
	return SlotDate{value: parsed.Format(slotDateLayout)}, nil
}

// SlotDateOf converts a time.Time to its calendar date.
func SlotDateOf(moment time.Time) SlotDate {
	return SlotDate{value: moment.Format(slotDateLayout)}
}

// String returns the normalized YYYY-MM-DD form.
func (date SlotDate) String() string {
	return date.value
}

// AddDays returns the date shifted by the given number of days.
func (date SlotDate) AddDays(days int) SlotDate {
	parsed, err := time.Parse(slotDateLayout, date.value)
	if err != nil {
		return date
	}
	return SlotDate{value: parsed.AddDate(0, 0, days).Format(slotDateLayout)}
}

// NewSlotTime validates a HH:MM time-of-day string.
func NewSlotTime(raw string) (SlotTime, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := time.Parse(slotTimeLayout, trimmed)
	if err != nil {
		return SlotTime{}, fmt.Errorf("%w: %q is not a HH:MM time", ErrInvalidSlotTime, raw)
	}
	return SlotTime{value: parsed.Format(slotTimeLayout)}, nil
}

// String returns the normalized HH:MM form.
func (slotTime SlotTime) String() string {
	return slotTime.value
}

// NewPartySize validates the guest count against the global bounds.
func NewPartySize(raw int) (PartySize, error) {
	if raw < 1 || raw > MaxPartySize {
		return 0, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPartySize, MaxPartySize)
	}
	return PartySize(raw), nil
}

// Int returns the guest count.
func (size PartySize) Int() int {
	return int(size)
}

// ParseReservationStatus validates a raw status string.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	status := ReservationStatus(strings.TrimSpace(raw))
	switch status {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// String returns the stored form of the status.
func (status ReservationStatus) String() string {
	return string(status)
}

// IsActive reports whether the status counts against slot occupancy.
func (status ReservationStatus) IsActive() bool {
	return status == StatusPending || status == StatusConfirmed
}

// IsTerminal reports whether no further transitions are allowed.
func (status ReservationStatus) IsTerminal() bool {
	return status == StatusRejected || status == StatusCancelled
}

// AdminCanTransition reports whether an admin may move the status to target.
func (status ReservationStatus) AdminCanTransition(target ReservationStatus) bool {
	switch status {
	case StatusPending:
		return target == StatusConfirmed || target == StatusRejected || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusCancelled
	}
	return false
}

// ParseTableStatus validates a raw table status string.
func ParseTableStatus(raw string) (TableStatus, error) {
	status := TableStatus(strings.TrimSpace(raw))
	switch status {
	case TableAvailable, TableUnavailable:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// String returns the stored form of the table status.
func (status TableStatus) String() string {
	return string(status)
}

// ParseDateBucket validates a raw bucket name; empty input means all.
func ParseDateBucket(raw string) (DateBucket, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return BucketAll, nil
	}
	bucket := DateBucket(trimmed)
	switch bucket {
	case BucketAll, BucketToday, BucketTomorrow, BucketWeek, BucketMonth:
		return bucket, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDateBucket, raw)
}

// Range resolves the bucket to an inclusive date window relative to today.
// The second return value is false when the bucket does not constrain dates.
func (bucket DateBucket) Range(now time.Time) (SlotDate, SlotDate, bool) {
	today := SlotDateOf(now)
	switch bucket {
	case BucketToday:
		return today, today, true
	case BucketTomorrow:
		tomorrow := today.AddDays(1)
		return tomorrow, tomorrow, true
	case BucketWeek:
		return today, today.AddDays(7), true
	case BucketMonth:
		return today, today.AddDays(30), true
	}
	return SlotDate{}, SlotDate{}, false
}

// Table is the slice of table state needed for booking decisions.
type Table struct {
	ID           TableID
	RestaurantID RestaurantID
	TableNumber  int
	Capacity     int
	Status       TableStatus
}

// Reservation is a stored reservation record.
type Reservation struct {
	ID              ReservationID
	UserID          UserID
	RestaurantID    RestaurantID
	TableID         TableID
	Date            SlotDate
	Time            SlotTime
	PartySize       PartySize
	SpecialRequests string
	Status          ReservationStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ReservationDetail is a reservation joined with display fields for listings.
type ReservationDetail struct {
	Reservation
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	TableNumber       int
	TableCapacity     int
	CustomerName      string
	CustomerEmail     string
	CustomerAvatarURL string
}

// ReservationInput carries the validated fields of a new booking.
type ReservationInput struct {
	UserID          UserID
	RestaurantID    RestaurantID
	TableID         TableID
	Date            SlotDate
	Time            SlotTime
	PartySize       PartySize
	SpecialRequests string
}

// AdminFilter narrows the cross-user reservation listing.
type AdminFilter struct {
	Status   ReservationStatus
	FromDate SlotDate
	ToDate   SlotDate
	HasDates bool
}

// StatusCounts aggregates reservation totals for the dashboard.
type StatusCounts struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Rejected  int64
	Cancelled int64
}
