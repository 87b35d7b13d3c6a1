package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

// DefaultCapacity is assigned when a restaurant is created without one.
const DefaultCapacity = 50

// RestaurantStatus marks whether a restaurant is publicly listed.
type RestaurantStatus string

const (
	RestaurantActive   RestaurantStatus = "active"
	RestaurantInactive RestaurantStatus = "inactive"
)

// ParseRestaurantStatus validates a raw status string; empty means active.
func ParseRestaurantStatus(raw string) (RestaurantStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RestaurantActive, nil
	}
	status := RestaurantStatus(trimmed)
	switch status {
	case RestaurantActive, RestaurantInactive:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRestaurantStatus, raw)
}

// String returns the stored form of the status.
func (status RestaurantStatus) String() string {
	return string(status)
}

// DayHours describes a single weekday in the opening schedule.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// OpeningHours maps lowercase weekday names to their hours.
type OpeningHours map[string]DayHours

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

// Validate checks weekday names and HH:MM bounds for open days.
func (hours OpeningHours) Validate() error {
	for day, dayHours := range hours {
		if !weekdays[strings.ToLower(day)] {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidOpeningHours, day)
		}
		if dayHours.Closed {
			continue
		}
		if _, err := booking.NewSlotTime(dayHours.Open); err != nil {
			return fmt.Errorf("%w: %s open %q", ErrInvalidOpeningHours, day, dayHours.Open)
		}
		if _, err := booking.NewSlotTime(dayHours.Close); err != nil {
			return fmt.Errorf("%w: %s close %q", ErrInvalidOpeningHours, day, dayHours.Close)
		}
	}
	return nil
}

// Restaurant is a catalog record, optionally carrying joined listing fields.
type Restaurant struct {
	ID           booking.RestaurantID
	OwnerID      booking.UserID
	Name         string
	Description  string
	Address      string
	Phone        string
	Email        string
	CuisineType  string
	PriceRange   string
	Capacity     int
	ImageURL     string
	OpeningHours OpeningHours
	Status       RestaurantStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	OwnerName        string
	OwnerEmail       string
	TableCount       int64
	ReservationCount int64
}

// RestaurantFields carries the mutable attributes of a restaurant.
type RestaurantFields struct {
	Name         string
	Description  string
	Address      string
	Phone        string
	Email        string
	CuisineType  string
	PriceRange   string
	Capacity     int
	ImageURL     string
	OpeningHours OpeningHours
	Status       RestaurantStatus
}

// BrowseFilter narrows the public restaurant listing.
type BrowseFilter struct {
	Cuisine    string
	PriceRange string
	Search     string
}
