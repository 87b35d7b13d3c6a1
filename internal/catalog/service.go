package catalog

import (
	"context"
	"fmt"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

// Store is the persistence surface the catalog service depends on.
type Store interface {
	ListRestaurants(ctx context.Context, filter BrowseFilter) ([]Restaurant, error)
	GetRestaurant(ctx context.Context, restaurantID booking.RestaurantID) (Restaurant, []booking.Table, error)
	GetRestaurantOwner(ctx context.Context, restaurantID booking.RestaurantID) (booking.UserID, error)
	CreateRestaurant(ctx context.Context, ownerID booking.UserID, fields RestaurantFields) (Restaurant, error)
	UpdateRestaurant(ctx context.Context, restaurantID booking.RestaurantID, fields RestaurantFields) (Restaurant, error)
	ListOwnedRestaurants(ctx context.Context, ownerID booking.UserID) ([]Restaurant, error)
	ListAllRestaurants(ctx context.Context) ([]Restaurant, error)
	CountActiveRestaurants(ctx context.Context) (int64, error)
	ListTables(ctx context.Context, restaurantID booking.RestaurantID) ([]booking.Table, error)
	InsertTable(ctx context.Context, restaurantID booking.RestaurantID, tableNumber int, capacity int) (booking.Table, error)
	DeleteTable(ctx context.Context, tableID booking.TableID) error
	CountUpcomingActiveReservations(ctx context.Context, tableID booking.TableID, fromDate booking.SlotDate) (int64, error)
}

// Service owns restaurant and table metadata and its ownership gates.
type Service struct {
	store Store
	nowFn booking.Clock
}

// NewService wires a Service.
func NewService(store Store, now booking.Clock) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	return &Service{store: store, nowFn: now}, nil
}

// ListRestaurants returns active restaurants matching the public filters.
func (service *Service) ListRestaurants(ctx context.Context, filter BrowseFilter) ([]Restaurant, error) {
	return service.store.ListRestaurants(ctx, filter)
}

// GetRestaurant returns an active restaurant together with its tables.
func (service *Service) GetRestaurant(ctx context.Context, restaurantID booking.RestaurantID) (Restaurant, []booking.Table, error) {
	return service.store.GetRestaurant(ctx, restaurantID)
}

// CreateRestaurant creates a restaurant owned by the acting admin.
func (service *Service) CreateRestaurant(ctx context.Context, ownerID booking.UserID, fields RestaurantFields) (Restaurant, error) {
	normalized, err := normalizeFields(fields)
	if err != nil {
		return Restaurant{}, err
	}
	return service.store.CreateRestaurant(ctx, ownerID, normalized)
}

// UpdateRestaurant mutates a restaurant after the ownership gate.
func (service *Service) UpdateRestaurant(ctx context.Context, restaurantID booking.RestaurantID, actorID booking.UserID, fields RestaurantFields) (Restaurant, error) {
	ownerID, err := service.store.GetRestaurantOwner(ctx, restaurantID)
	if err != nil {
		return Restaurant{}, err
	}
	if ownerID != actorID {
		return Restaurant{}, fmt.Errorf("%w: restaurant %s", ErrNotOwner, restaurantID.String())
	}
	normalized, err := normalizeFields(fields)
	if err != nil {
		return Restaurant{}, err
	}
	return service.store.UpdateRestaurant(ctx, restaurantID, normalized)
}

// ListOwned returns the acting admin's restaurants with table and
// reservation counts.
func (service *Service) ListOwned(ctx context.Context, ownerID booking.UserID) ([]Restaurant, error) {
	return service.store.ListOwnedRestaurants(ctx, ownerID)
}

// ListAllForAdmin returns every restaurant with owner contact and counts.
func (service *Service) ListAllForAdmin(ctx context.Context) ([]Restaurant, error) {
	return service.store.ListAllRestaurants(ctx)
}

// CountActive returns the number of publicly listed restaurants.
func (service *Service) CountActive(ctx context.Context) (int64, error) {
	return service.store.CountActiveRestaurants(ctx)
}

// ListTables returns all tables of a restaurant the actor owns, in
// table-number order.
func (service *Service) ListTables(ctx context.Context, restaurantID booking.RestaurantID, actorID booking.UserID) ([]booking.Table, error) {
	ownerID, err := service.store.GetRestaurantOwner(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if ownerID != actorID {
		return nil, fmt.Errorf("%w: restaurant %s", ErrNotOwner, restaurantID.String())
	}
	return service.store.ListTables(ctx, restaurantID)
}

// AddTable adds a table to a restaurant the actor owns. Table numbers are
// unique per restaurant, not globally.
func (service *Service) AddTable(ctx context.Context, restaurantID booking.RestaurantID, actorID booking.UserID, tableNumber int, capacity int) (booking.Table, error) {
	ownerID, err := service.store.GetRestaurantOwner(ctx, restaurantID)
	if err != nil {
		return booking.Table{}, err
	}
	if ownerID != actorID {
		return booking.Table{}, fmt.Errorf("%w: restaurant %s", ErrNotOwner, restaurantID.String())
	}
	if tableNumber < 1 {
		return booking.Table{}, fmt.Errorf("%w: %d", ErrInvalidTableNumber, tableNumber)
	}
	if capacity < 1 {
		return booking.Table{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return service.store.InsertTable(ctx, restaurantID, tableNumber, capacity)
}

// DeleteTable removes a table unless an active reservation dated today or
// later still references it. The guard runs at delete time only.
func (service *Service) DeleteTable(ctx context.Context, tableID booking.TableID) error {
	today := booking.SlotDateOf(service.nowFn())
	upcoming, err := service.store.CountUpcomingActiveReservations(ctx, tableID, today)
	if err != nil {
		return err
	}
	if upcoming > 0 {
		return fmt.Errorf("%w: table %s", ErrTableInUse, tableID.String())
	}
	return service.store.DeleteTable(ctx, tableID)
}

func normalizeFields(fields RestaurantFields) (RestaurantFields, error) {
	if fields.Name == "" {
		return RestaurantFields{}, ErrMissingName
	}
	if fields.Address == "" {
		return RestaurantFields{}, ErrMissingAddress
	}
	if fields.CuisineType == "" {
		return RestaurantFields{}, ErrMissingCuisine
	}
	if fields.Capacity == 0 {
		fields.Capacity = DefaultCapacity
	}
	if fields.Capacity < 1 {
		return RestaurantFields{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, fields.Capacity)
	}
	if fields.Status == "" {
		fields.Status = RestaurantActive
	}
	if err := fields.OpeningHours.Validate(); err != nil {
		return RestaurantFields{}, err
	}
	return fields, nil
}
