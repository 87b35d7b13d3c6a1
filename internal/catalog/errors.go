package catalog

import "errors"

// Domain-level error values returned by the catalog service.
var (
	ErrRestaurantNotFound      = errors.New("restaurant not found")
	ErrNotOwner                = errors.New("actor does not own restaurant")
	ErrTableNotFound           = errors.New("table not found")
	ErrTableNumberTaken        = errors.New("table number already used in restaurant")
	ErrTableInUse              = errors.New("table has active upcoming reservations")
	ErrMissingName             = errors.New("restaurant name is required")
	ErrMissingAddress          = errors.New("restaurant address is required")
	ErrMissingCuisine          = errors.New("cuisine type is required")
	ErrInvalidCapacity         = errors.New("invalid capacity")
	ErrInvalidTableNumber      = errors.New("invalid table number")
	ErrInvalidRestaurantStatus = errors.New("invalid restaurant status")
	ErrInvalidOpeningHours     = errors.New("invalid opening hours")
	ErrInvalidServiceConfig    = errors.New("invalid service config")
)
