package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

// Store is the persistence surface the identity service depends on.
type Store interface {
	GetUserByGoogleID(ctx context.Context, googleID string) (User, error)
	GetUser(ctx context.Context, userID booking.UserID) (User, error)
	CreateUser(ctx context.Context, profile Profile, role Role) (User, error)
	RefreshUserProfile(ctx context.Context, userID booking.UserID, profile Profile) (User, error)
	UpdateDisplayName(ctx context.Context, userID booking.UserID, name string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// Provider exchanges an OAuth authorization code for a verified profile.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

// Service maps external identities to internal principals.
type Service struct {
	store Store
}

// NewService wires a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	return &Service{store: store}, nil
}

// ResolveOrCreate returns the principal for a verified identity, creating a
// customer record on first sign-in and refreshing profile display fields on
// later ones.
func (service *Service) ResolveOrCreate(ctx context.Context, profile Profile) (User, error) {
	if err := profile.Validate(); err != nil {
		return User{}, err
	}
	existing, err := service.store.GetUserByGoogleID(ctx, profile.GoogleID)
	if err == nil {
		return service.store.RefreshUserProfile(ctx, existing.ID, profile)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}
	return service.store.CreateUser(ctx, profile, RoleCustomer)
}

// GetUser returns the stored principal record.
func (service *Service) GetUser(ctx context.Context, userID booking.UserID) (User, error) {
	return service.store.GetUser(ctx, userID)
}

// UpdateDisplayName changes the principal's display name.
func (service *Service) UpdateDisplayName(ctx context.Context, userID booking.UserID, name string) (User, error) {
	if name == "" {
		return User{}, fmt.Errorf("%w: empty display name", ErrInvalidProfile)
	}
	return service.store.UpdateDisplayName(ctx, userID, name)
}

// ListUsers returns every principal with reservation counts.
func (service *Service) ListUsers(ctx context.Context) ([]User, error) {
	return service.store.ListUsers(ctx)
}

// CountUsers returns the number of principals for the dashboard.
func (service *Service) CountUsers(ctx context.Context) (int64, error) {
	return service.store.CountUsers(ctx)
}

// AuthorizeRole checks a principal's role against a requirement. There is no
// hierarchy: admin endpoints are satisfied only by the admin role.
func AuthorizeRole(held Role, required Role) error {
	if required == RoleAdmin && held != RoleAdmin {
		return fmt.Errorf("%w: %s", ErrRoleRequired, required)
	}
	return nil
}
