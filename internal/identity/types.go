package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

// Role is the authorization level carried by a principal.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(raw))
	switch role {
	case RoleCustomer, RoleAdmin:
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
}

// String returns the stored form of the role.
func (role Role) String() string {
	return string(role)
}

// Profile is the verified identity assertion returned by the provider.
type Profile struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// Validate checks the provider supplied the fields the store keys on.
func (profile Profile) Validate() error {
	if strings.TrimSpace(profile.GoogleID) == "" {
		return fmt.Errorf("%w: missing subject id", ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidProfile)
	}
	return nil
}

// User is an internal principal record.
type User struct {
	ID        booking.UserID
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time

	ReservationCount int64
}
