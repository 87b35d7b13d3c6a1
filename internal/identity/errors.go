package identity

import "errors"

// Domain-level error values returned by the identity service.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRoleRequired         = errors.New("required role not held")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidProfile       = errors.New("invalid identity profile")
	ErrInvalidToken         = errors.New("invalid session token")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)
