package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"
)

// DefaultTokenTTL bounds how long an issued session credential stays valid.
const DefaultTokenTTL = 24 * time.Hour

// TokenIssuer mints and verifies the bearer credential for a principal.
// Claims use the tauth session shape so cookies and Authorization headers
// share one validator.
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	nowFn      func() time.Time
}

// NewTokenIssuer wires a TokenIssuer.
func NewTokenIssuer(signingKey string, issuer string, ttl time.Duration, now func() time.Time) (*TokenIssuer, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("%w: signing key is required", ErrInvalidServiceConfig)
	}
	if issuer == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrInvalidServiceConfig)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
		nowFn:      now,
	}, nil
}

// Issue signs a session token for the principal. Profile display fields ride
// along for client convenience; authorization reads only the id and role.
func (tokenIssuer *TokenIssuer) Issue(user User) (string, error) {
	now := tokenIssuer.nowFn()
	claims := &sessionvalidator.Claims{
		UserID:          user.ID.String(),
		UserEmail:       user.Email,
		UserDisplayName: user.Name,
		UserAvatarURL:   user.AvatarURL,
		UserRoles:       []string{user.Role.String()},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenIssuer.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tokenIssuer.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer credential back into session claims.
func (tokenIssuer *TokenIssuer) Verify(raw string) (*sessionvalidator.Claims, error) {
	claims := &sessionvalidator.Claims{}
	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("%w: unexpected signing method", ErrInvalidToken)
			}
			return tokenIssuer.signingKey, nil
		},
		jwt.WithIssuer(tokenIssuer.issuer),
		jwt.WithTimeFunc(tokenIssuer.nowFn),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// PrincipalFromClaims extracts the authorization identity from claims.
func PrincipalFromClaims(claims *sessionvalidator.Claims) (string, Role, error) {
	if claims == nil || claims.GetUserID() == "" {
		return "", "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	roles := claims.GetUserRoles()
	if len(roles) == 0 {
		return "", "", fmt.Errorf("%w: missing role", ErrInvalidToken)
	}
	role, err := ParseRole(roles[0])
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.GetUserID(), role, nil
}
