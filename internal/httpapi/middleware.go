package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tyemirov/tauth/pkg/sessionvalidator"

	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

const claimsContextKey = "auth_claims"

// authRequired accepts the session credential either as an Authorization
// bearer header or as the session cookie.
func (handler *apiHandler) authRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			cookie, err := ctx.Cookie(handler.cfg.SessionCookieName)
			if err == nil {
				raw = cookie
			}
		}
		if raw == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "missing credentials"))
			return
		}
		claims, err := handler.tokens.Verify(raw)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid or expired token"))
			return
		}
		ctx.Set(claimsContextKey, claims)
		ctx.Next()
	}
}

// requireAdmin gates a route group on the admin role carried in the claims.
func (handler *apiHandler) requireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := getClaims(ctx)
		_, role, err := identity.PrincipalFromClaims(claims)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
			return
		}
		if err := identity.AuthorizeRole(role, identity.RoleAdmin); err != nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, errorResponse("forbidden", "admin role required"))
			return
		}
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func getClaims(ctx *gin.Context) *sessionvalidator.Claims {
	claimsValue, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*sessionvalidator.Claims)
	return claims
}

// currentUserID extracts the authenticated principal id from the claims.
func currentUserID(ctx *gin.Context) (booking.UserID, bool) {
	claims := getClaims(ctx)
	subject, _, err := identity.PrincipalFromClaims(claims)
	if err != nil {
		return booking.UserID{}, false
	}
	userID, err := booking.NewUserID(subject)
	if err != nil {
		return booking.UserID{}, false
	}
	return userID, true
}
