package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

var validationErrors = []error{
	booking.ErrInvalidTransition,
	booking.ErrTableUnavailable,
	booking.ErrTableWrongRestaurant,
	booking.ErrPartyTooLarge,
	booking.ErrInvalidUserID,
	booking.ErrInvalidRestaurantID,
	booking.ErrInvalidTableID,
	booking.ErrInvalidReservationID,
	booking.ErrInvalidSlotDate,
	booking.ErrInvalidSlotTime,
	booking.ErrInvalidPartySize,
	booking.ErrInvalidStatus,
	booking.ErrInvalidDateBucket,
	catalog.ErrMissingName,
	catalog.ErrMissingAddress,
	catalog.ErrMissingCuisine,
	catalog.ErrInvalidCapacity,
	catalog.ErrInvalidTableNumber,
	catalog.ErrInvalidRestaurantStatus,
	catalog.ErrInvalidOpeningHours,
	identity.ErrInvalidRole,
	identity.ErrInvalidProfile,
}

var notFoundErrors = []error{
	booking.ErrReservationNotFound,
	booking.ErrTableNotFound,
	catalog.ErrRestaurantNotFound,
	catalog.ErrTableNotFound,
	identity.ErrUserNotFound,
}

var forbiddenErrors = []error{
	booking.ErrNotCancellable,
	catalog.ErrNotOwner,
	identity.ErrRoleRequired,
}

var conflictErrors = []error{
	booking.ErrSlotTaken,
	catalog.ErrTableNumberTaken,
	catalog.ErrTableInUse,
	identity.ErrEmailTaken,
}

// statusForError maps domain sentinels onto the HTTP error taxonomy.
func statusForError(err error) (int, string) {
	switch {
	case matchesAny(err, conflictErrors):
		return http.StatusConflict, "conflict"
	case matchesAny(err, notFoundErrors):
		return http.StatusNotFound, "not_found"
	case matchesAny(err, forbiddenErrors):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case matchesAny(err, validationErrors):
		return http.StatusBadRequest, "invalid_request"
	}
	return http.StatusInternalServerError, "internal_error"
}

func matchesAny(err error, sentinels []error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func (handler *apiHandler) respondDomainError(ctx *gin.Context, err error) {
	status, code := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		handler.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		if !handler.cfg.DebugErrors {
			message = "internal error"
		}
	}
	ctx.JSON(status, errorResponse(code, message))
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
