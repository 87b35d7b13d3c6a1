package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

func (handler *apiHandler) handleCreateReservation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	var request createReservationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}

	input, err := reservationInputFromRequest(userID, request)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	reservation, err := handler.bookings.CreateReservation(ctx.Request.Context(), input)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"reservation": toReservationPayload(reservation)})
}

func (handler *apiHandler) handleListReservations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	details, err := handler.bookings.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservations": toReservationDetailPayloads(details)})
}

func (handler *apiHandler) handleReservationDetail(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	detail, err := handler.bookings.GetForUser(ctx.Request.Context(), reservationID, userID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservation": toReservationDetailPayload(detail)})
}

func (handler *apiHandler) handleCancelReservation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	reservation, err := handler.bookings.Cancel(ctx.Request.Context(), reservationID, userID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservation": toReservationPayload(reservation)})
}

func reservationInputFromRequest(userID booking.UserID, request createReservationRequest) (booking.ReservationInput, error) {
	restaurantID, err := booking.NewRestaurantID(request.RestaurantID)
	if err != nil {
		return booking.ReservationInput{}, err
	}
	tableID, err := booking.NewTableID(request.TableID)
	if err != nil {
		return booking.ReservationInput{}, err
	}
	date, err := booking.NewSlotDate(request.Date)
	if err != nil {
		return booking.ReservationInput{}, err
	}
	slotTime, err := booking.NewSlotTime(request.Time)
	if err != nil {
		return booking.ReservationInput{}, err
	}
	partySize, err := booking.NewPartySize(request.PartySize)
	if err != nil {
		return booking.ReservationInput{}, err
	}
	return booking.ReservationInput{
		UserID:          userID,
		RestaurantID:    restaurantID,
		TableID:         tableID,
		Date:            date,
		Time:            slotTime,
		PartySize:       partySize,
		SpecialRequests: request.SpecialRequests,
	}, nil
}
