package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

func (handler *apiHandler) handleAdminStats(ctx *gin.Context) {
	counts, err := handler.bookings.StatusCounts(ctx.Request.Context())
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	activeRestaurants, err := handler.catalog.CountActive(ctx.Request.Context())
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	totalUsers, err := handler.identity.CountUsers(ctx.Request.Context())
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"reservations": gin.H{
			"total":     counts.Total,
			"pending":   counts.Pending,
			"confirmed": counts.Confirmed,
			"rejected":  counts.Rejected,
			"cancelled": counts.Cancelled,
		},
		"active_restaurants": activeRestaurants,
		"total_users":        totalUsers,
	})
}

func (handler *apiHandler) handleAdminListReservations(ctx *gin.Context) {
	var status booking.ReservationStatus
	if raw := ctx.Query("status"); raw != "" {
		parsed, err := booking.ParseReservationStatus(raw)
		if err != nil {
			handler.respondDomainError(ctx, err)
			return
		}
		status = parsed
	}
	bucket, err := booking.ParseDateBucket(ctx.Query("date_filter"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	details, err := handler.bookings.ListForAdmin(ctx.Request.Context(), status, bucket)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservations": toReservationDetailPayloads(details)})
}

func (handler *apiHandler) handleAdminReservationDetail(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	detail, err := handler.bookings.GetForAdmin(ctx.Request.Context(), reservationID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservation": toReservationDetailPayload(detail)})
}

func (handler *apiHandler) handleAdminUpdateStatus(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	var request statusUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	target, err := booking.ParseReservationStatus(request.Status)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	reservation, err := handler.bookings.UpdateStatus(ctx.Request.Context(), reservationID, target)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservation": toReservationPayload(reservation)})
}

func (handler *apiHandler) handleAdminBulkStatus(ctx *gin.Context) {
	var request bulkStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	target, err := booking.ParseReservationStatus(request.Status)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	reservationIDs := make([]booking.ReservationID, 0, len(request.ReservationIDs))
	for _, raw := range request.ReservationIDs {
		reservationID, err := booking.NewReservationID(raw)
		if err != nil {
			handler.respondDomainError(ctx, err)
			return
		}
		reservationIDs = append(reservationIDs, reservationID)
	}
	updated, reservations, err := handler.bookings.BulkUpdateStatus(ctx.Request.Context(), reservationIDs, target)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"updated":      updated,
		"reservations": toReservationPayloads(reservations),
	})
}

func (handler *apiHandler) handleAdminListRestaurants(ctx *gin.Context) {
	restaurants, err := handler.catalog.ListAllForAdmin(ctx.Request.Context())
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurants": toAdminRestaurantPayloads(restaurants)})
}

func (handler *apiHandler) handleAdminMyRestaurants(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	restaurants, err := handler.catalog.ListOwned(ctx.Request.Context(), userID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurants": toAdminRestaurantPayloads(restaurants)})
}

func (handler *apiHandler) handleAdminCreateRestaurant(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	var request restaurantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	fields, err := restaurantFieldsFromRequest(request)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	restaurant, err := handler.catalog.CreateRestaurant(ctx.Request.Context(), userID, fields)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"restaurant": toRestaurantPayload(restaurant)})
}

func (handler *apiHandler) handleAdminUpdateRestaurant(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	restaurantID, err := booking.NewRestaurantID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	var request restaurantRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	fields, err := restaurantFieldsFromRequest(request)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	restaurant, err := handler.catalog.UpdateRestaurant(ctx.Request.Context(), restaurantID, userID, fields)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurant": toRestaurantPayload(restaurant)})
}

func (handler *apiHandler) handleAdminListTables(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	restaurantID, err := booking.NewRestaurantID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	tables, err := handler.catalog.ListTables(ctx.Request.Context(), restaurantID, userID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tables": toTablePayloads(tables)})
}

func (handler *apiHandler) handleAdminAddTable(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, errorResponse("unauthorized", "invalid session"))
		return
	}
	restaurantID, err := booking.NewRestaurantID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	var request addTableRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_payload", "expected JSON body"))
		return
	}
	table, err := handler.catalog.AddTable(ctx.Request.Context(), restaurantID, userID, request.TableNumber, request.Capacity)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"table": toTablePayload(table)})
}

func (handler *apiHandler) handleAdminDeleteTable(ctx *gin.Context) {
	tableID, err := booking.NewTableID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	if err := handler.catalog.DeleteTable(ctx.Request.Context(), tableID); err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (handler *apiHandler) handleAdminListUsers(ctx *gin.Context) {
	users, err := handler.identity.ListUsers(ctx.Request.Context())
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"users": toAdminUserPayloads(users)})
}

func restaurantFieldsFromRequest(request restaurantRequest) (catalog.RestaurantFields, error) {
	status, err := catalog.ParseRestaurantStatus(request.Status)
	if err != nil {
		return catalog.RestaurantFields{}, err
	}
	return catalog.RestaurantFields{
		Name:         request.Name,
		Description:  request.Description,
		Address:      request.Address,
		Phone:        request.Phone,
		Email:        request.Email,
		CuisineType:  request.CuisineType,
		PriceRange:   request.PriceRange,
		Capacity:     request.Capacity,
		ImageURL:     request.ImageURL,
		OpeningHours: request.OpeningHours,
		Status:       status,
	}, nil
}
