package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

func (handler *apiHandler) handleBrowseRestaurants(ctx *gin.Context) {
	filter := catalog.BrowseFilter{
		Cuisine:    ctx.Query("cuisine"),
		PriceRange: ctx.Query("price_range"),
		Search:     ctx.Query("search"),
	}
	restaurants, err := handler.catalog.ListRestaurants(ctx.Request.Context(), filter)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurants": toRestaurantPayloads(restaurants)})
}

func (handler *apiHandler) handleRestaurantDetail(ctx *gin.Context) {
	restaurantID, err := booking.NewRestaurantID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	restaurant, tables, err := handler.catalog.GetRestaurant(ctx.Request.Context(), restaurantID)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"restaurant": toRestaurantPayload(restaurant),
		"tables":     toTablePayloads(tables),
	})
}

func (handler *apiHandler) handleAvailableTables(ctx *gin.Context) {
	restaurantID, err := booking.NewRestaurantID(ctx.Param("id"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	date, err := booking.NewSlotDate(ctx.Query("date"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	slotTime, err := booking.NewSlotTime(ctx.Query("time"))
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	rawPartySize, err := strconv.Atoi(ctx.Query("party_size"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid_request", "party_size must be a number"))
		return
	}
	partySize, err := booking.NewPartySize(rawPartySize)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}

	tables, err := handler.bookings.AvailableTables(ctx.Request.Context(), restaurantID, date, slotTime, partySize)
	if err != nil {
		handler.respondDomainError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tables": toTablePayloads(tables)})
}
