package httpapi

import (
	"time"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

type restaurantPayload struct {
	ID           string               `json:"id"`
	OwnerID      string               `json:"owner_id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	CuisineType  string               `json:"cuisine_type"`
	PriceRange   string               `json:"price_range"`
	Capacity     int                  `json:"capacity"`
	ImageURL     string               `json:"image_url"`
	OpeningHours catalog.OpeningHours `json:"opening_hours"`
	Status       string               `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

type adminRestaurantPayload struct {
	restaurantPayload
	OwnerName        string `json:"owner_name,omitempty"`
	OwnerEmail       string `json:"owner_email,omitempty"`
	TableCount       int64  `json:"table_count"`
	ReservationCount int64  `json:"reservation_count"`
}

type tablePayload struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurant_id"`
	TableNumber  int    `json:"table_number"`
	Capacity     int    `json:"capacity"`
	Status       string `json:"status"`
}

type reservationPayload struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RestaurantID    string    `json:"restaurant_id"`
	TableID         string    `json:"table_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	PartySize       int       `json:"party_size"`
	SpecialRequests string    `json:"special_requests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type reservationDetailPayload struct {
	reservationPayload
	RestaurantName    string `json:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address"`
	RestaurantPhone   string `json:"restaurant_phone"`
	TableNumber       int    `json:"table_number"`
	TableCapacity     int    `json:"table_capacity"`
	CustomerName      string `json:"customer_name,omitempty"`
	CustomerEmail     string `json:"customer_email,omitempty"`
	CustomerAvatarURL string `json:"customer_avatar_url,omitempty"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type adminUserPayload struct {
	userPayload
	ReservationCount int64 `json:"reservation_count"`
}

type createReservationRequest struct {
	RestaurantID    string `json:"restaurant_id"`
	TableID         string `json:"table_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

type bulkStatusRequest struct {
	ReservationIDs []string `json:"reservation_ids"`
	Status         string   `json:"status"`
}

type restaurantRequest struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Address      string               `json:"address"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email"`
	CuisineType  string               `json:"cuisine_type"`
	PriceRange   string               `json:"price_range"`
	Capacity     int                  `json:"capacity"`
	ImageURL     string               `json:"image_url"`
	OpeningHours catalog.OpeningHours `json:"opening_hours"`
	Status       string               `json:"status"`
}

type addTableRequest struct {
	TableNumber int `json:"table_number"`
	Capacity    int `json:"capacity"`
}

type profileUpdateRequest struct {
	Name string `json:"name"`
}

func toRestaurantPayload(restaurant catalog.Restaurant) restaurantPayload {
	hours := restaurant.OpeningHours
	if hours == nil {
		hours = catalog.OpeningHours{}
	}
	return restaurantPayload{
		ID:           restaurant.ID.String(),
		OwnerID:      restaurant.OwnerID.String(),
		Name:         restaurant.Name,
		Description:  restaurant.Description,
		Address:      restaurant.Address,
		Phone:        restaurant.Phone,
		Email:        restaurant.Email,
		CuisineType:  restaurant.CuisineType,
		PriceRange:   restaurant.PriceRange,
		Capacity:     restaurant.Capacity,
		ImageURL:     restaurant.ImageURL,
		OpeningHours: hours,
		Status:       restaurant.Status.String(),
		CreatedAt:    restaurant.CreatedAt,
		UpdatedAt:    restaurant.UpdatedAt,
	}
}

func toRestaurantPayloads(restaurants []catalog.Restaurant) []restaurantPayload {
	payloads := make([]restaurantPayload, 0, len(restaurants))
	for _, restaurant := range restaurants {
		payloads = append(payloads, toRestaurantPayload(restaurant))
	}
	return payloads
}

func toAdminRestaurantPayloads(restaurants []catalog.Restaurant) []adminRestaurantPayload {
	payloads := make([]adminRestaurantPayload, 0, len(restaurants))
	for _, restaurant := range restaurants {
		payloads = append(payloads, adminRestaurantPayload{
			restaurantPayload: toRestaurantPayload(restaurant),
			OwnerName:         restaurant.OwnerName,
			OwnerEmail:        restaurant.OwnerEmail,
			TableCount:        restaurant.TableCount,
			ReservationCount:  restaurant.ReservationCount,
		})
	}
	return payloads
}

func toTablePayload(table booking.Table) tablePayload {
	return tablePayload{
		ID:           table.ID.String(),
		RestaurantID: table.RestaurantID.String(),
		TableNumber:  table.TableNumber,
		Capacity:     table.Capacity,
		Status:       table.Status.String(),
	}
}

func toTablePayloads(tables []booking.Table) []tablePayload {
	payloads := make([]tablePayload, 0, len(tables))
	for _, table := range tables {
		payloads = append(payloads, toTablePayload(table))
	}
	return payloads
}

func toReservationPayload(reservation booking.Reservation) reservationPayload {
	return reservationPayload{
		ID:              reservation.ID.String(),
		UserID:          reservation.UserID.String(),
		RestaurantID:    reservation.RestaurantID.String(),
		TableID:         reservation.TableID.String(),
		Date:            reservation.Date.String(),
		Time:            reservation.Time.String(),
		PartySize:       reservation.PartySize.Int(),
		SpecialRequests: reservation.SpecialRequests,
		Status:          reservation.Status.String(),
		CreatedAt:       reservation.CreatedAt,
		UpdatedAt:       reservation.UpdatedAt,
	}
}

func toReservationPayloads(reservations []booking.Reservation) []reservationPayload {
	payloads := make([]reservationPayload, 0, len(reservations))
	for _, reservation := range reservations {
		payloads = append(payloads, toReservationPayload(reservation))
	}
	return payloads
}

func toReservationDetailPayload(detail booking.ReservationDetail) reservationDetailPayload {
	return reservationDetailPayload{
		reservationPayload: toReservationPayload(detail.Reservation),
		RestaurantName:     detail.RestaurantName,
		RestaurantAddress:  detail.RestaurantAddress,
		RestaurantPhone:    detail.RestaurantPhone,
		TableNumber:        detail.TableNumber,
		TableCapacity:      detail.TableCapacity,
		CustomerName:       detail.CustomerName,
		CustomerEmail:      detail.CustomerEmail,
		CustomerAvatarURL:  detail.CustomerAvatarURL,
	}
}

func toReservationDetailPayloads(details []booking.ReservationDetail) []reservationDetailPayload {
	payloads := make([]reservationDetailPayload, 0, len(details))
	for _, detail := range details {
		payloads = append(payloads, toReservationDetailPayload(detail))
	}
	return payloads
}

func toUserPayload(user identity.User) userPayload {
	return userPayload{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

func toAdminUserPayloads(users []identity.User) []adminUserPayload {
	payloads := make([]adminUserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, adminUserPayload{
			userPayload:      toUserPayload(user),
			ReservationCount: user.ReservationCount,
		})
	}
	return payloads
}
