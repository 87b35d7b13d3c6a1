package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserModel mirrors the users table.
type UserModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	GoogleID  string    `gorm:"not null;index:uniq_users_google_id,unique"`
	Email     string    `gorm:"not null;index:uniq_users_email,unique"`
	Name      string    `gorm:"not null"`
	AvatarURL string    `gorm:""`
	Role      string    `gorm:"not null;default:customer"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

func (user *UserModel) BeforeCreate(tx *gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

// RestaurantModel mirrors the restaurants table.
type RestaurantModel struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	OwnerID      string         `gorm:"type:uuid;not null;index:idx_restaurants_owner"`
	Name         string         `gorm:"not null"`
	Description  string         `gorm:""`
	Address      string         `gorm:"not null"`
	Phone        string         `gorm:""`
	Email        string         `gorm:""`
	CuisineType  string         `gorm:"not null"`
	PriceRange   string         `gorm:""`
	Capacity     int            `gorm:"not null"`
	ImageURL     string         `gorm:""`
	OpeningHours datatypes.JSON `gorm:"not null"`
	Status       string         `gorm:"not null;default:active"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

func (RestaurantModel) TableName() string { return "restaurants" }

func (restaurant *RestaurantModel) BeforeCreate(tx *gorm.DB) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.NewString()
	}
	return nil
}

// TableModel mirrors the restaurant_tables table.
type TableModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	RestaurantID string    `gorm:"type:uuid;not null;index:uniq_restaurant_table_number,unique,priority:1"`
	TableNumber  int       `gorm:"not null;index:uniq_restaurant_table_number,unique,priority:2"`
	Capacity     int       `gorm:"not null"`
	Status       string    `gorm:"not null;default:available"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (TableModel) TableName() string { return "restaurant_tables" }

func (table *TableModel) BeforeCreate(tx *gorm.DB) error {
	if table.ID == "" {
		table.ID = uuid.NewString()
	}
	return nil
}

// ReservationModel mirrors the reservations table. The partial unique index
// keeps at most one active reservation per table slot; terminal rows fall out
// of the index and free the slot.
type ReservationModel struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	UserID          string    `gorm:"type:uuid;not null;index:idx_reservations_user"`
	RestaurantID    string    `gorm:"type:uuid;not null;index:idx_reservations_restaurant"`
	TableID         string    `gorm:"type:uuid;not null;index:uniq_active_slot,unique,priority:1,where:status = 'pending' OR status = 'confirmed'"`
	ReservationDate string    `gorm:"size:10;not null;index:uniq_active_slot,unique,priority:2"`
	ReservationTime string    `gorm:"size:5;not null;index:uniq_active_slot,unique,priority:3"`
	PartySize       int       `gorm:"not null"`
	SpecialRequests string    `gorm:""`
	Status          string    `gorm:"not null;default:pending"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (ReservationModel) TableName() string { return "reservations" }

func (reservation *ReservationModel) BeforeCreate(tx *gorm.DB) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	return nil
}
