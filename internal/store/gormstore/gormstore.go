package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/tablebook/internal/catalog"
	"github.com/MarkoPoloResearchLab/tablebook/internal/identity"
	"github.com/MarkoPoloResearchLab/tablebook/pkg/booking"
)

const (
	constraintActiveSlot            = "uniq_active_slot"
	constraintRestaurantTableNumber = "uniq_restaurant_table_number"
	constraintUserEmail             = "uniq_users_email"
	defaultOpeningHoursJSON         = "{}"
	pgUniqueViolationCode           = "23505"
	sqliteConstraintCode            = 19
	errorOperationStore             = "store"
	errorSubjectReservation         = "reservation"
	errorSubjectRestaurant          = "restaurant"
	errorSubjectTable               = "table"
	errorSubjectUser                = "user"
	errorCodeCount                  = "count"
	errorCodeCreate                 = "create"
	errorCodeDelete                 = "delete"
	errorCodeDuplicate              = "duplicate"
	errorCodeGet                    = "get"
	errorCodeInsert                 = "insert"
	errorCodeInvalid                = "invalid"
	errorCodeList                   = "list"
	errorCodeUpdate                 = "update"
	errorCodeUpdateStatus           = "update_status"
)

var activeStatuses = []string{
	booking.StatusPending.String(),
	booking.StatusConfirmed.String(),
}

// Store implements the booking, catalog, and identity persistence surfaces
// over a single gorm.DB.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

func (store *Store) GetTable(ctx context.Context, tableID booking.TableID) (booking.Table, error) {
	var model TableModel
	err := store.db.WithContext(ctx).
		Where("id = ?", tableID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeGet, booking.ErrTableNotFound)
		}
		return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeGet, err)
	}
	table, err := mapTable(model)
	if err != nil {
		return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeInvalid, err)
	}
	return table, nil
}

func (store *Store) CountActiveReservations(ctx context.Context, tableID booking.TableID, date booking.SlotDate, slotTime booking.SlotTime) (int64, error) {
	var total int64
	err := store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("table_id = ? AND reservation_date = ? AND reservation_time = ?", tableID.String(), date.String(), slotTime.String()).
		Where("status IN ?", activeStatuses).
		Count(&total).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectReservation, errorCodeCount, err)
	}
	return total, nil
}

func (store *Store) InsertReservation(ctx context.Context, input booking.ReservationInput, status booking.ReservationStatus) (booking.Reservation, error) {
	model := ReservationModel{
		UserID:          input.UserID.String(),
		RestaurantID:    input.RestaurantID.String(),
		TableID:         input.TableID.String(),
		ReservationDate: input.Date.String(),
		ReservationTime: input.Time.String(),
		PartySize:       input.PartySize.Int(),
		SpecialRequests: input.SpecialRequests,
		Status:          status.String(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isSlotConflict(err) {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeDuplicate, booking.ErrSlotTaken)
	}
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInsert, err)
	}
	reservation, err := mapReservation(model)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	return reservation, nil
}

func (store *Store) GetReservation(ctx context.Context, reservationID booking.ReservationID) (booking.ReservationDetail, error) {
	var row reservationDetailRow
	err := store.detailQuery(ctx).
		Where("reservations.id = ?", reservationID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeGet, booking.ErrReservationNotFound)
		}
		return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeGet, err)
	}
	detail, err := mapReservationDetail(row)
	if err != nil {
		return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	return detail, nil
}

func (store *Store) GetReservationOwned(ctx context.Context, reservationID booking.ReservationID, userID booking.UserID) (booking.ReservationDetail, error) {
	var row reservationDetailRow
	err := store.detailQuery(ctx).
		Where("reservations.id = ? AND reservations.user_id = ?", reservationID.String(), userID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeGet, booking.ErrReservationNotFound)
		}
		return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeGet, err)
	}
	detail, err := mapReservationDetail(row)
	if err != nil {
		return booking.ReservationDetail{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	return detail, nil
}

func (store *Store) ListUserReservations(ctx context.Context, userID booking.UserID) ([]booking.ReservationDetail, error) {
	var rows []reservationDetailRow
	err := store.detailQuery(ctx).
		Where("reservations.user_id = ?", userID.String()).
		Order("reservations.reservation_date DESC, reservations.reservation_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReservation, errorCodeList, err)
	}
	return mapReservationDetails(rows)
}

func (store *Store) ListReservations(ctx context.Context, filter booking.AdminFilter) ([]booking.ReservationDetail, error) {
	query := store.detailQuery(ctx)
	if filter.Status != "" {
		query = query.Where("reservations.status = ?", filter.Status.String())
	}
	if filter.HasDates {
		query = query.Where("reservations.reservation_date BETWEEN ? AND ?", filter.FromDate.String(), filter.ToDate.String())
	}
	var rows []reservationDetailRow
	err := query.
		Order("reservations.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReservation, errorCodeList, err)
	}
	return mapReservationDetails(rows)
}

func (store *Store) UpdateReservationStatus(ctx context.Context, reservationID booking.ReservationID, from booking.ReservationStatus, to booking.ReservationStatus) (booking.Reservation, error) {
	result := store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("id = ? AND status = ?", reservationID.String(), from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, booking.ErrInvalidTransition)
	}
	var model ReservationModel
	err := store.db.WithContext(ctx).
		Where("id = ?", reservationID.String()).
		Take(&model).Error
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeGet, err)
	}
	reservation, err := mapReservation(model)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	return reservation, nil
}

func (store *Store) ListAvailableTables(ctx context.Context, restaurantID booking.RestaurantID, date booking.SlotDate, slotTime booking.SlotTime, minCapacity int) ([]booking.Table, error) {
	occupied := store.db.
		Model(&ReservationModel{}).
		Select("table_id").
		Where("reservation_date = ? AND reservation_time = ?", date.String(), slotTime.String()).
		Where("status IN ?", activeStatuses)
	var models []TableModel
	err := store.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID.String()).
		Where("status = ?", booking.TableAvailable.String()).
		Where("capacity >= ?", minCapacity).
		Where("id NOT IN (?)", occupied).
		Order("capacity ASC, table_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectTable, errorCodeList, err)
	}
	tables := make([]booking.Table, 0, len(models))
	for _, model := range models {
		table, err := mapTable(model)
		if err != nil {
			return nil, wrapStoreError(errorSubjectTable, errorCodeInvalid, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (store *Store) CountByStatus(ctx context.Context) (booking.StatusCounts, error) {
	var rows []statusCountRow
	err := store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return booking.StatusCounts{}, wrapStoreError(errorSubjectReservation, errorCodeCount, err)
	}
	var counts booking.StatusCounts
	for _, row := range rows {
		counts.Total += row.Total
		switch booking.ReservationStatus(row.Status) {
		case booking.StatusPending:
			counts.Pending = row.Total
		case booking.StatusConfirmed:
			counts.Confirmed = row.Total
		case booking.StatusRejected:
			counts.Rejected = row.Total
		case booking.StatusCancelled:
			counts.Cancelled = row.Total
		}
	}
	return counts, nil
}

func (store *Store) ListRestaurants(ctx context.Context, filter catalog.BrowseFilter) ([]catalog.Restaurant, error) {
	query := store.db.WithContext(ctx).
		Model(&RestaurantModel{}).
		Where("status = ?", catalog.RestaurantActive.String())
	if filter.Cuisine != "" {
		query = query.Where("lower(cuisine_type) LIKE ?", likePattern(filter.Cuisine))
	}
	if filter.PriceRange != "" {
		query = query.Where("price_range = ?", filter.PriceRange)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("lower(name) LIKE ? OR lower(description) LIKE ? OR lower(cuisine_type) LIKE ?", pattern, pattern, pattern)
	}
	var models []RestaurantModel
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, wrapStoreError(errorSubjectRestaurant, errorCodeList, err)
	}
	return mapRestaurants(models)
}

func (store *Store) GetRestaurant(ctx context.Context, restaurantID booking.RestaurantID) (catalog.Restaurant, []booking.Table, error) {
	var model RestaurantModel
	err := store.db.WithContext(ctx).
		Where("id = ?", restaurantID.String()).
		Where("status = ?", catalog.RestaurantActive.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Restaurant{}, nil, wrapStoreError(errorSubjectRestaurant, errorCodeGet, catalog.ErrRestaurantNotFound)
		}
		return catalog.Restaurant{}, nil, wrapStoreError(errorSubjectRestaurant, errorCodeGet, err)
	}
	restaurant, err := mapRestaurant(model)
	if err != nil {
		return catalog.Restaurant{}, nil, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	tables, err := store.ListTables(ctx, restaurantID)
	if err != nil {
		return catalog.Restaurant{}, nil, err
	}
	return restaurant, tables, nil
}

func (store *Store) GetRestaurantOwner(ctx context.Context, restaurantID booking.RestaurantID) (booking.UserID, error) {
	var model RestaurantModel
	err := store.db.WithContext(ctx).
		Select("id", "owner_id").
		Where("id = ?", restaurantID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.UserID{}, wrapStoreError(errorSubjectRestaurant, errorCodeGet, catalog.ErrRestaurantNotFound)
		}
		return booking.UserID{}, wrapStoreError(errorSubjectRestaurant, errorCodeGet, err)
	}
	ownerID, err := booking.NewUserID(model.OwnerID)
	if err != nil {
		return booking.UserID{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	return ownerID, nil
}

func (store *Store) CreateRestaurant(ctx context.Context, ownerID booking.UserID, fields catalog.RestaurantFields) (catalog.Restaurant, error) {
	hours, err := openingHoursJSON(fields.OpeningHours)
	if err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	model := RestaurantModel{
		OwnerID:      ownerID.String(),
		Name:         fields.Name,
		Description:  fields.Description,
		Address:      fields.Address,
		Phone:        fields.Phone,
		Email:        fields.Email,
		CuisineType:  fields.CuisineType,
		PriceRange:   fields.PriceRange,
		Capacity:     fields.Capacity,
		ImageURL:     fields.ImageURL,
		OpeningHours: hours,
		Status:       fields.Status.String(),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeCreate, err)
	}
	return mapRestaurant(model)
}

func (store *Store) UpdateRestaurant(ctx context.Context, restaurantID booking.RestaurantID, fields catalog.RestaurantFields) (catalog.Restaurant, error) {
	var model RestaurantModel
	err := store.db.WithContext(ctx).
		Where("id = ?", restaurantID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeGet, catalog.ErrRestaurantNotFound)
		}
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeGet, err)
	}
	hours, err := openingHoursJSON(fields.OpeningHours)
	if err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	model.Name = fields.Name
	model.Description = fields.Description
	model.Address = fields.Address
	model.Phone = fields.Phone
	model.Email = fields.Email
	model.CuisineType = fields.CuisineType
	model.PriceRange = fields.PriceRange
	model.Capacity = fields.Capacity
	model.ImageURL = fields.ImageURL
	model.OpeningHours = hours
	model.Status = fields.Status.String()
	if err := store.db.WithContext(ctx).Save(&model).Error; err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeUpdate, err)
	}
	return mapRestaurant(model)
}

func (store *Store) ListOwnedRestaurants(ctx context.Context, ownerID booking.UserID) ([]catalog.Restaurant, error) {
	var models []RestaurantModel
	err := store.db.WithContext(ctx).
		Where("owner_id = ?", ownerID.String()).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectRestaurant, errorCodeList, err)
	}
	restaurants, err := mapRestaurants(models)
	if err != nil {
		return nil, err
	}
	return store.attachRestaurantCounts(ctx, restaurants)
}

func (store *Store) ListAllRestaurants(ctx context.Context) ([]catalog.Restaurant, error) {
	var models []RestaurantModel
	err := store.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectRestaurant, errorCodeList, err)
	}
	restaurants, err := mapRestaurants(models)
	if err != nil {
		return nil, err
	}
	restaurants, err = store.attachRestaurantCounts(ctx, restaurants)
	if err != nil {
		return nil, err
	}
	return store.attachRestaurantOwners(ctx, restaurants)
}

func (store *Store) CountActiveRestaurants(ctx context.Context) (int64, error) {
	var total int64
	err := store.db.WithContext(ctx).
		Model(&RestaurantModel{}).
		Where("status = ?", catalog.RestaurantActive.String()).
		Count(&total).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectRestaurant, errorCodeCount, err)
	}
	return total, nil
}

func (store *Store) ListTables(ctx context.Context, restaurantID booking.RestaurantID) ([]booking.Table, error) {
	var models []TableModel
	err := store.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID.String()).
		Order("table_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectTable, errorCodeList, err)
	}
	tables := make([]booking.Table, 0, len(models))
	for _, model := range models {
		table, err := mapTable(model)
		if err != nil {
			return nil, wrapStoreError(errorSubjectTable, errorCodeInvalid, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (store *Store) InsertTable(ctx context.Context, restaurantID booking.RestaurantID, tableNumber int, capacity int) (booking.Table, error) {
	model := TableModel{
		RestaurantID: restaurantID.String(),
		TableNumber:  tableNumber,
		Capacity:     capacity,
		Status:       booking.TableAvailable.String(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isTableNumberConflict(err) {
		return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeDuplicate, catalog.ErrTableNumberTaken)
	}
	if err != nil {
		return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeCreate, err)
	}
	table, err := mapTable(model)
	if err != nil {
		return booking.Table{}, wrapStoreError(errorSubjectTable, errorCodeInvalid, err)
	}
	return table, nil
}

func (store *Store) DeleteTable(ctx context.Context, tableID booking.TableID) error {
	result := store.db.WithContext(ctx).
		Where("id = ?", tableID.String()).
		Delete(&TableModel{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectTable, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectTable, errorCodeDelete, catalog.ErrTableNotFound)
	}
	return nil
}

func (store *Store) CountUpcomingActiveReservations(ctx context.Context, tableID booking.TableID, fromDate booking.SlotDate) (int64, error) {
	var total int64
	err := store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("table_id = ? AND reservation_date >= ?", tableID.String(), fromDate.String()).
		Where("status IN ?", activeStatuses).
		Count(&total).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectReservation, errorCodeCount, err)
	}
	return total, nil
}

func (store *Store) GetUserByGoogleID(ctx context.Context, googleID string) (identity.User, error) {
	var model UserModel
	err := store.db.WithContext(ctx).
		Where("google_id = ?", googleID).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, identity.ErrUserNotFound)
		}
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return mapUser(model)
}

func (store *Store) GetUser(ctx context.Context, userID booking.UserID) (identity.User, error) {
	var model UserModel
	err := store.db.WithContext(ctx).
		Where("id = ?", userID.String()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, identity.ErrUserNotFound)
		}
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return mapUser(model)
}

func (store *Store) CreateUser(ctx context.Context, profile identity.Profile, role identity.Role) (identity.User, error) {
	model := UserModel{
		GoogleID:  profile.GoogleID,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
		Role:      role.String(),
	}
	err := store.db.WithContext(ctx).Create(&model).Error
	if isEmailConflict(err) {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeDuplicate, identity.ErrEmailTaken)
	}
	if err != nil {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeCreate, err)
	}
	return mapUser(model)
}

func (store *Store) RefreshUserProfile(ctx context.Context, userID booking.UserID, profile identity.Profile) (identity.User, error) {
	result := store.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", userID.String()).
		Updates(map[string]interface{}{
			"email":      profile.Email,
			"name":       profile.Name,
			"avatar_url": profile.AvatarURL,
		})
	if isEmailConflict(result.Error) {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeDuplicate, identity.ErrEmailTaken)
	}
	if result.Error != nil {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeUpdate, identity.ErrUserNotFound)
	}
	return store.GetUser(ctx, userID)
}

func (store *Store) UpdateDisplayName(ctx context.Context, userID booking.UserID, name string) (identity.User, error) {
	result := store.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", userID.String()).
		Update("name", name)
	if result.Error != nil {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeUpdate, identity.ErrUserNotFound)
	}
	return store.GetUser(ctx, userID)
}

func (store *Store) ListUsers(ctx context.Context) ([]identity.User, error) {
	var models []UserModel
	err := store.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeList, err)
	}
	var counts []groupCountRow
	err = store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Select("user_id as group_id, count(*) as total").
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeCount, err)
	}
	countByUser := make(map[string]int64, len(counts))
	for _, row := range counts {
		countByUser[row.GroupID] = row.Total
	}
	users := make([]identity.User, 0, len(models))
	for _, model := range models {
		user, err := mapUser(model)
		if err != nil {
			return nil, err
		}
		user.ReservationCount = countByUser[model.ID]
		users = append(users, user)
	}
	return users, nil
}

func (store *Store) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := store.db.WithContext(ctx).
		Model(&UserModel{}).
		Count(&total).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectUser, errorCodeCount, err)
	}
	return total, nil
}

const reservationDetailSelect = "reservations.id, reservations.user_id, reservations.restaurant_id, reservations.table_id, " +
	"reservations.reservation_date, reservations.reservation_time, reservations.party_size, reservations.special_requests, " +
	"reservations.status, reservations.created_at, reservations.updated_at, " +
	"restaurants.name AS restaurant_name, restaurants.address AS restaurant_address, restaurants.phone AS restaurant_phone, " +
	"restaurant_tables.table_number, restaurant_tables.capacity AS table_capacity, " +
	"users.name AS customer_name, users.email AS customer_email, users.avatar_url AS customer_avatar_url"

func (store *Store) detailQuery(ctx context.Context) *gorm.DB {
	return store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Select(reservationDetailSelect).
		Joins("JOIN restaurants ON restaurants.id = reservations.restaurant_id").
		Joins("JOIN restaurant_tables ON restaurant_tables.id = reservations.table_id").
		Joins("JOIN users ON users.id = reservations.user_id")
}

func (store *Store) attachRestaurantCounts(ctx context.Context, restaurants []catalog.Restaurant) ([]catalog.Restaurant, error) {
	if len(restaurants) == 0 {
		return restaurants, nil
	}
	var tableCounts []groupCountRow
	err := store.db.WithContext(ctx).
		Model(&TableModel{}).
		Select("restaurant_id as group_id, count(*) as total").
		Group("restaurant_id").
		Scan(&tableCounts).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectRestaurant, errorCodeCount, err)
	}
	var reservationCounts []groupCountRow
	err = store.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Select("restaurant_id as group_id, count(*) as total").
		Group("restaurant_id").
		Scan(&reservationCounts).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectRestaurant, errorCodeCount, err)
	}
	tablesByRestaurant := make(map[string]int64, len(tableCounts))
	for _, row := range tableCounts {
		tablesByRestaurant[row.GroupID] = row.Total
	}
	reservationsByRestaurant := make(map[string]int64, len(reservationCounts))
	for _, row := range reservationCounts {
		reservationsByRestaurant[row.GroupID] = row.Total
	}
	for index := range restaurants {
		id := restaurants[index].ID.String()
		restaurants[index].TableCount = tablesByRestaurant[id]
		restaurants[index].ReservationCount = reservationsByRestaurant[id]
	}
	return restaurants, nil
}

func (store *Store) attachRestaurantOwners(ctx context.Context, restaurants []catalog.Restaurant) ([]catalog.Restaurant, error) {
	if len(restaurants) == 0 {
		return restaurants, nil
	}
	ownerIDs := make([]string, 0, len(restaurants))
	for _, restaurant := range restaurants {
		ownerIDs = append(ownerIDs, restaurant.OwnerID.String())
	}
	var owners []UserModel
	err := store.db.WithContext(ctx).
		Where("id IN ?", ownerIDs).
		Find(&owners).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeList, err)
	}
	ownersByID := make(map[string]UserModel, len(owners))
	for _, owner := range owners {
		ownersByID[owner.ID] = owner
	}
	for index := range restaurants {
		owner, ok := ownersByID[restaurants[index].OwnerID.String()]
		if !ok {
			continue
		}
		restaurants[index].OwnerName = owner.Name
		restaurants[index].OwnerEmail = owner.Email
	}
	return restaurants, nil
}

type reservationDetailRow struct {
	ID                string
	UserID            string
	RestaurantID      string
	TableID           string
	ReservationDate   string
	ReservationTime   string
	PartySize         int
	SpecialRequests   string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	RestaurantName    string
	RestaurantAddress string
	RestaurantPhone   string
	TableNumber       int
	TableCapacity     int
	CustomerName      string
	CustomerEmail     string
	CustomerAvatarURL string
}

type statusCountRow struct {
	Status string
	Total  int64
}

type groupCountRow struct {
	GroupID string
	Total   int64
}

func wrapStoreError(subject string, code string, err error) error {
	return booking.WrapError(errorOperationStore, subject, code, err)
}

func likePattern(raw string) string {
	return "%" + strings.ToLower(raw) + "%"
}

func mapTable(model TableModel) (booking.Table, error) {
	tableID, err := booking.NewTableID(model.ID)
	if err != nil {
		return booking.Table{}, err
	}
	restaurantID, err := booking.NewRestaurantID(model.RestaurantID)
	if err != nil {
		return booking.Table{}, err
	}
	status, err := booking.ParseTableStatus(model.Status)
	if err != nil {
		return booking.Table{}, err
	}
	return booking.Table{
		ID:           tableID,
		RestaurantID: restaurantID,
		TableNumber:  model.TableNumber,
		Capacity:     model.Capacity,
		Status:       status,
	}, nil
}

func mapReservation(model ReservationModel) (booking.Reservation, error) {
	reservationID, err := booking.NewReservationID(model.ID)
	if err != nil {
		return booking.Reservation{}, err
	}
	userID, err := booking.NewUserID(model.UserID)
	if err != nil {
		return booking.Reservation{}, err
	}
	restaurantID, err := booking.NewRestaurantID(model.RestaurantID)
	if err != nil {
		return booking.Reservation{}, err
	}
	tableID, err := booking.NewTableID(model.TableID)
	if err != nil {
		return booking.Reservation{}, err
	}
	date, err := booking.NewSlotDate(model.ReservationDate)
	if err != nil {
		return booking.Reservation{}, err
	}
	slotTime, err := booking.NewSlotTime(model.ReservationTime)
	if err != nil {
		return booking.Reservation{}, err
	}
	partySize, err := booking.NewPartySize(model.PartySize)
	if err != nil {
		return booking.Reservation{}, err
	}
	status, err := booking.ParseReservationStatus(model.Status)
	if err != nil {
		return booking.Reservation{}, err
	}
	return booking.Reservation{
		ID:              reservationID,
		UserID:          userID,
		RestaurantID:    restaurantID,
		TableID:         tableID,
		Date:            date,
		Time:            slotTime,
		PartySize:       partySize,
		SpecialRequests: model.SpecialRequests,
		Status:          status,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}, nil
}

func mapReservationDetail(row reservationDetailRow) (booking.ReservationDetail, error) {
	reservation, err := mapReservation(ReservationModel{
		ID:              row.ID,
		UserID:          row.UserID,
		RestaurantID:    row.RestaurantID,
		TableID:         row.TableID,
		ReservationDate: row.ReservationDate,
		ReservationTime: row.ReservationTime,
		PartySize:       row.PartySize,
		SpecialRequests: row.SpecialRequests,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	})
	if err != nil {
		return booking.ReservationDetail{}, err
	}
	return booking.ReservationDetail{
		Reservation:       reservation,
		RestaurantName:    row.RestaurantName,
		RestaurantAddress: row.RestaurantAddress,
		RestaurantPhone:   row.RestaurantPhone,
		TableNumber:       row.TableNumber,
		TableCapacity:     row.TableCapacity,
		CustomerName:      row.CustomerName,
		CustomerEmail:     row.CustomerEmail,
		CustomerAvatarURL: row.CustomerAvatarURL,
	}, nil
}

func mapReservationDetails(rows []reservationDetailRow) ([]booking.ReservationDetail, error) {
	details := make([]booking.ReservationDetail, 0, len(rows))
	for _, row := range rows {
		detail, err := mapReservationDetail(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
		}
		details = append(details, detail)
	}
	return details, nil
}

func mapRestaurant(model RestaurantModel) (catalog.Restaurant, error) {
	restaurantID, err := booking.NewRestaurantID(model.ID)
	if err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	ownerID, err := booking.NewUserID(model.OwnerID)
	if err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	status, err := catalog.ParseRestaurantStatus(model.Status)
	if err != nil {
		return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
	}
	hours := catalog.OpeningHours{}
	if len(model.OpeningHours) > 0 {
		if err := json.Unmarshal(model.OpeningHours, &hours); err != nil {
			return catalog.Restaurant{}, wrapStoreError(errorSubjectRestaurant, errorCodeInvalid, err)
		}
	}
	return catalog.Restaurant{
		ID:           restaurantID,
		OwnerID:      ownerID,
		Name:         model.Name,
		Description:  model.Description,
		Address:      model.Address,
		Phone:        model.Phone,
		Email:        model.Email,
		CuisineType:  model.CuisineType,
		PriceRange:   model.PriceRange,
		Capacity:     model.Capacity,
		ImageURL:     model.ImageURL,
		OpeningHours: hours,
		Status:       status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func mapRestaurants(models []RestaurantModel) ([]catalog.Restaurant, error) {
	restaurants := make([]catalog.Restaurant, 0, len(models))
	for _, model := range models {
		restaurant, err := mapRestaurant(model)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, nil
}

func mapUser(model UserModel) (identity.User, error) {
	userID, err := booking.NewUserID(model.ID)
	if err != nil {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeInvalid, err)
	}
	role, err := identity.ParseRole(model.Role)
	if err != nil {
		return identity.User{}, wrapStoreError(errorSubjectUser, errorCodeInvalid, err)
	}
	return identity.User{
		ID:        userID,
		GoogleID:  model.GoogleID,
		Email:     model.Email,
		Name:      model.Name,
		AvatarURL: model.AvatarURL,
		Role:      role,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func openingHoursJSON(hours catalog.OpeningHours) (datatypes.JSON, error) {
	if len(hours) == 0 {
		return datatypes.JSON([]byte(defaultOpeningHoursJSON)), nil
	}
	encoded, err := json.Marshal(hours)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}

func isSlotConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintActiveSlot
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}

func isTableNumberConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintRestaurantTableNumber
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}

func isEmailConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode && pgErr.ConstraintName == constraintUserEmail
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
