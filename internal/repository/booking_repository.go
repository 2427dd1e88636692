package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	StartAt   time.Time `gorm:"not null;index"`
	EndAt     time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository contract.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *booking.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking. The write is guarded by
// the previous version; zero affected rows means a concurrent writer won.
func (r *GormBookingRepository) Update(ctx context.Context, bk *booking.Booking) error {
	model := toBookingModel(bk)
	expectedVersion := bk.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBooker retrieves all bookings made by a user, newest start first.
func (r *GormBookingRepository) FindByBooker(ctx context.Context, bookerID uuid.UUID, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "booker_id = ?", bookerID)
}

// FindCurrentByBooker retrieves a user's bookings spanning now.
func (r *GormBookingRepository) FindCurrentByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "booker_id = ? AND start_at <= ? AND end_at >= ?", bookerID, now, now)
}

// FindPastByBooker retrieves a user's bookings that ended before now.
func (r *GormBookingRepository) FindPastByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "booker_id = ? AND end_at < ?", bookerID, now)
}

// FindFutureByBooker retrieves a user's bookings that start after now.
func (r *GormBookingRepository) FindFutureByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "booker_id = ? AND start_at > ?", bookerID, now)
}

// FindByBookerAndStatus retrieves a user's bookings in the given status.
func (r *GormBookingRepository) FindByBookerAndStatus(ctx context.Context, bookerID uuid.UUID, status booking.Status, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "booker_id = ? AND status = ?", bookerID, status.String())
}

// FindByOwner retrieves all bookings against a user's items, newest start first.
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "owner_id = ?", ownerID)
}

// FindCurrentByOwner retrieves an owner's bookings spanning now.
func (r *GormBookingRepository) FindCurrentByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "owner_id = ? AND start_at <= ? AND end_at >= ?", ownerID, now, now)
}

// FindPastByOwner retrieves an owner's bookings that ended before now.
func (r *GormBookingRepository) FindPastByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "owner_id = ? AND end_at < ?", ownerID, now)
}

// FindFutureByOwner retrieves an owner's bookings that start after now.
func (r *GormBookingRepository) FindFutureByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "owner_id = ? AND start_at > ?", ownerID, now)
}

// FindByOwnerAndStatus retrieves an owner's bookings in the given status.
func (r *GormBookingRepository) FindByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status booking.Status, p booking.Page) ([]*booking.Booking, error) {
	return r.find(ctx, p, "owner_id = ? AND status = ?", ownerID, status.String())
}

// FindByItem retrieves every booking for an item ordered by start ascending.
func (r *GormBookingRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]*booking.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("start_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find item bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, p booking.Page) ([]*booking.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func (r *GormBookingRepository) find(ctx context.Context, p booking.Page, query string, args ...interface{}) ([]*booking.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("start_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models)
}

// --- Conversion Helpers ---

func toBookingModel(bk *booking.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		OwnerID:   bk.OwnerID(),
		StartAt:   bk.Start(),
		EndAt:     bk.End(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*booking.Booking, error) {
	status, err := booking.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.OwnerID,
		m.StartAt,
		m.EndAt,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*booking.Booking, error) {
	bookings := make([]*booking.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
