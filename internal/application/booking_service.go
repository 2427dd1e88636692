package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/booking"
	"github.com/shareloop/service-booking/internal/domain/item"
	"github.com/shareloop/service-booking/internal/domain/user"
	"github.com/shareloop/service-booking/internal/events"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID       uuid.UUID      `json:"id"`
	ItemID   uuid.UUID      `json:"itemId"`
	BookerID uuid.UUID      `json:"bookerId"`
	OwnerID  uuid.UUID      `json:"ownerId"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Status   booking.Status `json:"status"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation checks, authorization, the approval state machine and
// the filtered list queries.
type BookingService struct {
	repo      booking.Repository
	users     user.Directory
	items     item.Directory
	publisher events.Publisher
	cache     *redis.Client
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo booking.Repository,
	users user.Directory,
	items item.Directory,
	publisher events.Publisher,
	cache *redis.Client,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		users:     users,
		items:     items,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// Create validates and persists a new booking in WAITING status.
//
// Checks run in order: time window, booker existence, item existence, item
// availability, self-booking. Nothing is persisted when any check fails.
func (s *BookingService) Create(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if !req.End.After(req.Start) {
		return nil, apperrors.NewInvalidTimeRangeError("booking end must be strictly after start")
	}

	if _, err := s.users.FindByID(ctx, bookerID); err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !it.Available {
		return nil, apperrors.NewItemUnavailableError(it.ID.String())
	}
	if it.OwnerID == bookerID {
		return nil, apperrors.NewSelfBookingError()
	}

	bk, err := booking.NewBooking(it.ID, bookerID, it.OwnerID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.invalidateSchedule(ctx, bk.ItemID())

	evt := events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    bk.OwnerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a booking readable only by its booker or the item
// owner.
func (s *BookingService) GetBooking(ctx context.Context, requesterID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.BookerID() != requesterID && bk.OwnerID() != requesterID {
		return nil, apperrors.NewNotAuthorizedError("booking is not visible to this user")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// Approve applies the item owner's decision to a booking: APPROVED when
// approved is true, REJECTED otherwise. A booking already in APPROVED cannot
// be decided again. The update is guarded by an optimistic version check; a
// concurrent decision surfaces as a Conflict error.
func (s *BookingService) Approve(ctx context.Context, ownerID, bookingID uuid.UUID, approved bool) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.OwnerID() != ownerID {
		return nil, apperrors.NewNotAuthorizedError("only the item owner can decide a booking")
	}

	if err := bk.Decide(approved); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.invalidateSchedule(ctx, bk.ItemID())

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	evt := events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.ItemID(),
		BookerID:   bk.BookerID(),
		OwnerID:    bk.OwnerID(),
		Status:     bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ListByBooker returns the bookings made by a user, narrowed by the state
// filter and ordered by start descending.
func (s *BookingService) ListByBooker(ctx context.Context, userID uuid.UUID, filter booking.StateFilter, p booking.Page) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var (
		bookings []*booking.Booking
		err      error
	)
	switch filter {
	case booking.FilterAll:
		bookings, err = s.repo.FindByBooker(ctx, userID, p)
	case booking.FilterCurrent:
		bookings, err = s.repo.FindCurrentByBooker(ctx, userID, now, p)
	case booking.FilterPast:
		bookings, err = s.repo.FindPastByBooker(ctx, userID, now, p)
	case booking.FilterFuture:
		bookings, err = s.repo.FindFutureByBooker(ctx, userID, now, p)
	case booking.FilterWaiting:
		bookings, err = s.repo.FindByBookerAndStatus(ctx, userID, booking.StatusWaiting, p)
	case booking.FilterRejected:
		bookings, err = s.repo.FindByBookerAndStatus(ctx, userID, booking.StatusRejected, p)
	default:
		return nil, apperrors.NewInvalidFilterError(string(filter))
	}
	if err != nil {
		return nil, err
	}

	return toBookingDTOs(bookings), nil
}

// ListByOwner returns the bookings against items owned by a user, narrowed
// by the state filter and ordered by start descending.
func (s *BookingService) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter booking.StateFilter, p booking.Page) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var (
		bookings []*booking.Booking
		err      error
	)
	switch filter {
	case booking.FilterAll:
		bookings, err = s.repo.FindByOwner(ctx, ownerID, p)
	case booking.FilterCurrent:
		bookings, err = s.repo.FindCurrentByOwner(ctx, ownerID, now, p)
	case booking.FilterPast:
		bookings, err = s.repo.FindPastByOwner(ctx, ownerID, now, p)
	case booking.FilterFuture:
		bookings, err = s.repo.FindFutureByOwner(ctx, ownerID, now, p)
	case booking.FilterWaiting:
		bookings, err = s.repo.FindByOwnerAndStatus(ctx, ownerID, booking.StatusWaiting, p)
	case booking.FilterRejected:
		bookings, err = s.repo.FindByOwnerAndStatus(ctx, ownerID, booking.StatusRejected, p)
	default:
		return nil, apperrors.NewInvalidFilterError(string(filter))
	}
	if err != nil {
		return nil, err
	}

	return toBookingDTOs(bookings), nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, p booking.Page) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:       bk.ID(),
		ItemID:   bk.ItemID(),
		BookerID: bk.BookerID(),
		OwnerID:  bk.OwnerID(),
		Start:    bk.Start(),
		End:      bk.End(),
		Status:   bk.Status(),
	}
}

func toBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

// invalidateSchedule drops the cached per-item schedule after a mutation.
// Cache failures are not fatal; the next read falls through to the store.
func (s *BookingService) invalidateSchedule(ctx context.Context, itemID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, scheduleCacheKey(itemID)).Err(); err != nil {
		s.logger.Debug("failed to invalidate schedule cache",
			zap.String("item_id", itemID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := events.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
