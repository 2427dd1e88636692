package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shareloop/service-booking/internal/domain/booking"
)

const scheduleCacheTTL = 5 * time.Minute

// BookingRef is a display-only reference to a booking in an item's schedule.
type BookingRef struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ScheduleEntry is the cached representation of one booking in an item's
// ascending-start schedule.
type ScheduleEntry struct {
	ID       uuid.UUID      `json:"id"`
	BookerID uuid.UUID      `json:"booker_id"`
	Status   booking.Status `json:"status"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
}

// AvailabilityService derives the last and next booking per item for
// display. It reads an item's schedule through a cache-aside Redis cache and
// never mutates booking state.
type AvailabilityService struct {
	repo   booking.Repository
	cache  *redis.Client
	logger *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(repo booking.Repository, cache *redis.Client, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, cache: cache, logger: logger}
}

// LastAndNext returns the latest APPROVED booking ending before ref and the
// first APPROVED booking starting after ref. Either may be nil; an item with
// no bookings yields (nil, nil).
func (s *AvailabilityService) LastAndNext(ctx context.Context, itemID uuid.UUID, ref time.Time) (*BookingRef, *BookingRef, error) {
	schedule, err := s.loadSchedule(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}

	var last, next *ScheduleEntry
	for i := range schedule {
		entry := &schedule[i]
		if entry.Status != booking.StatusApproved {
			continue
		}
		if entry.End.Before(ref) {
			last = entry
			continue
		}
		if entry.Start.After(ref) {
			next = entry
			break
		}
	}

	return toBookingRef(last), toBookingRef(next), nil
}

// loadSchedule returns the item's bookings ordered by start ascending,
// serving from Redis when possible. Cache failures fall through to the store.
func (s *AvailabilityService) loadSchedule(ctx context.Context, itemID uuid.UUID) ([]ScheduleEntry, error) {
	key := scheduleCacheKey(itemID)

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached []ScheduleEntry
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			s.logger.Debug("discarding malformed schedule cache entry", zap.String("key", key))
		} else if err != redis.Nil {
			s.logger.Debug("schedule cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	bookings, err := s.repo.FindByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item schedule: %w", err)
	}

	schedule := make([]ScheduleEntry, len(bookings))
	for i, bk := range bookings {
		schedule[i] = ScheduleEntry{
			ID:       bk.ID(),
			BookerID: bk.BookerID(),
			Status:   bk.Status(),
			Start:    bk.Start(),
			End:      bk.End(),
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(schedule); err == nil {
			if err := s.cache.Set(ctx, key, raw, scheduleCacheTTL).Err(); err != nil {
				s.logger.Debug("schedule cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return schedule, nil
}

func toBookingRef(entry *ScheduleEntry) *BookingRef {
	if entry == nil {
		return nil
	}
	return &BookingRef{
		ID:       entry.ID,
		BookerID: entry.BookerID,
		Start:    entry.Start,
		End:      entry.End,
	}
}

// scheduleCacheKey is the Redis key holding an item's cached schedule.
func scheduleCacheKey(itemID uuid.UUID) string {
	return fmt.Sprintf("bookings:item:%s", itemID)
}
