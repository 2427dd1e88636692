// Package inmemory provides in-memory implementations of the booking store
// and the directory ports. Each store is an injected instance owning its own
// state, constructed per process or per test.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/booking"
)

// BookingStore is an in-memory implementation of booking.Repository.
type BookingStore struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*booking.Booking
}

// NewBookingStore creates an empty in-memory booking store.
func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[uuid.UUID]*booking.Booking)}
}

// Save persists a new booking.
func (s *BookingStore) Save(_ context.Context, bk *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[bk.ID()] = clone(bk)
	return nil
}

// Update persists a decided booking, enforcing the optimistic version check.
func (s *BookingStore) Update(_ context.Context, bk *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[bk.ID()]
	if !ok {
		return apperrors.NewNotFoundError("booking", bk.ID().String())
	}
	if stored.Version() != bk.Version()-1 {
		return apperrors.NewConflictError("booking was modified by another transaction")
	}
	s.bookings[bk.ID()] = clone(bk)
	return nil
}

// FindByID retrieves a booking by its unique identifier.
func (s *BookingStore) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bk, ok := s.bookings[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("booking", id.String())
	}
	return clone(bk), nil
}

// FindByBooker retrieves all bookings made by a user.
func (s *BookingStore) FindByBooker(_ context.Context, bookerID uuid.UUID, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.BookerID() == bookerID
	}), nil
}

// FindCurrentByBooker retrieves a user's bookings spanning now.
func (s *BookingStore) FindCurrentByBooker(_ context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.IsCurrent(now)
	}), nil
}

// FindPastByBooker retrieves a user's bookings that ended before now.
func (s *BookingStore) FindPastByBooker(_ context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.IsPast(now)
	}), nil
}

// FindFutureByBooker retrieves a user's bookings that start after now.
func (s *BookingStore) FindFutureByBooker(_ context.Context, bookerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.IsFuture(now)
	}), nil
}

// FindByBookerAndStatus retrieves a user's bookings in the given status.
func (s *BookingStore) FindByBookerAndStatus(_ context.Context, bookerID uuid.UUID, status booking.Status, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.BookerID() == bookerID && b.Status() == status
	}), nil
}

// FindByOwner retrieves all bookings against items owned by a user.
func (s *BookingStore) FindByOwner(_ context.Context, ownerID uuid.UUID, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.OwnerID() == ownerID
	}), nil
}

// FindCurrentByOwner retrieves an owner's bookings spanning now.
func (s *BookingStore) FindCurrentByOwner(_ context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.OwnerID() == ownerID && b.IsCurrent(now)
	}), nil
}

// FindPastByOwner retrieves an owner's bookings that ended before now.
func (s *BookingStore) FindPastByOwner(_ context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.OwnerID() == ownerID && b.IsPast(now)
	}), nil
}

// FindFutureByOwner retrieves an owner's bookings that start after now.
func (s *BookingStore) FindFutureByOwner(_ context.Context, ownerID uuid.UUID, now time.Time, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.OwnerID() == ownerID && b.IsFuture(now)
	}), nil
}

// FindByOwnerAndStatus retrieves an owner's bookings in the given status.
func (s *BookingStore) FindByOwnerAndStatus(_ context.Context, ownerID uuid.UUID, status booking.Status, p booking.Page) ([]*booking.Booking, error) {
	return s.selectDesc(p, func(b *booking.Booking) bool {
		return b.OwnerID() == ownerID && b.Status() == status
	}), nil
}

// FindByItem retrieves every booking for an item ordered by start ascending.
func (s *BookingStore) FindByItem(_ context.Context, itemID uuid.UUID) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*booking.Booking
	for _, b := range s.bookings {
		if b.ItemID() == itemID {
			result = append(result, clone(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().Before(result[j].Start())
	})
	return result, nil
}

// ListAll retrieves all bookings newest-first with pagination (admin).
func (s *BookingStore) ListAll(_ context.Context, p booking.Page) ([]*booking.Booking, int64, error) {
	s.mu.RLock()
	total := int64(len(s.bookings))
	all := make([]*booking.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		all = append(all, clone(b))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})
	return paginate(all, p), total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (s *BookingStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, b := range s.bookings {
		counts[b.Status().String()]++
	}
	return counts, nil
}

func (s *BookingStore) selectDesc(p booking.Page, match func(*booking.Booking) bool) []*booking.Booking {
	s.mu.RLock()
	var result []*booking.Booking
	for _, b := range s.bookings {
		if match(b) {
			result = append(result, clone(b))
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start().After(result[j].Start())
	})
	return paginate(result, p)
}

func paginate(bookings []*booking.Booking, p booking.Page) []*booking.Booking {
	if p.Offset >= len(bookings) {
		return nil
	}
	end := len(bookings)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return bookings[p.Offset:end]
}

func clone(b *booking.Booking) *booking.Booking {
	return booking.Reconstruct(
		b.ID(),
		b.ItemID(),
		b.BookerID(),
		b.OwnerID(),
		b.Start(),
		b.End(),
		b.Status(),
		b.Version(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
}
