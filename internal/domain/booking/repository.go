package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Page bounds a list query.
type Page struct {
	Offset int
	Limit  int
}

// Repository defines the persistence contract for booking aggregates. All
// multi-row finders except FindByItem return bookings ordered by start
// descending; FindByItem orders by start ascending for schedule scans.
type Repository interface {
	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	// A version mismatch fails with a Conflict error.
	Update(ctx context.Context, b *Booking) error

	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByBooker retrieves all bookings made by a user.
	FindByBooker(ctx context.Context, bookerID uuid.UUID, p Page) ([]*Booking, error)

	// FindCurrentByBooker retrieves a user's bookings with start <= now <= end.
	FindCurrentByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindPastByBooker retrieves a user's bookings with end < now.
	FindPastByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindFutureByBooker retrieves a user's bookings with start > now.
	FindFutureByBooker(ctx context.Context, bookerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindByBookerAndStatus retrieves a user's bookings in the given status.
	FindByBookerAndStatus(ctx context.Context, bookerID uuid.UUID, status Status, p Page) ([]*Booking, error)

	// FindByOwner retrieves all bookings against items owned by a user.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, p Page) ([]*Booking, error)

	// FindCurrentByOwner retrieves an owner's bookings with start <= now <= end.
	FindCurrentByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindPastByOwner retrieves an owner's bookings with end < now.
	FindPastByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindFutureByOwner retrieves an owner's bookings with start > now.
	FindFutureByOwner(ctx context.Context, ownerID uuid.UUID, now time.Time, p Page) ([]*Booking, error)

	// FindByOwnerAndStatus retrieves an owner's bookings in the given status.
	FindByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status Status, p Page) ([]*Booking, error)

	// FindByItem retrieves every booking for an item ordered by start ascending.
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]*Booking, error)

	// ListAll retrieves all bookings newest-first with pagination (admin).
	ListAll(ctx context.Context, p Page) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
