package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shareloop/service-booking/internal/domain/apperrors"
)

// Booking is the aggregate root for the booking domain. It holds one item
// for one booker over a time window and moves through the status state
// machine by owner decision only.
type Booking struct {
	id       uuid.UUID
	itemID   uuid.UUID
	bookerID uuid.UUID
	// ownerID is the item owner at booking time; it authorizes decisions
	// and owner-scoped queries without a join.
	ownerID uuid.UUID
	start   time.Time
	end     time.Time
	status  Status

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking with status WAITING. The window must be
// strictly positive: end equal to or before start is rejected.
func NewBooking(itemID, bookerID, ownerID uuid.UUID, start, end time.Time) (*Booking, error) {
	if !end.After(start) {
		return nil, apperrors.NewInvalidTimeRangeError("booking end must be strictly after start")
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		itemID:    itemID,
		bookerID:  bookerID,
		ownerID:   ownerID,
		start:     start.UTC(),
		end:       end.UTC(),
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, itemID, bookerID, ownerID uuid.UUID,
	start, end time.Time,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		ownerID:   ownerID,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// ItemID returns the booked item's identifier.
func (b *Booking) ItemID() uuid.UUID { return b.itemID }

// BookerID returns the requesting user's identifier.
func (b *Booking) BookerID() uuid.UUID { return b.bookerID }

// OwnerID returns the item owner's identifier.
func (b *Booking) OwnerID() uuid.UUID { return b.ownerID }

// Start returns the beginning of the booking window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the booking window.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Decide applies the owner's decision: approve moves the booking to
// APPROVED, otherwise to REJECTED. Deciding an already approved booking is
// an error; a rejected booking may be decided again.
func (b *Booking) Decide(approve bool) error {
	if b.status == StatusApproved {
		return apperrors.NewAlreadyApprovedError(b.id.String())
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return apperrors.NewConflictError("booking cannot be decided from status " + b.status.String())
	}

	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// IsCurrent reports whether the booking window spans ref (closed bounds on
// both ends).
func (b *Booking) IsCurrent(ref time.Time) bool {
	return !b.start.After(ref) && !b.end.Before(ref)
}

// IsPast reports whether the booking ended strictly before ref.
func (b *Booking) IsPast(ref time.Time) bool {
	return b.end.Before(ref)
}

// IsFuture reports whether the booking starts strictly after ref.
func (b *Booking) IsFuture(ref time.Time) bool {
	return b.start.After(ref)
}
