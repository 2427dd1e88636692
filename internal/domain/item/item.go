package item

import (
	"context"

	"github.com/google/uuid"
)

// Item is a listed thing that can be booked. Item lifecycle is managed
// elsewhere; this service reads id, ownership and the availability flag.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	Available   bool
	OwnerID     uuid.UUID
	// RequestID links the item to the request it was listed for, if any.
	RequestID *uuid.UUID
}

// Directory is the consumed lookup contract for items.
type Directory interface {
	// FindByID returns the item or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
}
