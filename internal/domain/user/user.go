package user

import (
	"context"

	"github.com/google/uuid"
)

// User is a marketplace account referenced by bookings. User lifecycle is
// managed elsewhere; this service only looks users up.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Directory is the consumed lookup contract for users.
type Directory interface {
	// FindByID returns the user or a NotFound error.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
