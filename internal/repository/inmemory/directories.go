package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/item"
	"github.com/shareloop/service-booking/internal/domain/user"
)

// UserDirectory is an in-memory implementation of user.Directory.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User
}

// NewUserDirectory creates an empty in-memory user directory.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{users: make(map[uuid.UUID]user.User)}
}

// Put registers or replaces a user.
func (d *UserDirectory) Put(u user.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

// FindByID returns the user or a NotFound error.
func (d *UserDirectory) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user", id.String())
	}
	return &u, nil
}

// ItemDirectory is an in-memory implementation of item.Directory.
type ItemDirectory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]item.Item
}

// NewItemDirectory creates an empty in-memory item directory.
func NewItemDirectory() *ItemDirectory {
	return &ItemDirectory{items: make(map[uuid.UUID]item.Item)}
}

// Put registers or replaces an item.
func (d *ItemDirectory) Put(it item.Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[it.ID] = it
}

// FindByID returns the item or a NotFound error.
func (d *ItemDirectory) FindByID(_ context.Context, id uuid.UUID) (*item.Item, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	it, ok := d.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("item", id.String())
	}
	return &it, nil
}
