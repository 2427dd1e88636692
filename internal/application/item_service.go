package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-booking/internal/domain/item"
)

// ItemDTO is the response representation of an item. The schedule fields are
// populated only for the item's owner.
type ItemDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Available   bool        `json:"available"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	RequestID   *uuid.UUID  `json:"requestId,omitempty"`
	LastBooking *BookingRef `json:"lastBooking,omitempty"`
	NextBooking *BookingRef `json:"nextBooking,omitempty"`
}

// ItemService serves the item view: the directory record enriched with the
// item's last and next booking when the caller owns it.
type ItemService struct {
	items        item.Directory
	availability *AvailabilityService
	logger       *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(items item.Directory, availability *AvailabilityService, logger *zap.Logger) *ItemService {
	return &ItemService{items: items, availability: availability, logger: logger}
}

// GetItem returns the item by id. When the requester is the owner, the view
// includes the last and next booking relative to now.
func (s *ItemService) GetItem(ctx context.Context, requesterID, itemID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	dto := &ItemDTO{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
	}

	if it.OwnerID == requesterID {
		last, next, err := s.availability.LastAndNext(ctx, it.ID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		dto.LastBooking = last
		dto.NextBooking = next
	}

	return dto, nil
}
