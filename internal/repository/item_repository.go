package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-booking/internal/domain/apperrors"
	"github.com/shareloop/service-booking/internal/domain/item"
)

// ItemModel is the GORM model for the items table, maintained by the item
// service and read here as a directory.
type ItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name        string     `gorm:"not null;size:255"`
	Description string     `gorm:"size:2000"`
	Available   bool       `gorm:"not null;default:false"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	RequestID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemDirectory is the GORM-backed item lookup adapter.
type GormItemDirectory struct {
	db *gorm.DB
}

// NewGormItemDirectory creates a new GormItemDirectory.
func NewGormItemDirectory(db *gorm.DB) *GormItemDirectory {
	return &GormItemDirectory{db: db}
}

// FindByID retrieves an item by its unique identifier.
func (r *GormItemDirectory) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("item", id.String())
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return &item.Item{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Available:   model.Available,
		OwnerID:     model.OwnerID,
		RequestID:   model.RequestID,
	}, nil
}
