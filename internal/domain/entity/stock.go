package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock is the on-hand quantity of one catalog item. Items without a row
// have never been stocked.
type Stock struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	ItemKind  enum.ItemKind `gorm:"size:20;not null;uniqueIndex:idx_stock_item" json:"item_kind"`
	ItemID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item" json:"item_id"`
	Quantity  int           `gorm:"not null;default:0" json:"quantity"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Stock) TableName() string {
	return "stocks"
}

// Ref returns the catalog item this stock row counts
func (s Stock) Ref() ItemRef {
	return NewItemRef(s.ItemKind, s.ItemID)
}
