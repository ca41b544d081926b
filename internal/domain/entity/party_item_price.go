package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartyItemPrice overrides the default order price of one item for one party
type PartyItemPrice struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	PartyID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_party_item_price" json:"party_id"`
	ItemKind  enum.ItemKind   `gorm:"size:20;not null;uniqueIndex:idx_party_item_price" json:"item_kind"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_party_item_price" json:"item_id"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (p *PartyItemPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (PartyItemPrice) TableName() string {
	return "party_item_prices"
}

// Ref returns the catalog item the override applies to
func (p PartyItemPrice) Ref() ItemRef {
	return NewItemRef(p.ItemKind, p.ItemID)
}
