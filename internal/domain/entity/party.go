package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Party is a customer or supplier with a running account balance.
// A positive balance means the party owes the shop.
type Party struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Kind      enum.PartyKind  `gorm:"size:20;not null;default:customer" json:"kind"`
	Phone     *string         `gorm:"size:50" json:"phone,omitempty"`
	Email     *string         `gorm:"size:255" json:"email,omitempty"`
	Address   *string         `gorm:"type:text" json:"address,omitempty"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Party) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Party) TableName() string {
	return "parties"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
