package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is an entry in a party's ledger
type Transaction struct {
	ID              uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	PartyID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"party_id"`
	OrderID         *uuid.UUID           `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Type            enum.TransactionType `gorm:"size:10;not null" json:"type"`
	Amount          decimal.Decimal      `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     string               `gorm:"size:255;not null" json:"description"`
	TransactionDate time.Time            `gorm:"not null" json:"transaction_date"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Transaction) TableName() string {
	return "transactions"
}
