package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order is a sale to a customer or a purchase from a supplier
type Order struct {
	ID                  uuid.UUID                       `gorm:"type:uuid;primary_key" json:"id"`
	ReferenceNo         string                          `gorm:"size:50;uniqueIndex;not null" json:"reference_no"`
	PartyID             uuid.UUID                       `gorm:"type:uuid;not null;index" json:"party_id"`
	OrderDate           time.Time                       `gorm:"type:date;not null" json:"order_date"`
	Type                enum.OrderType                  `gorm:"size:20;not null;index" json:"type"`
	Status              enum.OrderStatus                `gorm:"size:20;not null;default:pending" json:"status"`
	PaymentStatus       enum.PaymentStatus              `gorm:"size:20;not null;default:unpaid" json:"payment_status"`
	TotalAmount         decimal.Decimal                 `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	BillDetails         datatypes.JSONType[BillDetails] `json:"bill_details"`
	Message             *string                         `gorm:"type:text" json:"message,omitempty"`
	LedgerTransactionID *uuid.UUID                      `gorm:"type:uuid" json:"ledger_transaction_id,omitempty"` // entry posted when the order was placed
	CreatedAt           time.Time                       `json:"created_at"`
	UpdatedAt           time.Time                       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt                  `gorm:"index" json:"-"`

	// Relationships
	Party        *Party        `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	Items        []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:OrderID" json:"transactions,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}

// Bill returns the stored bill snapshot
func (o *Order) Bill() BillDetails {
	return o.BillDetails.Data()
}

// SetBill replaces the stored bill snapshot
func (o *Order) SetBill(b BillDetails) {
	o.BillDetails = datatypes.NewJSONType(b)
}

// HasBill reports whether a bill snapshot has been written
func (o *Order) HasBill() bool {
	b := o.BillDetails.Data()
	return b.PartyName != "" || len(b.Items) > 0
}

// OrderItem is one line of an order
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemKind   enum.ItemKind   `gorm:"size:20;not null" json:"item_kind"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Position   int             `gorm:"not null;default:0" json:"position"` // line number on the bill, from 0
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Item is resolved from the catalog on read
	Item *CatalogItem `gorm:"-" json:"item,omitempty"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Ref returns the catalog item this line orders
func (oi OrderItem) Ref() ItemRef {
	return NewItemRef(oi.ItemKind, oi.ItemID)
}

// Reprice sets quantity and unit price and recomputes the line total
func (oi *OrderItem) Reprice(quantity int, unitPrice decimal.Decimal) {
	oi.Quantity = quantity
	oi.UnitPrice = unitPrice
	oi.TotalPrice = LineTotal(quantity, unitPrice)
}

// LineTotal is quantity × unit price rounded to cents. Unit prices carry at
// most two decimals, so the rounding never drops value.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
