package request

import (
	"errors"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of order dates
const DateLayout = "2006-01-02"

// OrderItemRequest names its catalog item with exactly one of product_id,
// product_set_id or attar_id
type OrderItemRequest struct {
	ProductID    *uuid.UUID       `json:"product_id"`
	ProductSetID *uuid.UUID       `json:"product_set_id"`
	AttarID      *uuid.UUID       `json:"attar_id"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
}

// ItemRef returns the single catalog item the line refers to
func (r OrderItemRequest) ItemRef() (entity.ItemRef, error) {
	var refs []entity.ItemRef
	if r.ProductID != nil {
		refs = append(refs, entity.NewItemRef(enum.ItemKindProduct, *r.ProductID))
	}
	if r.ProductSetID != nil {
		refs = append(refs, entity.NewItemRef(enum.ItemKindSet, *r.ProductSetID))
	}
	if r.AttarID != nil {
		refs = append(refs, entity.NewItemRef(enum.ItemKindAttar, *r.AttarID))
	}
	if len(refs) != 1 {
		return entity.ItemRef{}, errors.New("exactly one of product_id, product_set_id or attar_id is required")
	}
	return refs[0], nil
}

// CreateOrderRequest represents an order placement request
type CreateOrderRequest struct {
	PartyID   uuid.UUID          `json:"party_id"`
	OrderDate string             `json:"order_date"`
	Type      enum.OrderType     `json:"type"`
	Message   *string            `json:"message"`
	Items     []OrderItemRequest `json:"items"`
}

// Date parses order_date; an empty value yields the zero time
func (r CreateOrderRequest) Date() (time.Time, error) {
	if r.OrderDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, r.OrderDate)
}

// UpdateOrderItemRequest changes one existing order line
type UpdateOrderItemRequest struct {
	ID        uuid.UUID        `json:"id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// UpdateOrderRequest represents an order amendment. Omitted fields are left
// unchanged; omitting items skips line changes.
type UpdateOrderRequest struct {
	Status        *enum.OrderStatus        `json:"status"`
	PaymentStatus *enum.PaymentStatus      `json:"payment_status"`
	Message       *string                  `json:"message"`
	Items         []UpdateOrderItemRequest `json:"items"`
}

// PriceQuoteRequest represents the pricing quote query string
type PriceQuoteRequest struct {
	PartyID string `form:"party_id" binding:"required"`
	Kind    string `form:"kind" binding:"required"`
	ItemID  string `form:"item_id" binding:"required"`
}

// UpdateStoreSettingsRequest changes the store settings; gst_rate is a percentage
type UpdateStoreSettingsRequest struct {
	GSTRate *decimal.Decimal `json:"gst_rate"`
}
