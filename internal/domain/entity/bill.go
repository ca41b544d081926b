package entity

import (
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// BillDetails is the party contact and line data frozen onto an order
// when it is placed or its items change
type BillDetails struct {
	PartyName    string     `json:"party_name"`
	PartyPhone   string     `json:"party_phone"`
	PartyAddress string     `json:"party_address"`
	PartyEmail   string     `json:"party_email"`
	Items        []BillItem `json:"items"`
}

// BillItem is one line of a bill snapshot
type BillItem struct {
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Type       enum.ItemKind   `json:"type"`
}

// NewBillDetails snapshots the party's contact fields with the given lines
func NewBillDetails(party *Party, items []BillItem) BillDetails {
	if items == nil {
		items = []BillItem{}
	}
	b := BillDetails{Items: items}
	if party != nil {
		b.PartyName = party.Name
		b.PartyPhone = deref(party.Phone)
		b.PartyAddress = deref(party.Address)
		b.PartyEmail = deref(party.Email)
	}
	return b
}
