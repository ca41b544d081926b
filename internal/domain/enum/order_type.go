package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderType distinguishes sales to customers from purchases from suppliers.
// It never changes after an order is created.
type OrderType string

const (
	OrderTypeSale     OrderType = "sale"
	OrderTypePurchase OrderType = "purchase"
)

func (t OrderType) String() string {
	return string(t)
}

// IsValid reports whether t is sale or purchase
func (t OrderType) IsValid() bool {
	return t == OrderTypeSale || t == OrderTypePurchase
}

// StockSign is the direction stock moves per unit ordered: -1 for sales, +1 for purchases.
func (t OrderType) StockSign() int {
	if t == OrderTypeSale {
		return -1
	}
	return 1
}

// LedgerType is the entry type posted when an order of this type is placed
func (t OrderType) LedgerType() TransactionType {
	if t == OrderTypeSale {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = OrderType(str)
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = OrderType(v)
	case []byte:
		*t = OrderType(string(v))
	}
	return nil
}
