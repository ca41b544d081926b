package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// TransactionType is the side of a party ledger entry
type TransactionType string

const (
	// TransactionTypeDebit means the party owes the shop
	TransactionTypeDebit TransactionType = "debit"
	// TransactionTypeCredit means the shop owes the party
	TransactionTypeCredit TransactionType = "credit"
)

func (t TransactionType) String() string {
	return string(t)
}

// Opposite returns the offsetting entry type
func (t TransactionType) Opposite() TransactionType {
	if t == TransactionTypeDebit {
		return TransactionTypeCredit
	}
	return TransactionTypeDebit
}

func (t TransactionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TransactionType(str)
	return nil
}

func (t TransactionType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TransactionType) Scan(value interface{}) error {
	if value == nil {
		*t = TransactionTypeDebit
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = TransactionType(v)
	case []byte:
		*t = TransactionType(string(v))
	}
	return nil
}
