package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PartyKind represents the role of a counterparty
type PartyKind string

const (
	PartyKindCustomer PartyKind = "customer"
	PartyKindSupplier PartyKind = "supplier"
)

func (k PartyKind) String() string {
	return string(k)
}

func (k PartyKind) IsValid() bool {
	return k == PartyKindCustomer || k == PartyKindSupplier
}

func (k PartyKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *PartyKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = PartyKind(str)
	return nil
}

func (k PartyKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *PartyKind) Scan(value interface{}) error {
	if value == nil {
		*k = PartyKindCustomer
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = PartyKind(v)
	case []byte:
		*k = PartyKind(string(v))
	}
	return nil
}
