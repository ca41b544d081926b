package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ItemKind identifies which catalog a line item points into
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindSet     ItemKind = "set"
	ItemKindAttar   ItemKind = "attar"
)

// ItemKinds lists every catalog kind in display order
var ItemKinds = []ItemKind{ItemKindProduct, ItemKindSet, ItemKindAttar}

func (k ItemKind) String() string {
	return string(k)
}

// IsValid reports whether k names one of the three catalogs
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindProduct, ItemKindSet, ItemKindAttar:
		return true
	}
	return false
}

// ParseItemKind converts a string to an ItemKind
func ParseItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown item kind %q", s)
	}
	return k, nil
}

func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*k = ItemKind(str)
	return nil
}

func (k ItemKind) Value() (driver.Value, error) {
	return string(k), nil
}

func (k *ItemKind) Scan(value interface{}) error {
	if value == nil {
		*k = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*k = ItemKind(v)
	case []byte:
		*k = ItemKind(string(v))
	}
	return nil
}
