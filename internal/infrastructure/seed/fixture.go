// Package seed loads YAML fixtures describing parties, catalog items, stock,
// price overrides and settings.
package seed

import (
	"fmt"
	"os"
	"sort"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document. Records refer to each other by key; ids
// are derived from keys unless given explicitly, so loading the same file
// twice yields the same rows.
type Fixture struct {
	Settings map[string]string `yaml:"settings"`
	Parties  []PartyFixture    `yaml:"parties"`
	Products []ItemFixture     `yaml:"products"`
	Sets     []ItemFixture     `yaml:"sets"`
	Attars   []ItemFixture     `yaml:"attars"`
	Prices   []PriceFixture    `yaml:"prices"`
}

type PartyFixture struct {
	Key     string `yaml:"key"`
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

type ItemFixture struct {
	Key       string `yaml:"key"`
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	SKU       string `yaml:"sku"`
	Price     string `yaml:"price"`
	CostPrice string `yaml:"cost_price"`
	// Stock creates a stock row when set
	Stock *int `yaml:"stock"`
}

type PriceFixture struct {
	Party string `yaml:"party"`
	Item  string `yaml:"item"`
	Price string `yaml:"price"`
}

// Dataset is a fixture resolved into entities
type Dataset struct {
	Parties  []entity.Party
	Products []entity.Product
	GiftSets []entity.GiftSet
	Attars   []entity.Attar
	Stocks   []entity.Stock
	Prices   []entity.PartyItemPrice
	Settings []entity.Setting
}

// LoadFile reads and resolves a fixture file
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and resolves a fixture document
func Parse(data []byte) (*Dataset, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return fx.Resolve()
}

// Resolve converts the fixture into entities, checking keys and amounts
func (fx *Fixture) Resolve() (*Dataset, error) {
	ds := &Dataset{}
	parties := make(map[string]uuid.UUID)
	items := make(map[string]entity.ItemRef)

	for i, p := range fx.Parties {
		if p.Key == "" || p.Name == "" {
			return nil, fmt.Errorf("parties[%d]: key and name are required", i)
		}
		if _, dup := parties[p.Key]; dup {
			return nil, fmt.Errorf("parties[%d]: duplicate key %q", i, p.Key)
		}
		id, err := recordID("party", p.Key, p.ID)
		if err != nil {
			return nil, fmt.Errorf("parties[%d]: %w", i, err)
		}
		kind := enum.PartyKindCustomer
		if p.Kind != "" {
			kind = enum.PartyKind(p.Kind)
		}
		if !kind.IsValid() {
			return nil, fmt.Errorf("parties[%d]: unknown kind %q", i, p.Kind)
		}
		balance, err := amount(p.Balance)
		if err != nil {
			return nil, fmt.Errorf("parties[%d].balance: %w", i, err)
		}
		parties[p.Key] = id
		ds.Parties = append(ds.Parties, entity.Party{
			ID:      id,
			Name:    p.Name,
			Kind:    kind,
			Phone:   optional(p.Phone),
			Email:   optional(p.Email),
			Address: optional(p.Address),
			Balance: balance,
		})
	}

	catalogs := []struct {
		kind    enum.ItemKind
		section string
		items   []ItemFixture
	}{
		{enum.ItemKindProduct, "products", fx.Products},
		{enum.ItemKindSet, "sets", fx.Sets},
		{enum.ItemKindAttar, "attars", fx.Attars},
	}
	for _, catalog := range catalogs {
		for i, it := range catalog.items {
			fields, err := catalogFields(catalog.kind, it)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", catalog.section, i, err)
			}
			if _, dup := items[it.Key]; dup {
				return nil, fmt.Errorf("%s[%d]: duplicate key %q", catalog.section, i, it.Key)
			}
			ref := entity.NewItemRef(catalog.kind, fields.ID)
			items[it.Key] = ref

			switch catalog.kind {
			case enum.ItemKindProduct:
				ds.Products = append(ds.Products, entity.Product{CatalogFields: fields})
			case enum.ItemKindSet:
				ds.GiftSets = append(ds.GiftSets, entity.GiftSet{CatalogFields: fields})
			case enum.ItemKindAttar:
				ds.Attars = append(ds.Attars, entity.Attar{CatalogFields: fields})
			}
			if it.Stock != nil {
				ds.Stocks = append(ds.Stocks, entity.Stock{
					ID:       uuid.NewSHA1(namespace, []byte("stock:"+ref.String())),
					ItemKind: ref.Kind,
					ItemID:   ref.ID,
					Quantity: *it.Stock,
				})
			}
		}
	}

	for i, p := range fx.Prices {
		partyID, ok := parties[p.Party]
		if !ok {
			return nil, fmt.Errorf("prices[%d]: unknown party %q", i, p.Party)
		}
		ref, ok := items[p.Item]
		if !ok {
			return nil, fmt.Errorf("prices[%d]: unknown item %q", i, p.Item)
		}
		price, err := amount(p.Price)
		if err != nil {
			return nil, fmt.Errorf("prices[%d].price: %w", i, err)
		}
		ds.Prices = append(ds.Prices, entity.PartyItemPrice{
			ID:       uuid.NewSHA1(namespace, []byte("price:"+partyID.String()+":"+ref.String())),
			PartyID:  partyID,
			ItemKind: ref.Kind,
			ItemID:   ref.ID,
			Price:    price,
		})
	}

	keys := make([]string, 0, len(fx.Settings))
	for key := range fx.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		ds.Settings = append(ds.Settings, entity.Setting{Key: key, Value: fx.Settings[key]})
	}

	return ds, nil
}

var namespace = uuid.MustParse("6f1d2c3a-8b7e-4e0a-9c55-2f4b7a1d9e10")

func recordID(kind, key, explicit string) (uuid.UUID, error) {
	if explicit != "" {
		id, err := uuid.Parse(explicit)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid id %q", explicit)
		}
		return id, nil
	}
	return uuid.NewSHA1(namespace, []byte(kind+":"+key)), nil
}

func catalogFields(kind enum.ItemKind, it ItemFixture) (entity.CatalogFields, error) {
	if it.Key == "" || it.Name == "" || it.SKU == "" {
		return entity.CatalogFields{}, fmt.Errorf("key, name and sku are required")
	}
	id, err := recordID(kind.String(), it.Key, it.ID)
	if err != nil {
		return entity.CatalogFields{}, err
	}
	price, err := amount(it.Price)
	if err != nil {
		return entity.CatalogFields{}, fmt.Errorf("price: %w", err)
	}
	cost, err := amount(it.CostPrice)
	if err != nil {
		return entity.CatalogFields{}, fmt.Errorf("cost_price: %w", err)
	}
	return entity.CatalogFields{ID: id, Name: it.Name, SKU: it.SKU, Price: price, CostPrice: cost}, nil
}

func amount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
