package entity

import (
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogFields are the columns shared by products, gift sets and attars
type CatalogFields struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"size:100;uniqueIndex;not null" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
	CostPrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"cost_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (f *CatalogFields) ensureID() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
}

func (f CatalogFields) item(kind enum.ItemKind) *CatalogItem {
	return &CatalogItem{
		Ref:       NewItemRef(kind, f.ID),
		Name:      f.Name,
		SKU:       f.SKU,
		Price:     f.Price,
		CostPrice: f.CostPrice,
	}
}

// Product is a standalone perfume or accessory
type Product struct {
	CatalogFields
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.ensureID()
	return nil
}

func (Product) TableName() string {
	return "products"
}

// CatalogItem returns the ordering view of the product
func (p Product) CatalogItem() *CatalogItem {
	return p.item(enum.ItemKindProduct)
}

// GiftSet is a bundled product sold as one unit
type GiftSet struct {
	CatalogFields
}

func (s *GiftSet) BeforeCreate(tx *gorm.DB) error {
	s.ensureID()
	return nil
}

func (GiftSet) TableName() string {
	return "product_sets"
}

// CatalogItem returns the ordering view of the gift set
func (s GiftSet) CatalogItem() *CatalogItem {
	return s.item(enum.ItemKindSet)
}

// Attar is a traditional oil-based perfume
type Attar struct {
	CatalogFields
}

func (a *Attar) BeforeCreate(tx *gorm.DB) error {
	a.ensureID()
	return nil
}

func (Attar) TableName() string {
	return "attars"
}

// CatalogItem returns the ordering view of the attar
func (a Attar) CatalogItem() *CatalogItem {
	return a.item(enum.ItemKindAttar)
}

// CatalogItem is the kind-independent view of a product, gift set or attar
// used when ordering. It is not persisted.
type CatalogItem struct {
	Ref       ItemRef         `json:"ref"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}
