package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a catalog lookup over the products,
// product_sets and attars tables
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindItem(ctx context.Context, ref entity.ItemRef) (*entity.CatalogItem, error) {
	db := conn(ctx, r.db)
	switch ref.Kind {
	case enum.ItemKindProduct:
		p, err := first[entity.Product](db, ref.ID)
		if p == nil || err != nil {
			return nil, err
		}
		return p.CatalogItem(), nil
	case enum.ItemKindSet:
		s, err := first[entity.GiftSet](db, ref.ID)
		if s == nil || err != nil {
			return nil, err
		}
		return s.CatalogItem(), nil
	case enum.ItemKindAttar:
		a, err := first[entity.Attar](db, ref.ID)
		if a == nil || err != nil {
			return nil, err
		}
		return a.CatalogItem(), nil
	}
	return nil, fmt.Errorf("unknown item kind %q", ref.Kind)
}

func first[T any](db *gorm.DB, id uuid.UUID) (*T, error) {
	var rec T
	err := db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type priceListRepository struct {
	db *gorm.DB
}

// NewPriceListRepository creates a new party price override repository
func NewPriceListRepository(db *gorm.DB) domainRepo.PriceListRepository {
	return &priceListRepository{db: db}
}

func (r *priceListRepository) Find(ctx context.Context, partyID uuid.UUID, ref entity.ItemRef) (*entity.PartyItemPrice, error) {
	var price entity.PartyItemPrice
	err := conn(ctx, r.db).
		Where("party_id = ? AND item_kind = ? AND item_id = ?", partyID, ref.Kind, ref.ID).
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &price, err
}
