package repository

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/google/uuid"
)

// CatalogRepository resolves item references against the product, gift set
// and attar catalogs. Catalog maintenance happens elsewhere.
type CatalogRepository interface {
	FindItem(ctx context.Context, ref entity.ItemRef) (*entity.CatalogItem, error)
}

// PriceListRepository reads per-party price overrides
type PriceListRepository interface {
	Find(ctx context.Context, partyID uuid.UUID, ref entity.ItemRef) (*entity.PartyItemPrice, error)
}
