package repository

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
)

// StockRepository maintains per-item stock counters
type StockRepository interface {
	Get(ctx context.Context, ref entity.ItemRef) (*entity.Stock, error)
	// Adjust adds delta to the item's quantity and returns the updated row.
	// It returns (nil, nil) without creating anything when the item has no stock row.
	Adjust(ctx context.Context, ref entity.ItemRef, delta int) (*entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
}
