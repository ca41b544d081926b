package repository

import (
	"context"
	"errors"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"gorm.io/gorm"
)

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) domainRepo.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Get(ctx context.Context, ref entity.ItemRef) (*entity.Stock, error) {
	var stock entity.Stock
	err := conn(ctx, r.db).
		Where("item_kind = ? AND item_id = ?", ref.Kind, ref.ID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &stock, err
}

// Adjust uses: UPDATE stocks SET quantity = quantity + delta WHERE item_kind = ? AND item_id = ?
// No floor is applied, sales may drive the quantity negative.
func (r *stockRepository) Adjust(ctx context.Context, ref entity.ItemRef, delta int) (*entity.Stock, error) {
	result := conn(ctx, r.db).Model(&entity.Stock{}).
		Where("item_kind = ? AND item_id = ?", ref.Kind, ref.ID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.Get(ctx, ref)
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return translateError(conn(ctx, r.db).Create(stock).Error)
}
