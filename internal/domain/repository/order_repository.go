package repository

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate loads the order and locks its row until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetWithRelations loads the order with its party, items and ledger entries
	GetWithRelations(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
}

// OrderItemRepository defines the interface for order line operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
	Update(ctx context.Context, item *entity.OrderItem) error
}
