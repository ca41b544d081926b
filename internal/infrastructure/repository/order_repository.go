package repository

import (
	"context"
	"errors"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemOrdering lists lines in bill order. Rows written before lines had a
// position all share position 0 and fall back to insertion time.
const itemOrdering = "position ASC, created_at ASC, id ASC"

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Preload("Party").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order(itemOrdering)
		}).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_date ASC, created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return translateError(conn(ctx, r.db).Omit(clause.Associations).Save(order).Error)
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translateError(conn(ctx, r.db).Create(&items).Error)
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := conn(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order(itemOrdering).
		Find(&items).Error
	return items, err
}

func (r *orderItemRepository) Update(ctx context.Context, item *entity.OrderItem) error {
	return translateError(conn(ctx, r.db).Save(item).Error)
}
