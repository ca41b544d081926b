package repository

import (
	"context"
	"errors"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type partyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *gorm.DB) domainRepo.PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Party, error) {
	var party entity.Party
	err := conn(ctx, r.db).First(&party, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &party, err
}

func (r *partyRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&entity.Party{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFoundError("Party")
	}
	return nil
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new party ledger repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	return translateError(conn(ctx, r.db).Create(txn).Error)
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := conn(ctx, r.db).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) FindByOrderAndDescription(ctx context.Context, orderID uuid.UUID, txnType enum.TransactionType, description string) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := conn(ctx, r.db).
		Where("order_id = ? AND type = ? AND description = ?", orderID, txnType, description).
		Order("created_at ASC").
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return translateError(conn(ctx, r.db).Model(&entity.Transaction{}).
		Where("id = ?", id).
		Update("amount", amount).Error)
}

func (r *transactionRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("transaction_date ASC, created_at ASC").
		Find(&txns).Error
	return txns, err
}
