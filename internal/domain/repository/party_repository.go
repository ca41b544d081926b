package repository

import (
	"context"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyRepository reads parties and moves their running balance
type PartyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Party, error)
	// AdjustBalance adds delta to the party's balance in a single statement
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionRepository defines the interface for party ledger entries
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// FindByOrderAndDescription returns the entry of the given type posted for an
	// order with exactly this description, or (nil, nil)
	FindByOrderAndDescription(ctx context.Context, orderID uuid.UUID, txnType enum.TransactionType, description string) (*entity.Transaction, error)
	UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Transaction, error)
}
