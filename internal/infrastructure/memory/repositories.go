package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderRepository struct{ s *Store }

// NewOrderRepository creates an order repository over the store
func NewOrderRepository(s *Store) domainRepo.OrderRepository {
	return &orderRepository{s: s}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if _, exists := r.s.st.orders[order.ID]; exists {
		return apperror.NewConflictError("Record already exists: orders_pkey")
	}
	for _, o := range r.s.st.orders {
		if o.ReferenceNo == order.ReferenceNo {
			return apperror.NewConflictError("Record already exists: idx_orders_reference_no")
		}
	}
	stamp(&order.CreatedAt, &order.UpdatedAt)
	r.s.record(ctx, restoreEntry(r.s.st.orders, order.ID))
	r.s.st.orders[order.ID] = bare(*order)
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

// GetForUpdate relies on the store serializing transactions
func (r *orderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepository) GetWithRelations(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	if party, ok := r.s.st.parties[order.PartyID]; ok {
		order.Party = &party
	}
	order.Items = r.s.itemsOf(id)
	order.Transactions = r.s.transactionsOf(id)
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orders[order.ID]; !ok {
		return fmt.Errorf("order %s does not exist", order.ID)
	}
	order.UpdatedAt = time.Now()
	r.s.record(ctx, restoreEntry(r.s.st.orders, order.ID))
	r.s.st.orders[order.ID] = bare(*order)
	return nil
}

// bare drops loaded relations before an order is stored
func bare(o entity.Order) entity.Order {
	o.Party = nil
	o.Items = nil
	o.Transactions = nil
	return o
}

// itemsOf must be called with s.mu held
func (s *Store) itemsOf(orderID uuid.UUID) []entity.OrderItem {
	var items []entity.OrderItem
	for _, id := range s.st.itemOrder {
		if item := s.st.orderItems[id]; item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items
}

// transactionsOf must be called with s.mu held
func (s *Store) transactionsOf(orderID uuid.UUID) []entity.Transaction {
	var txns []entity.Transaction
	for _, id := range s.st.txnOrder {
		txn := s.st.transactions[id]
		if txn.OrderID != nil && *txn.OrderID == orderID {
			txns = append(txns, txn)
		}
	}
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].TransactionDate.Before(txns[j].TransactionDate)
	})
	return txns
}

type orderItemRepository struct{ s *Store }

// NewOrderItemRepository creates an order item repository over the store
func NewOrderItemRepository(s *Store) domainRepo.OrderItemRepository {
	return &orderItemRepository{s: s}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		stamp(&items[i].CreatedAt, &items[i].UpdatedAt)
		item := items[i]
		item.Item = nil
		undoEntry := restoreEntry(r.s.st.orderItems, item.ID)
		r.s.record(ctx, func() {
			undoEntry()
			r.s.st.itemOrder = without(r.s.st.itemOrder, item.ID)
		})
		r.s.st.orderItems[item.ID] = item
		r.s.st.itemOrder = append(r.s.st.itemOrder, item.ID)
	}
	return nil
}

func (r *orderItemRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.st.orderItems[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *orderItemRepository) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.itemsOf(orderID), nil
}

func (r *orderItemRepository) Update(ctx context.Context, item *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orderItems[item.ID]; !ok {
		return fmt.Errorf("order item %s does not exist", item.ID)
	}
	item.UpdatedAt = time.Now()
	stored := *item
	stored.Item = nil
	r.s.record(ctx, restoreEntry(r.s.st.orderItems, item.ID))
	r.s.st.orderItems[item.ID] = stored
	return nil
}

type catalogRepository struct{ s *Store }

// NewCatalogRepository creates a catalog lookup over the store
func NewCatalogRepository(s *Store) domainRepo.CatalogRepository {
	return &catalogRepository{s: s}
}

func (r *catalogRepository) FindItem(_ context.Context, ref entity.ItemRef) (*entity.CatalogItem, error) {
	if !ref.Kind.IsValid() {
		return nil, fmt.Errorf("unknown item kind %q", ref.Kind)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.st.catalog[ref]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

type priceListRepository struct{ s *Store }

// NewPriceListRepository creates a price override repository over the store
func NewPriceListRepository(s *Store) domainRepo.PriceListRepository {
	return &priceListRepository{s: s}
}

func (r *priceListRepository) Find(_ context.Context, partyID uuid.UUID, ref entity.ItemRef) (*entity.PartyItemPrice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	price, ok := r.s.st.prices[priceKey{partyID: partyID, ref: ref}]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

type stockRepository struct{ s *Store }

// NewStockRepository creates a stock repository over the store
func NewStockRepository(s *Store) domainRepo.StockRepository {
	return &stockRepository{s: s}
}

func (r *stockRepository) Get(_ context.Context, ref entity.ItemRef) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stock, ok := r.s.st.stocks[ref]
	if !ok {
		return nil, nil
	}
	return &stock, nil
}

func (r *stockRepository) Adjust(ctx context.Context, ref entity.ItemRef, delta int) (*entity.Stock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stock, ok := r.s.st.stocks[ref]
	if !ok {
		return nil, nil
	}
	stock.Quantity += delta
	stock.UpdatedAt = time.Now()
	r.s.record(ctx, restoreEntry(r.s.st.stocks, ref))
	r.s.st.stocks[ref] = stock
	return &stock, nil
}

func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref := stock.Ref()
	if _, exists := r.s.st.stocks[ref]; exists {
		return apperror.NewConflictError("Record already exists: idx_stock_item")
	}
	if stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	stamp(&stock.CreatedAt, &stock.UpdatedAt)
	r.s.record(ctx, restoreEntry(r.s.st.stocks, ref))
	r.s.st.stocks[ref] = *stock
	return nil
}

type partyRepository struct{ s *Store }

// NewPartyRepository creates a party repository over the store
func NewPartyRepository(s *Store) domainRepo.PartyRepository {
	return &partyRepository{s: s}
}

func (r *partyRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Party, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	party, ok := r.s.st.parties[id]
	if !ok {
		return nil, nil
	}
	return &party, nil
}

func (r *partyRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	party, ok := r.s.st.parties[id]
	if !ok {
		return apperror.NewNotFoundError("Party")
	}
	party.Balance = party.Balance.Add(delta)
	party.UpdatedAt = time.Now()
	r.s.record(ctx, restoreEntry(r.s.st.parties, id))
	r.s.st.parties[id] = party
	return nil
}

type transactionRepository struct{ s *Store }

// NewTransactionRepository creates a party ledger repository over the store
func NewTransactionRepository(s *Store) domainRepo.TransactionRepository {
	return &transactionRepository{s: s}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	stamp(&txn.CreatedAt, &txn.UpdatedAt)
	id := txn.ID
	undoEntry := restoreEntry(r.s.st.transactions, id)
	r.s.record(ctx, func() {
		undoEntry()
		r.s.st.txnOrder = without(r.s.st.txnOrder, id)
	})
	r.s.st.transactions[txn.ID] = *txn
	r.s.st.txnOrder = append(r.s.st.txnOrder, txn.ID)
	return nil
}

func (r *transactionRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	txn, ok := r.s.st.transactions[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (r *transactionRepository) FindByOrderAndDescription(_ context.Context, orderID uuid.UUID, txnType enum.TransactionType, description string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.st.txnOrder {
		txn := r.s.st.transactions[id]
		if txn.OrderID != nil && *txn.OrderID == orderID && txn.Type == txnType && txn.Description == description {
			return &txn, nil
		}
	}
	return nil, nil
}

func (r *transactionRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txn, ok := r.s.st.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %s does not exist", id)
	}
	txn.Amount = amount
	txn.UpdatedAt = time.Now()
	r.s.record(ctx, restoreEntry(r.s.st.transactions, id))
	r.s.st.transactions[id] = txn
	return nil
}

func (r *transactionRepository) ListByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.transactionsOf(orderID), nil
}

type settingsRepository struct{ s *Store }

// NewSettingsRepository creates a settings repository over the store
func NewSettingsRepository(s *Store) domainRepo.SettingsRepository {
	return &settingsRepository{s: s}
}

func (r *settingsRepository) Get(_ context.Context, key string) (*entity.Setting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	setting, ok := r.s.st.settings[key]
	if !ok {
		return nil, nil
	}
	return &setting, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	setting.UpdatedAt = time.Now()
	r.s.record(ctx, restoreEntry(r.s.st.settings, setting.Key))
	r.s.st.settings[setting.Key] = *setting
	return nil
}

type idempotencyRepository struct{ s *Store }

// NewIdempotencyRepository creates an idempotency key repository over the store
func NewIdempotencyRepository(s *Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{s: s}
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ikey, ok := r.s.st.idempotency[idempotencyKey{key: key, userID: userID}]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := idempotencyKey{key: ikey.Key, userID: ikey.UserID}
	if existing, ok := r.s.st.idempotency[k]; ok && !existing.IsExpired() {
		return apperror.NewConflictError("Record already exists: idx_idempotency_key_user")
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = time.Now()
	r.s.st.idempotency[k] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, v := range r.s.st.idempotency {
		if v.IsExpired() {
			delete(r.s.st.idempotency, k)
			n++
		}
	}
	return n, nil
}
