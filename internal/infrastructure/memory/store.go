// Package memory keeps every repository in process memory. It backs the
// service when DB_DRIVER=memory and serves as the storage double in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/seed"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type txKey struct{}

type priceKey struct {
	partyID uuid.UUID
	ref     entity.ItemRef
}

type idempotencyKey struct {
	key    string
	userID uuid.UUID
}

type state struct {
	parties      map[uuid.UUID]entity.Party
	catalog      map[entity.ItemRef]entity.CatalogItem
	stocks       map[entity.ItemRef]entity.Stock
	prices       map[priceKey]entity.PartyItemPrice
	orders       map[uuid.UUID]entity.Order
	orderItems   map[uuid.UUID]entity.OrderItem
	itemOrder    []uuid.UUID
	transactions map[uuid.UUID]entity.Transaction
	txnOrder     []uuid.UUID
	settings     map[string]entity.Setting
	idempotency  map[idempotencyKey]entity.IdempotencyKey
}

func newState() state {
	return state{
		parties:      make(map[uuid.UUID]entity.Party),
		catalog:      make(map[entity.ItemRef]entity.CatalogItem),
		stocks:       make(map[entity.ItemRef]entity.Stock),
		prices:       make(map[priceKey]entity.PartyItemPrice),
		orders:       make(map[uuid.UUID]entity.Order),
		orderItems:   make(map[uuid.UUID]entity.OrderItem),
		transactions: make(map[uuid.UUID]entity.Transaction),
		settings:     make(map[string]entity.Setting),
		idempotency:  make(map[idempotencyKey]entity.IdempotencyKey),
	}
}

// Store is an in-memory database. Transactions are serialized and journal
// their own writes; a failed transaction replays the journal backwards, so
// writes made outside it survive the rollback.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   state
	undo []func() // journal of the open transaction, guarded by mu
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{st: newState()}
}

// WithinTransaction implements repository.Transactor
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.undo = nil
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, true))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		for i := len(s.undo) - 1; i >= 0; i-- {
			s.undo[i]()
		}
	}
	s.undo = nil
	return err
}

// record journals undo when ctx carries a transaction. s.mu must be held.
func (s *Store) record(ctx context.Context, undo func()) {
	if ctx.Value(txKey{}) != nil {
		s.undo = append(s.undo, undo)
	}
}

// restoreEntry returns an undo that puts m[k] back the way it is now
func restoreEntry[K comparable, V any](m map[K]V, k K) func() {
	prev, existed := m[k]
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// AddParty stores a party, assigning an id when missing
func (s *Store) AddParty(p entity.Party) entity.Party {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.st.parties[p.ID] = p
	return p
}

// AddCatalogItem stores a product, gift set or attar
func (s *Store) AddCatalogItem(item entity.CatalogItem) entity.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Ref.ID == uuid.Nil {
		item.Ref.ID = uuid.New()
	}
	s.st.catalog[item.Ref] = item
	return item
}

// SetStock creates or overwrites the stock row of an item
func (s *Store) SetStock(ref entity.ItemRef, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.st.stocks[ref]
	if !ok {
		stock = entity.Stock{ID: uuid.New(), ItemKind: ref.Kind, ItemID: ref.ID}
		stamp(&stock.CreatedAt, &stock.UpdatedAt)
	}
	stock.Quantity = quantity
	s.st.stocks[ref] = stock
}

// StockOf returns the quantity on hand and whether a stock row exists
func (s *Store) StockOf(ref entity.ItemRef) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stock, ok := s.st.stocks[ref]
	return stock.Quantity, ok
}

// BalanceOf returns a party's running balance
func (s *Store) BalanceOf(partyID uuid.UUID) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.parties[partyID].Balance
}

// AddPrice stores a party price override
func (s *Store) AddPrice(p entity.PartyItemPrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.st.prices[priceKey{partyID: p.PartyID, ref: p.Ref()}] = p
}

// PutSetting stores a settings value
func (s *Store) PutSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.settings[key] = entity.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// Load adds a resolved fixture to the store
func (s *Store) Load(ds *seed.Dataset) {
	for _, p := range ds.Parties {
		s.AddParty(p)
	}
	for _, p := range ds.Products {
		s.AddCatalogItem(*p.CatalogItem())
	}
	for _, g := range ds.GiftSets {
		s.AddCatalogItem(*g.CatalogItem())
	}
	for _, a := range ds.Attars {
		s.AddCatalogItem(*a.CatalogItem())
	}
	for _, st := range ds.Stocks {
		s.SetStock(st.Ref(), st.Quantity)
	}
	for _, p := range ds.Prices {
		s.AddPrice(p)
	}
	for _, setting := range ds.Settings {
		s.PutSetting(setting.Key, setting.Value)
	}
}
