package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	domainRepo "github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/internal/infrastructure/memory"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engine struct {
	store    *memory.Store
	svc      *OrderService
	txns     domainRepo.TransactionRepository
	orders   domainRepo.OrderRepository
	customer entity.Party
	supplier entity.Party
	perfume  entity.CatalogItem
	giftSet  entity.CatalogItem
	attar    entity.CatalogItem
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	store := memory.NewStore()
	phone := "+91 98200 11111"
	e := &engine{
		store:    store,
		txns:     memory.NewTransactionRepository(store),
		orders:   memory.NewOrderRepository(store),
		customer: store.AddParty(entity.Party{Name: "Noor Boutique", Kind: enum.PartyKindCustomer, Phone: &phone}),
		supplier: store.AddParty(entity.Party{Name: "Kannauj Distillers", Kind: enum.PartyKindSupplier}),
		perfume: store.AddCatalogItem(entity.CatalogItem{
			Ref: entity.NewItemRef(enum.ItemKindProduct, uuid.New()), Name: "Oud Royale 50ml", SKU: "OUD-50",
			Price: money("150"), CostPrice: money("100"),
		}),
		giftSet: store.AddCatalogItem(entity.CatalogItem{
			Ref: entity.NewItemRef(enum.ItemKindSet, uuid.New()), Name: "Wedding Trio", SKU: "SET-TRIO",
			Price: money("900"), CostPrice: money("600"),
		}),
		attar: store.AddCatalogItem(entity.CatalogItem{
			Ref: entity.NewItemRef(enum.ItemKindAttar, uuid.New()), Name: "Shamama 12ml", SKU: "ATR-SHAM",
			Price: money("80"), CostPrice: money("50"),
		}),
	}
	e.svc = e.service(e.txns)
	return e
}

func (e *engine) service(txns domainRepo.TransactionRepository) *OrderService {
	catalog := memory.NewCatalogRepository(e.store)
	return NewOrderService(
		e.store,
		e.orders,
		memory.NewOrderItemRepository(e.store),
		catalog,
		memory.NewStockRepository(e.store),
		memory.NewPartyRepository(e.store),
		txns,
		NewPricingService(catalog, memory.NewPriceListRepository(e.store)),
		NewSettingsService(memory.NewSettingsRepository(e.store), decimal.NewFromInt(18)),
	)
}

func (e *engine) ledger(t *testing.T, orderID uuid.UUID) []entity.Transaction {
	t.Helper()
	txns, err := e.txns.ListByOrderID(context.Background(), orderID)
	require.NoError(t, err)
	return txns
}

func (e *engine) stock(t *testing.T, ref entity.ItemRef) int {
	t.Helper()
	qty, ok := e.store.StockOf(ref)
	require.True(t, ok, "no stock row for %s", ref)
	return qty
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, money(want).Equal(got), "expected %s, got %s", want, got)
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func line(ref entity.ItemRef, qty int, unitPrice string) OrderItemInput {
	return OrderItemInput{Ref: ref, Quantity: qty, UnitPrice: price(unitPrice)}
}

func (e *engine) sale(t *testing.T, items ...OrderItemInput) *entity.Order {
	t.Helper()
	result, err := e.svc.CreateOrder(context.Background(), &CreateOrderInput{
		PartyID: e.customer.ID,
		Type:    enum.OrderTypeSale,
		Items:   items,
	})
	require.NoError(t, err)
	return result.Order
}

func TestCreateOrder_SaleAppliesGSTAndPostsLedger(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)

	result, err := e.svc.CreateOrder(context.Background(), &CreateOrderInput{
		PartyID: e.customer.ID,
		Type:    enum.OrderTypeSale,
		Items: []OrderItemInput{
			line(e.perfume.Ref, 2, "100"),
			line(e.attar.Ref, 1, "50"),
		},
	})
	require.NoError(t, err)

	order := result.Order
	assertMoney(t, "295.00", order.TotalAmount)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, enum.PaymentStatusUnpaid, order.PaymentStatus)
	assert.True(t, strings.HasPrefix(order.ReferenceNo, "SO-"))
	assert.False(t, order.OrderDate.IsZero())
	require.Len(t, order.Items, 2)
	require.NotNil(t, order.Items[0].Item)
	assert.Equal(t, "Oud Royale 50ml", order.Items[0].Item.Name)
	require.NotNil(t, order.Party)
	assert.Equal(t, "Noor Boutique", order.Party.Name)

	assert.Equal(t, 18, e.stock(t, e.perfume.Ref))
	_, attarStocked := e.store.StockOf(e.attar.Ref)
	assert.False(t, attarStocked, "sale must not create stock rows")
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningStockRecordMissing, result.Warnings[0].Code)

	assertMoney(t, "295", e.store.BalanceOf(e.customer.ID))

	txns := e.ledger(t, order.ID)
	require.Len(t, txns, 1)
	assert.Equal(t, enum.TransactionTypeDebit, txns[0].Type)
	assertMoney(t, "295", txns[0].Amount)
	assert.Equal(t, "Sale Order #"+order.ID.String(), txns[0].Description)
	require.NotNil(t, order.LedgerTransactionID)
	assert.Equal(t, txns[0].ID, *order.LedgerTransactionID)
}

func TestCreateOrder_BillSnapshotMatchesItems(t *testing.T) {
	e := newEngine(t)

	order := e.sale(t,
		line(e.perfume.Ref, 2, "100"),
		line(e.giftSet.Ref, 1, "750"),
		line(e.attar.Ref, 3, "45.50"),
	)

	bill := order.Bill()
	assert.Equal(t, "Noor Boutique", bill.PartyName)
	assert.Equal(t, "+91 98200 11111", bill.PartyPhone)
	assert.Equal(t, "", bill.PartyEmail)
	require.Len(t, bill.Items, len(order.Items))

	for i, item := range order.Items {
		assert.Equal(t, i, item.Position)
		assert.Equal(t, item.Quantity, bill.Items[i].Quantity)
		assertMoney(t, item.UnitPrice.String(), bill.Items[i].UnitPrice)
		assertMoney(t, item.TotalPrice.String(), bill.Items[i].TotalPrice)
		assert.Equal(t, item.ItemKind, bill.Items[i].Type)
	}
	assert.Equal(t, "Wedding Trio", bill.Items[1].Name)
	assert.Equal(t, enum.ItemKindSet, bill.Items[1].Type)
	assertMoney(t, "136.50", bill.Items[2].TotalPrice)
}

func TestCreateOrder_PurchaseCreatesMissingStock(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 4)

	result, err := e.svc.CreateOrder(context.Background(), &CreateOrderInput{
		PartyID: e.supplier.ID,
		Type:    enum.OrderTypePurchase,
		Items: []OrderItemInput{
			line(e.attar.Ref, 3, "40"),
			line(e.perfume.Ref, 6, "90"),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, 3, e.stock(t, e.attar.Ref))
	assert.Equal(t, 10, e.stock(t, e.perfume.Ref))

	order := result.Order
	assert.True(t, strings.HasPrefix(order.ReferenceNo, "PO-"))
	assertMoney(t, "778.80", order.TotalAmount)
	assertMoney(t, "-778.80", e.store.BalanceOf(e.supplier.ID))

	txns := e.ledger(t, order.ID)
	require.Len(t, txns, 1)
	assert.Equal(t, enum.TransactionTypeCredit, txns[0].Type)
	assert.Equal(t, "Purchase Order #"+order.ID.String(), txns[0].Description)
}

func TestCreateOrder_SaleCanDriveStockNegative(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 1)

	result, err := e.svc.CreateOrder(context.Background(), &CreateOrderInput{
		PartyID: e.customer.ID,
		Type:    enum.OrderTypeSale,
		Items:   []OrderItemInput{line(e.perfume.Ref, 3, "100")},
	})
	require.NoError(t, err)

	assert.Equal(t, -2, e.stock(t, e.perfume.Ref))
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarningStockNegative, result.Warnings[0].Code)
	require.NotNil(t, result.Warnings[0].OrderItemID)
	assert.Equal(t, result.Order.Items[0].ID, *result.Warnings[0].OrderItemID)
}

func TestCreateOrder_ResolvesMissingUnitPrice(t *testing.T) {
	e := newEngine(t)
	e.store.AddPrice(entity.PartyItemPrice{
		PartyID:  e.customer.ID,
		ItemKind: e.attar.Ref.Kind,
		ItemID:   e.attar.Ref.ID,
		Price:    money("72.25"),
	})

	order := e.sale(t,
		OrderItemInput{Ref: e.attar.Ref, Quantity: 2},
		OrderItemInput{Ref: e.perfume.Ref, Quantity: 1},
	)

	require.Len(t, order.Items, 2)
	assertMoney(t, "72.25", order.Items[0].UnitPrice)
	assertMoney(t, "144.50", order.Items[0].TotalPrice)
	assertMoney(t, "100", order.Items[1].UnitPrice)
}

func TestCreateOrder_UsesStoredGSTRate(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		want    string
	}{
		{name: "stored rate", setting: "5", want: "105.00"},
		{name: "zero rate", setting: "0", want: "100.00"},
		{name: "unparsable falls back to default", setting: "eighteen", want: "118.00"},
		{name: "negative falls back to default", setting: "-3", want: "118.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			e.store.PutSetting(entity.SettingKeyGSTRate, tt.setting)

			order := e.sale(t, line(e.perfume.Ref, 1, "100"))
			assertMoney(t, tt.want, order.TotalAmount)
		})
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 10)

	tests := []struct {
		name  string
		input CreateOrderInput
		field string
	}{
		{
			name:  "no items",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale},
			field: "items",
		},
		{
			name: "zero quantity",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(e.perfume.Ref, 0, "10")}},
			field: "items[0].quantity",
		},
		{
			name: "negative price",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(e.perfume.Ref, 1, "10"), line(e.perfume.Ref, 1, "-1")}},
			field: "items[1].unit_price",
		},
		{
			name: "fraction of a cent",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(e.perfume.Ref, 1, "100.004"), line(e.attar.Ref, 1, "100.004")}},
			field: "items[0].unit_price",
		},
		{
			name: "unknown type",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderType("return"),
				Items: []OrderItemInput{line(e.perfume.Ref, 1, "10")}},
			field: "type",
		},
		{
			name: "unknown item kind",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(entity.NewItemRef("candle", uuid.New()), 1, "10")}},
			field: "items[0]",
		},
		{
			name: "unknown party",
			input: CreateOrderInput{PartyID: uuid.New(), Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(e.perfume.Ref, 1, "10")}},
			field: "party_id",
		},
		{
			name: "unknown catalog item",
			input: CreateOrderInput{PartyID: e.customer.ID, Type: enum.OrderTypeSale,
				Items: []OrderItemInput{line(e.perfume.Ref, 1, "10"), line(entity.NewItemRef(enum.ItemKindAttar, uuid.New()), 1, "10")}},
			field: "items[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := e.svc.CreateOrder(context.Background(), &input)
			require.Error(t, err)

			appErr := apperror.GetAppError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			fields := make([]string, 0, len(appErr.Errors))
			for _, fe := range appErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	assert.Equal(t, 10, e.stock(t, e.perfume.Ref))
	assert.True(t, e.store.BalanceOf(e.customer.ID).IsZero())
}

type failingLedger struct {
	domainRepo.TransactionRepository
}

func (failingLedger) Create(context.Context, *entity.Transaction) error {
	return errors.New("connection reset by peer")
}

func TestCreateOrder_RollsBackWhenLedgerWriteFails(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)
	svc := e.service(failingLedger{e.txns})

	_, err := svc.CreateOrder(context.Background(), &CreateOrderInput{
		PartyID: e.customer.ID,
		Type:    enum.OrderTypeSale,
		Items:   []OrderItemInput{line(e.perfume.Ref, 5, "100")},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrCode(t, err))

	assert.Equal(t, 20, e.stock(t, e.perfume.Ref))
	assert.True(t, e.store.BalanceOf(e.customer.ID).IsZero())
}

func TestUpdateOrder_QuantityChangesCorrectStockAndLedger(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)
	ctx := context.Background()

	order := e.sale(t, line(e.perfume.Ref, 5, "100"))
	assert.Equal(t, 15, e.stock(t, e.perfume.Ref))
	itemID := order.Items[0].ID

	result, err := e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: itemID, Quantity: 8, UnitPrice: price("100")}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 12, e.stock(t, e.perfume.Ref))
	assertMoney(t, "944.00", result.Order.TotalAmount)
	assertMoney(t, "944", e.store.BalanceOf(e.customer.ID))

	result, err = e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: itemID, Quantity: 2, UnitPrice: price("100")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 18, e.stock(t, e.perfume.Ref))
	assertMoney(t, "236.00", result.Order.TotalAmount)
	assertMoney(t, "236", e.store.BalanceOf(e.customer.ID))

	txns := e.ledger(t, order.ID)
	require.Len(t, txns, 1)
	assertMoney(t, "236", txns[0].Amount)

	bill := result.Order.Bill()
	require.Len(t, bill.Items, 1)
	assert.Equal(t, 2, bill.Items[0].Quantity)
	assertMoney(t, "200", bill.Items[0].TotalPrice)
}

func TestUpdateOrder_PurchaseAmendmentMovesStockUp(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	result, err := e.svc.CreateOrder(ctx, &CreateOrderInput{
		PartyID: e.supplier.ID,
		Type:    enum.OrderTypePurchase,
		Items:   []OrderItemInput{line(e.attar.Ref, 10, "100")},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, e.stock(t, e.attar.Ref))
	assertMoney(t, "-1180", e.store.BalanceOf(e.supplier.ID))

	_, err = e.svc.UpdateOrder(ctx, result.Order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: result.Order.Items[0].ID, Quantity: 12}},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, e.stock(t, e.attar.Ref))
	assertMoney(t, "-1416", e.store.BalanceOf(e.supplier.ID))
}

func TestUpdateOrder_RecomputesOverAllItems(t *testing.T) {
	e := newEngine(t)
	order := e.sale(t,
		line(e.perfume.Ref, 1, "100"),
		line(e.attar.Ref, 2, "50"),
	)
	assertMoney(t, "236.00", order.TotalAmount)

	result, err := e.svc.UpdateOrder(context.Background(), order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: order.Items[1].ID, Quantity: 2, UnitPrice: price("25")}},
	})
	require.NoError(t, err)

	// 100 untouched + 2 × 25 amended
	assertMoney(t, "177.00", result.Order.TotalAmount)
	assertMoney(t, "177", e.store.BalanceOf(e.customer.ID))
}

func TestUpdateOrder_SkipsItemsOfOtherOrders(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)
	first := e.sale(t, line(e.perfume.Ref, 1, "100"))
	second := e.sale(t, line(e.perfume.Ref, 2, "100"))
	stranger := uuid.New()

	result, err := e.svc.UpdateOrder(context.Background(), first.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{
			{ID: second.Items[0].ID, Quantity: 9, UnitPrice: price("1")},
			{ID: stranger, Quantity: 1, UnitPrice: price("1")},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	for _, w := range result.Warnings {
		assert.Equal(t, WarningItemNotInOrder, w.Code)
	}
	assert.Equal(t, stranger, *result.Warnings[1].OrderItemID)

	assert.Equal(t, 17, e.stock(t, e.perfume.Ref))
	assertMoney(t, "118.00", result.Order.TotalAmount)

	untouched, err := e.svc.GetOrder(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, untouched.Items[0].Quantity)
}

func TestUpdateOrder_PaymentRoundTripNetsToZero(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	order := e.sale(t, line(e.perfume.Ref, 10, "100"))
	assertMoney(t, "1180", e.store.BalanceOf(e.customer.ID))

	paid := enum.PaymentStatusPaid
	result, err := e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, result.Order.PaymentStatus)
	assert.True(t, e.store.BalanceOf(e.customer.ID).IsZero())

	// paid → paid posts nothing
	_, err = e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{PaymentStatus: &paid})
	require.NoError(t, err)

	partial := enum.PaymentStatusPartial
	_, err = e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{PaymentStatus: &partial})
	require.NoError(t, err)
	assertMoney(t, "1180", e.store.BalanceOf(e.customer.ID))

	txns := e.ledger(t, order.ID)
	require.Len(t, txns, 3)
	assert.Equal(t, enum.TransactionTypeCredit, txns[1].Type)
	assert.Equal(t, "Payment Received for Order #"+order.ID.String(), txns[1].Description)
	assertMoney(t, "1180", txns[1].Amount)
	assert.Equal(t, enum.TransactionTypeDebit, txns[2].Type)
	assert.Equal(t, "Payment Received Reverted for Order #"+order.ID.String(), txns[2].Description)
}

func TestUpdateOrder_PurchasePaymentPostsDebit(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	result, err := e.svc.CreateOrder(ctx, &CreateOrderInput{
		PartyID: e.supplier.ID,
		Type:    enum.OrderTypePurchase,
		Items:   []OrderItemInput{line(e.giftSet.Ref, 1, "1000")},
	})
	require.NoError(t, err)

	paid := enum.PaymentStatusPaid
	_, err = e.svc.UpdateOrder(ctx, result.Order.ID, &UpdateOrderInput{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.True(t, e.store.BalanceOf(e.supplier.ID).IsZero())

	txns := e.ledger(t, result.Order.ID)
	require.Len(t, txns, 2)
	assert.Equal(t, enum.TransactionTypeDebit, txns[1].Type)
	assert.Equal(t, "Payment Made for Order #"+result.Order.ID.String(), txns[1].Description)
}

func TestUpdateOrder_PaymentUsesAmendedTotal(t *testing.T) {
	e := newEngine(t)
	order := e.sale(t, line(e.perfume.Ref, 1, "100"))

	paid := enum.PaymentStatusPaid
	result, err := e.svc.UpdateOrder(context.Background(), order.ID, &UpdateOrderInput{
		PaymentStatus: &paid,
		Items:         []OrderItemUpdate{{ID: order.Items[0].ID, Quantity: 2, UnitPrice: price("100")}},
	})
	require.NoError(t, err)

	assertMoney(t, "236", result.Order.TotalAmount)
	assert.True(t, e.store.BalanceOf(e.customer.ID).IsZero())
	txns := e.ledger(t, order.ID)
	require.Len(t, txns, 2)
	assertMoney(t, "236", txns[1].Amount)
}

func TestUpdateOrder_StatusAndMessageOnly(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)
	order := e.sale(t, line(e.perfume.Ref, 5, "100"))

	cancelled := enum.OrderStatusCancelled
	note := "customer changed mind"
	result, err := e.svc.UpdateOrder(context.Background(), order.ID, &UpdateOrderInput{
		Status:  &cancelled,
		Message: &note,
	})
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusCancelled, result.Order.Status)
	require.NotNil(t, result.Order.Message)
	assert.Equal(t, note, *result.Order.Message)
	assert.Equal(t, 15, e.stock(t, e.perfume.Ref))
	assertMoney(t, "590", e.store.BalanceOf(e.customer.ID))
	assert.Len(t, e.ledger(t, order.ID), 1)
}

func TestUpdateOrder_FindsLedgerEntryByDescription(t *testing.T) {
	e := newEngine(t)
	e.store.SetStock(e.perfume.Ref, 20)
	ctx := context.Background()
	order := e.sale(t, line(e.perfume.Ref, 1, "100"))
	entryID := *order.LedgerTransactionID

	stored, err := e.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	stored.LedgerTransactionID = nil
	require.NoError(t, e.orders.Update(ctx, stored))

	result, err := e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: order.Items[0].ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	entry, err := e.txns.GetByID(ctx, entryID)
	require.NoError(t, err)
	assertMoney(t, "354", entry.Amount)
	require.NotNil(t, result.Order.LedgerTransactionID)
	assert.Equal(t, entryID, *result.Order.LedgerTransactionID)
}

type blindLedger struct {
	domainRepo.TransactionRepository
}

func (blindLedger) GetByID(context.Context, uuid.UUID) (*entity.Transaction, error) {
	return nil, nil
}

func (blindLedger) FindByOrderAndDescription(context.Context, uuid.UUID, enum.TransactionType, string) (*entity.Transaction, error) {
	return nil, nil
}

func TestUpdateOrder_WarnsWhenLedgerEntryMissing(t *testing.T) {
	e := newEngine(t)
	order := e.sale(t, line(e.perfume.Ref, 1, "100"))
	svc := e.service(blindLedger{e.txns})

	result, err := svc.UpdateOrder(context.Background(), order.ID, &UpdateOrderInput{
		Items: []OrderItemUpdate{{ID: order.Items[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, WarningStockRecordMissing, result.Warnings[0].Code)
	assert.Equal(t, WarningLedgerEntryMissing, result.Warnings[1].Code)
	assertMoney(t, "236", e.store.BalanceOf(e.customer.ID))
}

func TestUpdateOrder_Errors(t *testing.T) {
	e := newEngine(t)
	order := e.sale(t, line(e.perfume.Ref, 1, "100"))
	bogusStatus := enum.OrderStatus("shipped")
	bogusPayment := enum.PaymentStatus("refunded")

	tests := []struct {
		name    string
		orderID uuid.UUID
		input   UpdateOrderInput
		code    int
	}{
		{name: "missing order", orderID: uuid.New(), input: UpdateOrderInput{}, code: http.StatusNotFound},
		{name: "unknown status", orderID: order.ID, input: UpdateOrderInput{Status: &bogusStatus}, code: http.StatusUnprocessableEntity},
		{name: "unknown payment status", orderID: order.ID, input: UpdateOrderInput{PaymentStatus: &bogusPayment}, code: http.StatusUnprocessableEntity},
		{
			name:    "zero quantity",
			orderID: order.ID,
			input:   UpdateOrderInput{Items: []OrderItemUpdate{{ID: order.Items[0].ID, Quantity: 0}}},
			code:    http.StatusUnprocessableEntity,
		},
		{
			name:    "fraction of a cent",
			orderID: order.ID,
			input:   UpdateOrderInput{Items: []OrderItemUpdate{{ID: order.Items[0].ID, Quantity: 1, UnitPrice: price("99.995")}}},
			code:    http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := e.svc.UpdateOrder(context.Background(), tt.orderID, &input)
			require.Error(t, err)
			assert.Equal(t, tt.code, appErrCode(t, err))
		})
	}
}

func TestCreateOrder_AcceptsTrailingZeroCents(t *testing.T) {
	e := newEngine(t)

	order := e.sale(t, line(e.perfume.Ref, 1, "100.000"), line(e.attar.Ref, 3, "33.33"))

	assertMoney(t, "235.99", order.TotalAmount)
}

func TestUpdateOrder_BackfillsMissingBill(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	order := e.sale(t, line(e.attar.Ref, 2, "50"))

	stored, err := e.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	stored.SetBill(entity.BillDetails{})
	require.NoError(t, e.orders.Update(ctx, stored))

	completed := enum.OrderStatusCompleted
	result, err := e.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Status: &completed})
	require.NoError(t, err)

	bill := result.Order.Bill()
	assert.Equal(t, "Noor Boutique", bill.PartyName)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "Shamama 12ml", bill.Items[0].Name)
}

func TestGetOrder_NotFound(t *testing.T) {
	e := newEngine(t)
	_, err := e.svc.GetOrder(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}
