package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/attarhouse/attarhouse-api/internal/domain/repository"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/attarhouse/attarhouse-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService places and amends orders together with their stock, party
// ledger and bill side effects.
type OrderService struct {
	transactor      repository.Transactor
	orderRepo       repository.OrderRepository
	orderItemRepo   repository.OrderItemRepository
	catalogRepo     repository.CatalogRepository
	stockRepo       repository.StockRepository
	partyRepo       repository.PartyRepository
	transactionRepo repository.TransactionRepository
	pricing         PriceResolver
	settings        SettingsProvider
}

// NewOrderService creates a new order service
func NewOrderService(
	transactor repository.Transactor,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	catalogRepo repository.CatalogRepository,
	stockRepo repository.StockRepository,
	partyRepo repository.PartyRepository,
	transactionRepo repository.TransactionRepository,
	pricing PriceResolver,
	settings SettingsProvider,
) *OrderService {
	return &OrderService{
		transactor:      transactor,
		orderRepo:       orderRepo,
		orderItemRepo:   orderItemRepo,
		catalogRepo:     catalogRepo,
		stockRepo:       stockRepo,
		partyRepo:       partyRepo,
		transactionRepo: transactionRepo,
		pricing:         pricing,
		settings:        settings,
	}
}

// OrderItemInput represents an item in an order. A nil UnitPrice is resolved
// from the party's price list.
type OrderItemInput struct {
	Ref       entity.ItemRef
	Quantity  int
	UnitPrice *decimal.Decimal
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	PartyID   uuid.UUID
	OrderDate time.Time
	Type      enum.OrderType
	Message   *string
	Items     []OrderItemInput
}

// OrderResult is an order together with the warnings raised while writing it
type OrderResult struct {
	Order    *entity.Order `json:"order"`
	Warnings []Warning     `json:"warnings"`
}

func newOrderResult(order *entity.Order, warnings []Warning) *OrderResult {
	if warnings == nil {
		warnings = []Warning{}
	}
	return &OrderResult{Order: order, Warnings: warnings}
}

// CreateOrder validates the input, then persists the order, its lines, stock
// movements, bill snapshot, ledger entry and balance change in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*OrderResult, error) {
	if fieldErrs := validateCreateOrder(input); len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	party, err := s.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, apperror.NewFieldError("party_id", "party does not exist")
	}

	settings, err := s.settings.StoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]BillLine, 0, len(input.Items))
	var fieldErrs []apperror.FieldError
	for i, in := range input.Items {
		catalog, err := s.catalogRepo.FindItem(ctx, in.Ref)
		if err != nil {
			return nil, err
		}
		if catalog == nil {
			fieldErrs = append(fieldErrs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: fmt.Sprintf("%s %s does not exist", in.Ref.Kind, in.Ref.ID),
			})
			continue
		}

		var unitPrice decimal.Decimal
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		} else {
			quote, err := s.pricing.ResolvePrice(ctx, party.ID, in.Ref)
			if err != nil {
				return nil, err
			}
			unitPrice = quote.UnitPrice
		}

		item := entity.OrderItem{ItemKind: in.Ref.Kind, ItemID: in.Ref.ID, Position: len(lines)}
		item.Reprice(in.Quantity, unitPrice)
		lines = append(lines, BillLine{Item: item, Catalog: catalog})
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = today()
	}

	order := &entity.Order{
		ID:            uuid.New(),
		ReferenceNo:   utils.GenerateReferenceNo(referencePrefix(input.Type)),
		PartyID:       party.ID,
		OrderDate:     orderDate,
		Type:          input.Type,
		Status:        enum.OrderStatusPending,
		PaymentStatus: enum.PaymentStatusUnpaid,
		Message:       input.Message,
	}
	order.TotalAmount = ApplyGST(Subtotal(lineItems(lines)), settings.GSTRate)

	var warnings []Warning
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}

		items := lineItems(lines)
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := s.orderItemRepo.CreateBatch(ctx, items); err != nil {
			return err
		}
		for i := range lines {
			lines[i].Item = items[i]
		}

		createMissing := order.Type == enum.OrderTypePurchase
		for _, item := range items {
			w, err := s.moveStock(ctx, item.Ref(), item.Quantity*order.Type.StockSign(), createMissing)
			if err != nil {
				return err
			}
			if w != nil {
				w.OrderItemID = &item.ID
				warnings = append(warnings, *w)
			}
		}

		order.SetBill(BuildBill(party, lines))

		txn := &entity.Transaction{
			PartyID:     party.ID,
			OrderID:     &order.ID,
			Type:        order.Type.LedgerType(),
			Amount:      order.TotalAmount,
			Description: originDescription(order),
		}
		if err := s.transactionRepo.Create(ctx, txn); err != nil {
			return err
		}
		order.LedgerTransactionID = &txn.ID

		if err := s.partyRepo.AdjustBalance(ctx, party.ID, balanceDelta(order.Type, order.TotalAmount)); err != nil {
			return err
		}

		return s.orderRepo.Update(ctx, order)
	})
	if err != nil {
		return nil, transactionError("Failed to create order", err)
	}

	log.Printf("Order %s (%s) placed for party %s, total %s", order.ReferenceNo, order.Type, party.ID, order.TotalAmount.StringFixed(2))

	created, err := s.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return newOrderResult(created, warnings), nil
}

// GetOrder retrieves an order with its party, lines and ledger entries. Each
// line carries the catalog item it orders when that item still exists.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	for i := range order.Items {
		item, err := s.catalogRepo.FindItem(ctx, order.Items[i].Ref())
		if err != nil {
			return nil, err
		}
		order.Items[i].Item = item
	}
	return order, nil
}

// moveStock applies delta to the item's stock row. A missing row is created
// only when createMissing is set and stock is being added.
func (s *OrderService) moveStock(ctx context.Context, ref entity.ItemRef, delta int, createMissing bool) (*Warning, error) {
	if delta == 0 {
		return nil, nil
	}

	stock, err := s.stockRepo.Adjust(ctx, ref, delta)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		if createMissing && delta > 0 {
			return nil, s.stockRepo.Create(ctx, &entity.Stock{
				ItemKind: ref.Kind,
				ItemID:   ref.ID,
				Quantity: delta,
			})
		}
		return stockMissingWarning(ref), nil
	}
	if stock.Quantity < 0 {
		return stockNegativeWarning(ref, stock.Quantity), nil
	}
	return nil, nil
}

func validateCreateOrder(input *CreateOrderInput) []apperror.FieldError {
	var errs []apperror.FieldError
	if input.PartyID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "party_id", Message: "party_id is required"})
	}
	if !input.Type.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "type", Message: "type must be sale or purchase"})
	}
	if len(input.Items) == 0 {
		errs = append(errs, apperror.FieldError{Field: "items", Message: "at least one item is required"})
	}
	for i, item := range input.Items {
		if err := item.Ref.Validate(); err != nil {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d]", i), Message: err.Error()})
		}
		if item.Quantity < 1 {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be at least 1"})
		}
		if fe := checkUnitPrice(i, item.UnitPrice); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// checkUnitPrice rejects negative prices and fractions of a cent, which the
// decimal(15,2) price column cannot hold
func checkUnitPrice(i int, price *decimal.Decimal) *apperror.FieldError {
	field := fmt.Sprintf("items[%d].unit_price", i)
	switch {
	case price == nil:
		return nil
	case price.IsNegative():
		return &apperror.FieldError{Field: field, Message: "unit_price must not be negative"}
	case !price.Equal(price.Round(2)):
		return &apperror.FieldError{Field: field, Message: "unit_price must have at most 2 decimal places"}
	}
	return nil
}

func lineItems(lines []BillLine) []entity.OrderItem {
	items := make([]entity.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = line.Item
	}
	return items
}

// balanceDelta is how much an amount on an order of type t moves the party's
// balance. Sales raise what the customer owes; purchases lower it.
func balanceDelta(t enum.OrderType, amount decimal.Decimal) decimal.Decimal {
	if t == enum.OrderTypeSale {
		return amount
	}
	return amount.Neg()
}

func referencePrefix(t enum.OrderType) string {
	if t == enum.OrderTypePurchase {
		return "PO"
	}
	return "SO"
}

func originDescription(order *entity.Order) string {
	if order.Type == enum.OrderTypeSale {
		return fmt.Sprintf("Sale Order #%s", order.ID)
	}
	return fmt.Sprintf("Purchase Order #%s", order.ID)
}

func paymentDescription(order *entity.Order, settled bool) string {
	verb := "Payment Made"
	if order.Type == enum.OrderTypeSale {
		verb = "Payment Received"
	}
	if !settled {
		verb += " Reverted"
	}
	return fmt.Sprintf("%s for Order #%s", verb, order.ID)
}

// transactionError keeps application errors intact and hides storage failures
// behind a 500.
func transactionError(message string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	log.Printf("%s: %v", message, err)
	return apperror.NewInternalError(message, err)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
