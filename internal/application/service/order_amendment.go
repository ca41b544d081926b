package service

import (
	"context"
	"fmt"
	"log"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/attarhouse/attarhouse-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemUpdate changes one existing line. A nil UnitPrice keeps the
// line's current price.
type OrderItemUpdate struct {
	ID        uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// UpdateOrderInput represents the update order input. Nil fields are left
// unchanged; a nil Items slice skips the item pass entirely.
type UpdateOrderInput struct {
	Status        *enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	Message       *string
	Items         []OrderItemUpdate
}

// UpdateOrder amends an order's lines, status, payment status and message.
// Stock, the party balance, the originating ledger entry and the bill
// snapshot follow the amended lines; a change into or out of paid posts a
// payment entry. Everything runs in one transaction with the order row locked.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, input *UpdateOrderInput) (*OrderResult, error) {
	if fieldErrs := validateUpdateOrder(input); len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	settings, err := s.settings.StoreSettings(ctx)
	if err != nil {
		return nil, err
	}

	var warnings []Warning
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		party, err := s.partyRepo.GetByID(ctx, order.PartyID)
		if err != nil {
			return err
		}
		if party == nil {
			party = partyFromBill(order.Bill())
		}

		previousPayment := order.PaymentStatus

		if input.Items != nil {
			w, err := s.amendItems(ctx, order, party, input.Items, settings)
			if err != nil {
				return err
			}
			warnings = append(warnings, w...)
		}

		if input.PaymentStatus != nil {
			if err := s.settlePayment(ctx, order, previousPayment, *input.PaymentStatus); err != nil {
				return err
			}
			order.PaymentStatus = *input.PaymentStatus
		}
		if input.Status != nil {
			order.Status = *input.Status
		}
		if input.Message != nil {
			order.Message = input.Message
		}

		if !order.HasBill() {
			items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			lines, err := s.billLines(ctx, items)
			if err != nil {
				return err
			}
			order.SetBill(BuildBill(party, lines))
		}

		return s.orderRepo.Update(ctx, order)
	})
	if err != nil {
		return nil, transactionError("Failed to update order", err)
	}

	updated, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return newOrderResult(updated, warnings), nil
}

// amendItems applies line changes, corrects stock for the quantity
// differences, then re-totals the order and carries the difference into the
// party balance and the originating ledger entry.
func (s *OrderService) amendItems(ctx context.Context, order *entity.Order, party *entity.Party, updates []OrderItemUpdate, settings *StoreSettings) ([]Warning, error) {
	var warnings []Warning

	for _, u := range updates {
		item, err := s.orderItemRepo.GetByID(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.OrderID != order.ID {
			log.Printf("Warning: order item %s is not part of order %s, skipped", u.ID, order.ID)
			warnings = append(warnings, itemNotInOrderWarning(u.ID))
			continue
		}

		qtyDiff := u.Quantity - item.Quantity
		w, err := s.moveStock(ctx, item.Ref(), qtyDiff*order.Type.StockSign(), false)
		if err != nil {
			return nil, err
		}
		if w != nil {
			w.OrderItemID = &item.ID
			warnings = append(warnings, *w)
		}

		unitPrice := item.UnitPrice
		if u.UnitPrice != nil {
			unitPrice = *u.UnitPrice
		}
		item.Reprice(u.Quantity, unitPrice)
		if err := s.orderItemRepo.Update(ctx, item); err != nil {
			return nil, err
		}
	}

	items, err := s.orderItemRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	newTotal := ApplyGST(Subtotal(items), settings.GSTRate)
	if delta := newTotal.Sub(order.TotalAmount); !delta.IsZero() {
		if err := s.partyRepo.AdjustBalance(ctx, order.PartyID, balanceDelta(order.Type, delta)); err != nil {
			return nil, err
		}
	}

	w, err := s.correctOriginEntry(ctx, order, newTotal)
	if err != nil {
		return nil, err
	}
	if w != nil {
		warnings = append(warnings, *w)
	}
	order.TotalAmount = newTotal

	lines, err := s.billLines(ctx, items)
	if err != nil {
		return nil, err
	}
	order.SetBill(BuildBill(party, lines))

	return warnings, nil
}

// correctOriginEntry overwrites the amount of the entry posted when the order
// was placed. Orders written before the entry id was stored are matched on
// their description.
func (s *OrderService) correctOriginEntry(ctx context.Context, order *entity.Order, total decimal.Decimal) (*Warning, error) {
	var txn *entity.Transaction
	if order.LedgerTransactionID != nil {
		found, err := s.transactionRepo.GetByID(ctx, *order.LedgerTransactionID)
		if err != nil {
			return nil, err
		}
		txn = found
	}

	description := originDescription(order)
	if txn == nil {
		found, err := s.transactionRepo.FindByOrderAndDescription(ctx, order.ID, order.Type.LedgerType(), description)
		if err != nil {
			return nil, err
		}
		if found == nil {
			log.Printf("Warning: ledger entry %q not found, amount left unchanged", description)
			w := ledgerMissingWarning(description)
			return &w, nil
		}
		txn = found
		order.LedgerTransactionID = &found.ID
	}

	if txn.Amount.Equal(total) {
		return nil, nil
	}
	return nil, s.transactionRepo.UpdateAmount(ctx, txn.ID, total)
}

// settlePayment posts the payment entry for a transition into or out of paid.
// A sale settled lowers what the customer owes with a credit; a purchase
// settled raises the balance with a debit. Reverting does the inverse.
func (s *OrderService) settlePayment(ctx context.Context, order *entity.Order, from, to enum.PaymentStatus) error {
	if from.IsPaid() == to.IsPaid() {
		return nil
	}
	settled := to.IsPaid()

	entryType := order.Type.LedgerType().Opposite()
	delta := balanceDelta(order.Type, order.TotalAmount).Neg()
	if !settled {
		entryType = entryType.Opposite()
		delta = delta.Neg()
	}

	txn := &entity.Transaction{
		PartyID:     order.PartyID,
		OrderID:     &order.ID,
		Type:        entryType,
		Amount:      order.TotalAmount,
		Description: paymentDescription(order, settled),
	}
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return err
	}
	return s.partyRepo.AdjustBalance(ctx, order.PartyID, delta)
}

func validateUpdateOrder(input *UpdateOrderInput) []apperror.FieldError {
	var errs []apperror.FieldError
	if input.Status != nil && !input.Status.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "status", Message: "status must be pending, completed or cancelled"})
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "payment_status", Message: "payment_status must be unpaid, partial or paid"})
	}
	for i, item := range input.Items {
		if item.ID == uuid.Nil {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].id", i), Message: "id is required"})
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
