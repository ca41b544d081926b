package service

import (
	"fmt"

	"github.com/attarhouse/attarhouse-api/internal/domain/entity"
	"github.com/google/uuid"
)

// Warning codes reported alongside a successful create or update
const (
	WarningItemNotInOrder     = "item_not_in_order"
	WarningStockRecordMissing = "stock_record_missing"
	WarningStockNegative      = "stock_negative"
	WarningLedgerEntryMissing = "ledger_entry_missing"
)

// Warning describes a side effect that was skipped or looks suspicious.
// The order operation itself still succeeded.
type Warning struct {
	Code        string          `json:"code"`
	OrderItemID *uuid.UUID      `json:"order_item_id,omitempty"`
	Item        *entity.ItemRef `json:"item,omitempty"`
	Message     string          `json:"message"`
}

func itemNotInOrderWarning(orderItemID uuid.UUID) Warning {
	return Warning{
		Code:        WarningItemNotInOrder,
		OrderItemID: &orderItemID,
		Message:     "order item does not belong to this order and was skipped",
	}
}

func stockMissingWarning(ref entity.ItemRef) *Warning {
	return &Warning{
		Code:    WarningStockRecordMissing,
		Item:    &ref,
		Message: fmt.Sprintf("no stock record for %s, stock left unchanged", ref),
	}
}

func stockNegativeWarning(ref entity.ItemRef, quantity int) *Warning {
	return &Warning{
		Code:    WarningStockNegative,
		Item:    &ref,
		Message: fmt.Sprintf("stock for %s is now %d", ref, quantity),
	}
}

func ledgerMissingWarning(description string) Warning {
	return Warning{
		Code:    WarningLedgerEntryMissing,
		Message: fmt.Sprintf("ledger entry %q not found, amount not corrected", description),
	}
}
