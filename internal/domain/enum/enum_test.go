package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderType_Directions(t *testing.T) {
	assert.Equal(t, -1, OrderTypeSale.StockSign())
	assert.Equal(t, 1, OrderTypePurchase.StockSign())
	assert.Equal(t, TransactionTypeDebit, OrderTypeSale.LedgerType())
	assert.Equal(t, TransactionTypeCredit, OrderTypePurchase.LedgerType())
	assert.False(t, OrderType("refund").IsValid())
}

func TestPaymentStatus_IsPaid(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		paid   bool
		valid  bool
	}{
		{PaymentStatusUnpaid, false, true},
		{PaymentStatusPartial, false, true},
		{PaymentStatusPaid, true, true},
		{PaymentStatus("settled"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.paid, tt.status.IsPaid())
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusCompleted.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
}

func TestParseItemKind(t *testing.T) {
	k, err := ParseItemKind("attar")
	require.NoError(t, err)
	assert.Equal(t, ItemKindAttar, k)

	_, err = ParseItemKind("bundle")
	assert.Error(t, err)
}

func TestTransactionType_Opposite(t *testing.T) {
	assert.Equal(t, TransactionTypeCredit, TransactionTypeDebit.Opposite())
	assert.Equal(t, TransactionTypeDebit, TransactionTypeCredit.Opposite())
}

func TestEnums_JSONRoundTrip(t *testing.T) {
	var payload struct {
		Status  OrderStatus   `json:"status"`
		Payment PaymentStatus `json:"payment_status"`
		Kind    ItemKind      `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed","payment_status":"partial","kind":"set"}`), &payload))
	assert.Equal(t, OrderStatusCompleted, payload.Status)
	assert.Equal(t, PaymentStatusPartial, payload.Payment)
	assert.Equal(t, ItemKindSet, payload.Kind)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"completed","payment_status":"partial","kind":"set"}`, string(out))
}

func TestScan_Bytes(t *testing.T) {
	var k ItemKind
	require.NoError(t, k.Scan([]byte("product")))
	assert.Equal(t, ItemKindProduct, k)

	var s OrderStatus
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, OrderStatusPending, s)
}
