package request

import (
	"encoding/json"
	"testing"

	"github.com/attarhouse/attarhouse-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemRequest_ItemRef(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		body    string
		kind    enum.ItemKind
		wantErr bool
	}{
		{name: "product", body: `{"product_id":"` + id.String() + `","quantity":1}`, kind: enum.ItemKindProduct},
		{name: "set", body: `{"product_set_id":"` + id.String() + `","quantity":1}`, kind: enum.ItemKindSet},
		{name: "attar", body: `{"attar_id":"` + id.String() + `","quantity":1}`, kind: enum.ItemKindAttar},
		{name: "none", body: `{"quantity":1}`, wantErr: true},
		{name: "two", body: `{"product_id":"` + id.String() + `","attar_id":"` + id.String() + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item OrderItemRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &item))

			ref, err := item.ItemRef()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, id, ref.ID)
		})
	}
}

func TestOrderItemRequest_UnitPriceAcceptsNumberOrString(t *testing.T) {
	var a, b OrderItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price": 99.5}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price": "99.50"}`), &b))

	require.NotNil(t, a.UnitPrice)
	require.NotNil(t, b.UnitPrice)
	assert.True(t, a.UnitPrice.Equal(*b.UnitPrice))
}

func TestCreateOrderRequest_Date(t *testing.T) {
	r := CreateOrderRequest{}
	d, err := r.Date()
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	r.OrderDate = "2024-03-15"
	d, err = r.Date()
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())

	r.OrderDate = "15/03/2024"
	_, err = r.Date()
	assert.Error(t, err)
}

func TestUpdateOrderRequest_DistinguishesAbsentItems(t *testing.T) {
	var absent, empty UpdateOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed"}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"items":[]}`), &empty))

	assert.Nil(t, absent.Items)
	require.NotNil(t, absent.Status)
	assert.Equal(t, enum.OrderStatusCompleted, *absent.Status)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}
