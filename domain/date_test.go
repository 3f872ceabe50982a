package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Date
	}{
		{"nil", nil, ""},
		{"time", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), "2025-01-31"},
		{"string", "2025-01-31", "2025-01-31"},
		{"datetime string", "2025-01-31 00:00:00", "2025-01-31"},
		{"rfc3339 bytes", []byte("2025-01-31T00:00:00Z"), "2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.in))
			assert.Equal(t, tt.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := Date("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Date("2025-01-31").Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", v)
}

func TestDate_JSON(t *testing.T) {
	var item InventoryItem
	require.NoError(t, json.Unmarshal([]byte(`{"inventory_id":1,"expiry_date":"2026-06-30"}`), &item))
	assert.Equal(t, Date("2026-06-30"), item.ExpiryDate)

	out, err := json.Marshal(PurchaseOrder{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"order_date":null`)

	assert.Error(t, json.Unmarshal([]byte(`{"expiry_date":"30/06/2026"}`), &item))
}

func TestCheckoutRequest_Total(t *testing.T) {
	req := CheckoutRequest{Items: []CheckoutItem{
		{ProductID: 1, Quantity: 2, PriceAtSale: decimal.RequireFromString("5.75")},
		{ProductID: 2, Quantity: 1, PriceAtSale: decimal.RequireFromString("10.00")},
	}}
	assert.Equal(t, "21.50", req.Total().StringFixed(2))
	assert.True(t, CheckoutRequest{}.Total().IsZero())
}
