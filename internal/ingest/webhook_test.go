package ingest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookPayload = `{
  "id": 4821,
  "customer_id": 77,
  "order_key": "wc_order_abc123",
  "date_created": "2023-04-05T08:30:00",
  "date_modified": "2023-04-05T08:31:12",
  "billing": {
    "first_name": "Dana",
    "last_name": "Reyes",
    "email": "dana@example.com",
    "address_1": "12 Elm St",
    "address_2": "Apt 4",
    "city": "Austin",
    "state": "TX",
    "postcode": "78701",
    "country": "US"
  },
  "line_items": [
    {"id": 901, "name": "10 Day Trial Pack", "sku": "TRIAL-10", "quantity": 1, "subtotal": "49.00", "product_id": 1001},
    {"id": 902, "name": "CalmZ C30", "sku": "30-CLM-SG-60", "quantity": 1, "subtotal": "0.00", "product_id": 1002},
    {"id": 903, "name": "CalmZ C34", "sku": "34-CLM-SG-60", "quantity": 1, "subtotal": "0.00", "product_id": 1003},
    {"id": 904, "name": "SleepZ S10", "sku": "10-SLP-SG-60", "quantity": 1, "subtotal": "0.00", "product_id": 1004},
    {"id": 905, "name": "SleepZ S12", "sku": "12-SLP-SG-60", "quantity": 1, "subtotal": "0.00", "product_id": 1005}
  ]
}`

func decodeWebhook(t *testing.T) WebhookOrder {
	t.Helper()
	var w WebhookOrder
	require.NoError(t, json.Unmarshal([]byte(webhookPayload), &w))
	return w
}

func TestFromWebhook(t *testing.T) {
	order, payload, err := FromWebhook(decodeWebhook(t))
	require.NoError(t, err)

	assert.Equal(t, "Dana", order.First)
	assert.Equal(t, "Reyes", order.Last)
	assert.Equal(t, "dana@example.com", order.Email)
	assert.Equal(t, "4821", order.UUID)
	assert.Equal(t, "4821", order.OrderNumber)
	assert.Equal(t, "10 Day Trial Pack", order.Pack)
	assert.Equal(t, "calm30", order.Calm1)
	assert.Equal(t, "calm34", order.Calm2)
	assert.Equal(t, "sleep10", order.Sleep1)
	assert.Equal(t, "sleep12", order.Sleep2)
	assert.Equal(t, "04/05/2023", order.DateOrder)
	assert.Equal(t, "April 5, 2023", order.DateTitle)

	assert.Equal(t, "4821", payload.OrderNumber)
	assert.Equal(t, "awaiting_shipment", payload.OrderStatus)
	assert.Equal(t, int64(77), payload.CustomerID)
	assert.Equal(t, "Dana Reyes", payload.BillTo.Name)
	assert.Equal(t, payload.BillTo, payload.ShipTo)
	assert.Equal(t, "stamps_com", payload.CarrierCode)
	assert.Equal(t, "usps_first_class_mail", payload.ServiceCode)
	assert.Equal(t, 638301, payload.AdvancedOptions.WarehouseID)
	assert.Equal(t, 300914, payload.AdvancedOptions.StoreID)
	assert.Equal(t, 15.00, payload.Weight.Value)

	// only the pack line item ships
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "TRIAL-10", payload.Items[0].SKU)
	assert.Nil(t, payload.AdvancedOptions.CustomField1)
}

func TestFromWebhookRejections(t *testing.T) {
	t.Run("no line items", func(t *testing.T) {
		w := decodeWebhook(t)
		w.LineItems = nil
		_, _, err := FromWebhook(w)
		require.ErrorIs(t, err, ErrNotShippable)
	})

	t.Run("missing billing email", func(t *testing.T) {
		w := decodeWebhook(t)
		w.Billing.Email = ""
		_, _, err := FromWebhook(w)
		require.ErrorIs(t, err, ErrNotShippable)
	})

	t.Run("no trial pack", func(t *testing.T) {
		w := decodeWebhook(t)
		w.LineItems = w.LineItems[1:]
		_, _, err := FromWebhook(w)
		require.ErrorIs(t, err, ErrNotShippable)
	})
}

func TestFromWebhookBadDateIsFatal(t *testing.T) {
	w := decodeWebhook(t)
	w.DateCreated = "05/04/2023"
	_, _, err := FromWebhook(w)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotShippable)
}

func TestNormalizeLineItemName(t *testing.T) {
	cases := map[string]string{
		"CalmZ C30":  "calm30",
		"CalmZ C40":  "calm40",
		"SleepZ S10": "sleep10",
		"sleepz s20": "sleep20",
	}
	for name, want := range cases {
		assert.Equal(t, want, NormalizeLineItemName(name), name)
	}
}
