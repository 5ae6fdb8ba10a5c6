package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"forward step", OrderStatusPending, OrderStatusConfirmed, true},
		{"forward skip", OrderStatusPending, OrderStatusDelivered, true},
		{"backward", OrderStatusConfirmed, OrderStatusPending, false},
		{"self", OrderStatusPending, OrderStatusPending, false},
		{"cancel before shipping", OrderStatusProcessing, OrderStatusCancelled, true},
		{"cancel after shipping", OrderStatusShipped, OrderStatusCancelled, false},
		{"fail from pending", OrderStatusPending, OrderStatusFailed, true},
		{"fail after confirmation", OrderStatusConfirmed, OrderStatusFailed, false},
		{"refund is never a direct move", OrderStatusPending, OrderStatusRefunded, false},
		{"terminal delivered", OrderStatusDelivered, OrderStatusShipped, false},
		{"terminal cancelled", OrderStatusCancelled, OrderStatusConfirmed, false},
		{"unknown target", OrderStatusPending, OrderStatus("TELEPORTED"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestOrder_Totals(t *testing.T) {
	order := NewOrder(uuid.New(), Address{City: "Ranchi"}, Address{}, "UPI")
	product := &Product{ID: uuid.New(), Name: "Mango Pickle", Price: decimal.NewFromInt(250)}

	order.AddItem(NewOrderItemFromCart(order.ID, CartItem{
		ID:         uuid.New(),
		ProductID:  product.ID,
		Quantity:   2,
		PriceAtAdd: decimal.NewFromInt(250),
	}, product))

	assert.True(t, decimal.NewFromInt(500).Equal(order.TotalAmount))

	order.ApplyCharges(decimal.NewFromInt(50), decimal.NewFromInt(25), decimal.NewFromInt(40))
	// 500 - 50 + 25 + 40
	assert.True(t, decimal.NewFromInt(515).Equal(order.FinalAmount), "got %s", order.FinalAmount)
}

func TestOrder_BillingFallsBackToShipping(t *testing.T) {
	shipping := Address{City: "Ranchi", StreetAddress: "12 Market Road"}
	order := NewOrder(uuid.New(), shipping, Address{}, "COD")
	assert.Equal(t, shipping, order.BillingAddress)

	billing := Address{City: "Patna"}
	order = NewOrder(uuid.New(), shipping, billing, "COD")
	assert.Equal(t, billing, order.BillingAddress)
}

func TestOrder_CancelAndPaymentLifecycle(t *testing.T) {
	order := NewOrder(uuid.New(), Address{City: "Ranchi"}, Address{}, "UPI")
	assert.True(t, order.IsCancellable())
	assert.Regexp(t, `^PAY-\d{4}-[0-9a-f]{8}$`, order.PaymentID)

	order.CompletePayment("txn_1")
	assert.Equal(t, OrderStatusConfirmed, order.Status)
	assert.Equal(t, PaymentStatusSuccess, order.PaymentStatus)
	assert.Equal(t, "txn_1", order.TransactionID)
	assert.True(t, order.IsCancellable())

	order.Cancel()
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.Equal(t, PaymentStatusRefunded, order.PaymentStatus)
	assert.False(t, order.IsCancellable())
}

func TestOrder_Assignments(t *testing.T) {
	order := NewOrder(uuid.New(), Address{City: "Ranchi"}, Address{}, "UPI")

	shgID := uuid.New()
	order.AssignSHG(shgID)
	assert.Equal(t, shgID, order.AssignedSHGID)
	assert.Equal(t, OrderStatusProcessing, order.Status)

	agentID := uuid.New()
	order.AssignDeliveryBoy(agentID)
	assert.Equal(t, agentID, order.DeliveryBoyID)
	assert.Equal(t, OrderStatusOutForDelivery, order.Status)
}

func TestNewOrderNumber(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		number := NewOrderNumber(time.Now())
		assert.Regexp(t, `^ORD-\d{4}-[0-9a-f]{6}$`, number)
		assert.False(t, seen[number], "order number collision: %s", number)
		seen[number] = true
	}
}
