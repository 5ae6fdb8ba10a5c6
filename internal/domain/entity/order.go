package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus tracks an order through its fulfilment lifecycle.
// The declared order matters: cancellability is decided by comparing
// a status against OrderStatusShipped.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusConfirmed      OrderStatus = "CONFIRMED"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusRefunded       OrderStatus = "REFUNDED"
	OrderStatusFailed         OrderStatus = "FAILED"
)

// orderStatusRank gives each status its position in the forward
// fulfilment chain. Terminal statuses sit outside the chain.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusProcessing:     2,
	OrderStatusShipped:        3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step. Forward moves along the fulfilment chain may skip
// stages; cancellation is only possible before shipping; failure is
// only possible before confirmation.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next || s.IsTerminal() || !next.IsValid() {
		return false
	}

	from, onChain := orderStatusRank[s]
	switch next {
	case OrderStatusCancelled:
		return onChain && from < orderStatusRank[OrderStatusShipped]
	case OrderStatusFailed:
		return s == OrderStatusPending
	case OrderStatusRefunded:
		return false // reached only through cancellation, which sets it directly
	default:
		to, ok := orderStatusRank[next]

		return onChain && ok && to > from
	}
}

// PaymentStatus tracks the payment attached to an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is a placed purchase. Items are immutable snapshots of the
// products at checkout time; the order never re-reads the catalogue.
type Order struct {
	ID              uuid.UUID       // The unique identifier for the order.
	OrderNumber     string          // Human-readable reference, unique, e.g. "ORD-2026-1a2b3c".
	UserID          uuid.UUID       // The customer who placed the order.
	Status          OrderStatus     // Current position in the fulfilment lifecycle.
	PaymentStatus   PaymentStatus   // Current state of the payment.
	TotalAmount     decimal.Decimal // Sum of item totals before adjustments.
	DiscountAmount  decimal.Decimal // Order-level discount.
	TaxAmount       decimal.Decimal // Tax applied on top of the total.
	ShippingCharge  decimal.Decimal // Delivery charge.
	FinalAmount     decimal.Decimal // Total - discount + tax + shipping. What the customer pays.
	ShippingAddress Address         // Where the order is delivered.
	BillingAddress  Address         // Where the invoice is addressed. Falls back to shipping.
	PaymentMethod   string          // e.g. "UPI", "CARD", "COD".
	PaymentID       string          // Gateway payment reference, assigned when the order is placed.
	TransactionID   string          // Gateway transaction reference.
	AssignedSHGID   uuid.UUID       // The SHG Didi assigned to prepare the order. Nil UUID until assigned.
	DeliveryBoyID   uuid.UUID       // The delivery agent assigned. Nil UUID until assigned.
	Items           []OrderItem     // Immutable product snapshots.
	Version         int64           // Optimistic lock counter, incremented on every update.
	OrderDate       time.Time       // Timestamp of when the order was placed.
	UpdatedAt       time.Time       // Timestamp of the last modification.
}

// OrderItem is the frozen snapshot of one purchased product line.
// The product reference may dangle if the product is later deleted;
// everything needed for display and disputes is copied here.
type OrderItem struct {
	ID                 uuid.UUID       // The unique identifier for the order line.
	OrderID            uuid.UUID       // The order this line belongs to.
	ProductID          uuid.UUID       // The purchased product. May no longer exist.
	ProductName        string          // Product name at checkout.
	ProductDescription string          // Product description at checkout.
	UnitPrice          decimal.Decimal // Unit price actually charged.
	Quantity           int             // Units purchased.
	OilType            string          // Oil type of the product at checkout.
	Ingredients        []string        // Ingredient list of the product at checkout.
	DiscountAmount     decimal.Decimal // Line-level discount.
	TotalPrice         decimal.Decimal // UnitPrice * Quantity - DiscountAmount.
	CustomizationNotes string          // Notes carried over from the cart line.
	ImageURL           string          // Product image at checkout.
}

// NewOrderNumber builds a unique human-readable order reference of the
// form "ORD-<year>-<6 hex>". The hex suffix comes from a fresh UUID,
// which keeps the reference unpredictable without a database round trip.
func NewOrderNumber(now time.Time) string {
	id := uuid.New()

	return fmt.Sprintf("ORD-%d-%x", now.Year(), id[:3])
}

// NewPaymentReference builds the payment reference handed to the
// gateway when the order is placed. Settlement callbacks identify the
// order by this reference rather than its id.
func NewPaymentReference(now time.Time) string {
	id := uuid.New()

	return fmt.Sprintf("PAY-%d-%x", now.Year(), id[:4])
}

// NewOrderItemFromCart freezes a cart line and its product into an order line.
func NewOrderItemFromCart(orderID uuid.UUID, item CartItem, product *Product) OrderItem {
	quantity := decimal.NewFromInt(int64(item.Quantity))

	return OrderItem{
		ID:                 uuid.New(),
		OrderID:            orderID,
		ProductID:          product.ID,
		ProductName:        product.Name,
		ProductDescription: product.Description,
		UnitPrice:          item.PriceAtAdd,
		Quantity:           item.Quantity,
		OilType:            product.OilType,
		Ingredients:        append([]string(nil), product.Ingredients...),
		DiscountAmount:     decimal.Zero,
		TotalPrice:         item.PriceAtAdd.Mul(quantity),
		CustomizationNotes: item.CustomizationNotes,
		ImageURL:           product.ImageURL,
	}
}

// NewOrder places an order for the given user. Amount fields other
// than the item totals are applied by the caller before persisting.
func NewOrder(userID uuid.UUID, shipping, billing Address, paymentMethod string) *Order {
	now := time.Now()
	if billing.IsZero() {
		billing = shipping
	}

	return &Order{
		ID:              uuid.New(),
		OrderNumber:     NewOrderNumber(now),
		UserID:          userID,
		Status:          OrderStatusPending,
		PaymentStatus:   PaymentStatusPending,
		TotalAmount:     decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       decimal.Zero,
		ShippingCharge:  decimal.Zero,
		FinalAmount:     decimal.Zero,
		ShippingAddress: shipping,
		BillingAddress:  billing,
		PaymentMethod:   paymentMethod,
		PaymentID:       NewPaymentReference(now),
		OrderDate:       now,
		UpdatedAt:       now,
	}
}

// AddItem appends a line and folds it into the order totals.
func (o *Order) AddItem(item OrderItem) {
	item.OrderID = o.ID
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.TotalPrice)
	o.recalculateFinalAmount()
}

// ApplyCharges sets the order-level adjustments and recomputes the final amount.
func (o *Order) ApplyCharges(discount, tax, shipping decimal.Decimal) {
	o.DiscountAmount = discount
	o.TaxAmount = tax
	o.ShippingCharge = shipping
	o.recalculateFinalAmount()
}

func (o *Order) recalculateFinalAmount() {
	o.FinalAmount = o.TotalAmount.
		Sub(o.DiscountAmount).
		Add(o.TaxAmount).
		Add(o.ShippingCharge)
	o.UpdatedAt = time.Now()
}

// IsCancellable reports whether the customer may still cancel.
// Once shipped, the order can only run to delivery or be refunded
// through support.
func (o *Order) IsCancellable() bool {
	rank, onChain := orderStatusRank[o.Status]

	return onChain && rank < orderStatusRank[OrderStatusShipped]
}

// Cancel moves the order to the cancelled state and marks the payment
// for refund. The caller is responsible for restoring inventory.
func (o *Order) Cancel() {
	o.Status = OrderStatusCancelled
	o.PaymentStatus = PaymentStatusRefunded
	o.UpdatedAt = time.Now()
}

// CompletePayment records a successful payment and confirms the order.
func (o *Order) CompletePayment(transactionID string) {
	o.PaymentStatus = PaymentStatusSuccess
	o.TransactionID = transactionID
	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
}

// FailPayment records a failed payment attempt and fails the order.
// The caller is responsible for restoring inventory.
func (o *Order) FailPayment() {
	o.PaymentStatus = PaymentStatusFailed
	o.Status = OrderStatusFailed
	o.UpdatedAt = time.Now()
}

// AssignSHG hands the order to an SHG Didi for preparation and forces
// the order into processing.
func (o *Order) AssignSHG(shgID uuid.UUID) {
	o.AssignedSHGID = shgID
	o.Status = OrderStatusProcessing
	o.UpdatedAt = time.Now()
}

// AssignDeliveryBoy hands the order to a delivery agent and forces the
// order out for delivery.
func (o *Order) AssignDeliveryBoy(deliveryBoyID uuid.UUID) {
	o.DeliveryBoyID = deliveryBoyID
	o.Status = OrderStatusOutForDelivery
	o.UpdatedAt = time.Now()
}
