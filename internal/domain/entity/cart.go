package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's open shopping cart. Each user has at most one cart,
// created lazily on the first add.
type Cart struct {
	ID        uuid.UUID  // The unique identifier for the cart.
	UserID    uuid.UUID  // The owning user. One cart per user.
	Items     []CartItem // The lines currently in the cart.
	CreatedAt time.Time  // Timestamp of when the cart was created.
	UpdatedAt time.Time  // Timestamp of the last modification.
}

// CartItem is a single product line inside a cart. The unit price is
// snapshotted when the line is first added so later catalogue price
// changes do not silently reprice the cart.
type CartItem struct {
	ID                 uuid.UUID       // The unique identifier for the cart line.
	CartID             uuid.UUID       // The cart this line belongs to.
	ProductID          uuid.UUID       // The product being purchased.
	ProductName        string          // Denormalized product name for display.
	Quantity           int             // Units of the product. Always positive.
	PriceAtAdd         decimal.Decimal // Unit price captured when the line was added.
	CustomizationNotes string          // Free-form notes for custom pickles.
}

// SubTotal returns the line total: snapshot price times quantity.
func (i CartItem) SubTotal() decimal.Decimal {
	return i.PriceAtAdd.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCart creates an empty cart for the user.
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()

	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem merges the product into the cart. If a line for the product
// already exists its quantity is increased and the original price
// snapshot is kept; otherwise a new line is appended.
func (c *Cart) AddItem(product *Product, quantity int, notes string) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == product.ID {
			c.Items[idx].Quantity += quantity
			if notes != "" {
				c.Items[idx].CustomizationNotes = notes
			}
			c.UpdatedAt = time.Now()

			return &c.Items[idx]
		}
	}

	item := CartItem{
		ID:                 uuid.New(),
		CartID:             c.ID,
		ProductID:          product.ID,
		ProductName:        product.Name,
		Quantity:           quantity,
		PriceAtAdd:         product.EffectivePrice(),
		CustomizationNotes: notes,
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()

	return &c.Items[len(c.Items)-1]
}

// UpdateItemQuantity sets the quantity of an existing line.
// Returns false if the line is not in this cart.
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items[idx].Quantity = quantity
			c.UpdatedAt = time.Now()

			return true
		}
	}

	return false
}

// RemoveItem deletes a line from the cart. Returns false if the line
// is not in this cart.
func (c *Cart) RemoveItem(itemID uuid.UUID) bool {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()

			return true
		}
	}

	return false
}

// Merge folds another cart's lines into this one: quantities are
// summed for products present in both carts and unique lines are
// copied over. This cart's price snapshots win for shared products;
// copied lines keep the snapshot they were added with.
func (c *Cart) Merge(other *Cart) {
	if other == nil || len(other.Items) == 0 {
		return
	}

	for _, line := range other.Items {
		merged := false
		for idx := range c.Items {
			if c.Items[idx].ProductID == line.ProductID {
				c.Items[idx].Quantity += line.Quantity
				merged = true

				break
			}
		}
		if merged {
			continue
		}

		line.ID = uuid.New()
		line.CartID = c.ID
		c.Items = append(c.Items, line)
	}
	c.UpdatedAt = time.Now()
}

// Clear empties the cart, typically after a successful checkout.
func (c *Cart) Clear() {
	c.Items = nil
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalAmount sums the subtotals of all lines.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.SubTotal())
	}

	return total
}

// TotalItems counts the units across all lines.
func (c *Cart) TotalItems() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}

	return count
}
