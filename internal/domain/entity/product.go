package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// productDateLayout is the format of the label dates printed on the jar.
const productDateLayout = "2006-01-02"

// Product is a catalogue item, either a ready-made pickle, papad or
// chutney produced by an SHG, or a base product a custom recipe builds on.
type Product struct {
	ID                uuid.UUID       // The unique identifier for the product.
	Name              string          // Display name of the product.
	Description       string          // Longer description shown on the product page.
	Category          string          // Product category, e.g. "Achar", "Papad", "Chutney".
	Brand             string          // Producing brand or SHG name.
	Price             decimal.Decimal // Unit selling price in rupees.
	Discount          decimal.Decimal // Flat discount applied per unit, zero when not on offer.
	OilType           string          // Base oil used, e.g. "mustard", "sesame".
	Ingredients       []string        // Ingredient list copied onto order items as a snapshot.
	ImageURL          string          // URL of the uploaded product image.
	QRCodeURL         string          // URL of the generated traceability QR code image.
	ManufacturingDate string          // Manufacturing date printed on the label.
	ExpiryDate        string          // Expiry date printed on the label.
	StockQuantity     int             // Units currently on hand. Never negative.
	Available         bool            // False hides the product from the catalogue.
	CreatedAt         time.Time       // Timestamp of when the product was listed.
	UpdatedAt         time.Time       // Timestamp of the last modification.
}

// NewProduct lists a product with the given stock.
// Availability follows directly from the stock quantity.
func NewProduct(name, category, brand string, price decimal.Decimal, stock int) *Product {
	now := time.Now()

	return &Product{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		Brand:         brand,
		Price:         price,
		Discount:      decimal.Zero,
		StockQuantity: stock,
		Available:     stock > 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks the label dates before the product is written.
// Both dates are optional, but a present date must parse, the expiry
// must not precede manufacture, and a product past its expiry is
// forced off the catalogue rather than rejected.
func (p *Product) Validate() error {
	var manufactured, expires time.Time
	var err error

	if p.ManufacturingDate != "" {
		manufactured, err = time.Parse(productDateLayout, p.ManufacturingDate)
		if err != nil {
			return errors.Errorf("invalid manufacturing date %q, expected YYYY-MM-DD", p.ManufacturingDate)
		}
	}
	if p.ExpiryDate != "" {
		expires, err = time.Parse(productDateLayout, p.ExpiryDate)
		if err != nil {
			return errors.Errorf("invalid expiry date %q, expected YYYY-MM-DD", p.ExpiryDate)
		}
	}

	if !manufactured.IsZero() && !expires.IsZero() && expires.Before(manufactured) {
		return errors.New("expiry date cannot precede manufacturing date")
	}

	if !expires.IsZero() && expires.Before(time.Now().Truncate(24*time.Hour)) {
		p.Available = false
	}

	return nil
}

// EffectivePrice returns the unit price after discount, floored at zero.
func (p *Product) EffectivePrice() decimal.Decimal {
	price := p.Price.Sub(p.Discount)
	if price.IsNegative() {
		return decimal.Zero
	}

	return price
}

// InStock reports whether the requested quantity can be fulfilled.
func (p *Product) InStock(quantity int) bool {
	return p.Available && p.StockQuantity >= quantity
}

// DecreaseStock reserves stock for an order. The product becomes
// unavailable when the last unit is taken.
func (p *Product) DecreaseStock(quantity int) bool {
	if quantity <= 0 || p.StockQuantity < quantity {
		return false
	}

	p.StockQuantity -= quantity
	if p.StockQuantity == 0 {
		p.Available = false
	}
	p.UpdatedAt = time.Now()

	return true
}

// IncreaseStock returns stock to the shelf, e.g. after a cancellation
// or a failed payment. Restocking re-enables availability.
func (p *Product) IncreaseStock(quantity int) {
	if quantity <= 0 {
		return
	}

	p.StockQuantity += quantity
	p.Available = true
	p.UpdatedAt = time.Now()
}
