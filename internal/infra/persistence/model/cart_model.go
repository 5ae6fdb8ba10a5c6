package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel mirrors the 'carts' table. One cart per user.
type CartModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel mirrors the 'cart_items' table. A product appears at
// most once per cart.
type CartItemModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID             uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_product"`
	ProductName        string          `gorm:"type:varchar(255);not null"`
	Quantity           int             `gorm:"not null"`
	PriceAtAdd         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CustomizationNotes string          `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
