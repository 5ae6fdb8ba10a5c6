package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. The ingredient list is
// stored as a JSON column via GORM's serializer.
type ProductModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name              string          `gorm:"type:varchar(255);not null;index"`
	Description       string          `gorm:"type:text"`
	Category          string          `gorm:"type:varchar(50);index"`
	Brand             string          `gorm:"type:varchar(100)"`
	Price             decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Discount          decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	OilType           string          `gorm:"type:varchar(50)"`
	Ingredients       []string        `gorm:"serializer:json"`
	ImageURL          string          `gorm:"type:varchar(512)"`
	QRCodeURL         string          `gorm:"type:varchar(512)"`
	ManufacturingDate string          `gorm:"type:varchar(20)"`
	ExpiryDate        string          `gorm:"type:varchar(20)"`
	StockQuantity     int             `gorm:"not null;default:0"`
	Available         bool            `gorm:"not null;default:true;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
