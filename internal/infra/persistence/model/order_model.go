package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. Shipping and billing addresses
// are flattened into prefixed columns, assignment columns stay NULL
// until an admin assigns the order, and Version backs the optimistic
// lock on concurrent updates.
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`

	Status        string `gorm:"type:varchar(32);index;not null"`
	PaymentStatus string `gorm:"type:varchar(32);index;not null"`
	PaymentMethod string `gorm:"type:varchar(64)"`
	PaymentID     string `gorm:"type:varchar(128);index"`
	TransactionID string `gorm:"type:varchar(128)"`

	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingCharge decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	FinalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	ShippingStreetAddress string `gorm:"type:varchar(255)"`
	ShippingCity          string `gorm:"type:varchar(128)"`
	ShippingState         string `gorm:"type:varchar(128)"`
	ShippingPostalCode    string `gorm:"type:varchar(16)"`
	ShippingCountry       string `gorm:"type:varchar(128)"`
	ShippingLandmark      string `gorm:"type:varchar(255)"`
	ShippingContactNumber string `gorm:"type:varchar(32)"`
	ShippingRecipientName string `gorm:"type:varchar(255)"`

	BillingStreetAddress string `gorm:"type:varchar(255)"`
	BillingCity          string `gorm:"type:varchar(128)"`
	BillingState         string `gorm:"type:varchar(128)"`
	BillingPostalCode    string `gorm:"type:varchar(16)"`
	BillingCountry       string `gorm:"type:varchar(128)"`
	BillingLandmark      string `gorm:"type:varchar(255)"`
	BillingContactNumber string `gorm:"type:varchar(32)"`
	BillingRecipientName string `gorm:"type:varchar(255)"`

	AssignedSHGID *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryBoyID *uuid.UUID `gorm:"type:uuid;index"`

	Version   int64     `gorm:"not null;default:0"`
	OrderDate time.Time `gorm:"index;not null"`
	UpdatedAt time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Product details are
// snapshotted at checkout so later catalogue edits do not rewrite
// order history.
type OrderItemModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName        string          `gorm:"type:varchar(255);not null"`
	ProductDescription string          `gorm:"type:text"`
	UnitPrice          decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity           int             `gorm:"not null"`
	OilType            string          `gorm:"type:varchar(64)"`
	Ingredients        []string        `gorm:"serializer:json"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CustomizationNotes string          `gorm:"type:text"`
	ImageURL           string          `gorm:"type:varchar(512)"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
