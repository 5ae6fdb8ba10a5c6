package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DidiProfileModel mirrors the 'didi_profiles' table. One profile per
// user, one profile per Aadhaar number.
type DidiProfileModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	AadhaarNumber       string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	AadhaarImageURL     string    `gorm:"type:varchar(512)"`
	BankAccountNumber   string    `gorm:"type:varchar(32)"`
	BankIFSC            string    `gorm:"type:varchar(16)"`
	BankName            string    `gorm:"type:varchar(128)"`
	AccountHolderName   string    `gorm:"type:varchar(255)"`
	Latitude            float64
	Longitude           float64
	Location            string `gorm:"type:varchar(255)"`
	ApprovalStatus      string `gorm:"type:varchar(32);index;not null"`
	RejectionReason     string `gorm:"type:text"`
	TrainingStatus      string `gorm:"type:varchar(32);not null"`
	TrainingCompletedAt *time.Time
	TotalEarnings       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AverageRating       decimal.Decimal `gorm:"type:numeric(3,2);not null"`
	TotalOrders         int             `gorm:"not null;default:0"`
	TotalSales          int             `gorm:"not null;default:0"`
	ApprovedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (DidiProfileModel) TableName() string {
	return "didi_profiles"
}
