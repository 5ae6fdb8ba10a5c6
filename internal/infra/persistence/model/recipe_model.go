package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomRecipeModel mirrors the 'custom_recipes' table. The share token
// backs the public share link and must stay unique.
type CustomRecipeModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Ingredients []string        `gorm:"serializer:json"`
	OilType     string          `gorm:"type:varchar(64)"`
	SpiceLevel  string          `gorm:"type:varchar(32)"`
	RecipeJSON  string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ShareToken  string          `gorm:"type:varchar(64);uniqueIndex;not null"`
	Status      string          `gorm:"type:varchar(32);index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomRecipeModel) TableName() string {
	return "custom_recipes"
}
