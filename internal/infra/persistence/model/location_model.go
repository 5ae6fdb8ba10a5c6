package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationPingModel mirrors the 'location_pings' table. Trail queries
// scan by profile and time, hence the composite index.
type LocationPingModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DidiProfileID uuid.UUID `gorm:"type:uuid;index:idx_ping_profile_time;not null"`
	Latitude      float64   `gorm:"not null"`
	Longitude     float64   `gorm:"not null"`
	Location      string    `gorm:"type:varchar(255)"`
	Source        string    `gorm:"type:varchar(16);not null"`
	Accuracy      string    `gorm:"type:varchar(32)"`
	Timestamp     time.Time `gorm:"index:idx_ping_profile_time;not null"`
}

// TableName explicitly sets the table name for GORM.
func (LocationPingModel) TableName() string {
	return "location_pings"
}
