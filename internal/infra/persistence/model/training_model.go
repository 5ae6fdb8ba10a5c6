package model

import (
	"time"

	"github.com/google/uuid"
)

// TrainingContentModel mirrors the 'training_contents' table.
type TrainingContentModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title             string    `gorm:"type:varchar(255);not null"`
	Description       string    `gorm:"type:text"`
	ContentType       string    `gorm:"type:varchar(32);not null"`
	ContentURL        string    `gorm:"type:varchar(512)"`
	ThumbnailURL      string    `gorm:"type:varchar(512)"`
	Content           string    `gorm:"type:text"`
	SequenceOrder     int       `gorm:"index;not null"`
	Difficulty        string    `gorm:"type:varchar(32);not null"`
	DurationInMinutes int64     `gorm:"not null;default:0"`
	Active            bool      `gorm:"index;not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (TrainingContentModel) TableName() string {
	return "training_contents"
}

// TrainingProgressModel mirrors the 'training_progress' table. At most
// one record per (profile, module).
type TrainingProgressModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	DidiProfileID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_profile_content"`
	TrainingContentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_profile_content"`
	Status             string    `gorm:"type:varchar(32);not null"`
	ProgressPercentage int       `gorm:"not null;default:0"`
	Notes              string    `gorm:"type:text"`
	StartedAt          *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (TrainingProgressModel) TableName() string {
	return "training_progress"
}
