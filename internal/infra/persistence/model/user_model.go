// Package model holds the GORM persistence models mirroring the
// database schema. IDs are generated by the domain constructors, not
// by the database, so the same models work against the in-memory
// SQLite test database.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	PhoneNumber   string    `gorm:"type:varchar(20)"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	Role          string    `gorm:"type:varchar(20);not null;index"`
	Address       string    `gorm:"type:text"`
	DateOfBirth   string    `gorm:"type:varchar(20)"`
	ProfilePicURL string    `gorm:"type:varchar(512)"`
	EmailVerified bool      `gorm:"not null;default:false"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// OTPChallengeModel mirrors the 'otp_challenges' table. At most one
// row exists per (user, purpose), enforced with a composite unique index.
type OTPChallengeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_otp_user_purpose"`
	Code      string    `gorm:"type:varchar(8);not null"`
	Purpose   string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_otp_user_purpose"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OTPChallengeModel) TableName() string {
	return "otp_challenges"
}
