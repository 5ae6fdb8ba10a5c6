// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// A user always holds exactly one role; role-specific data (such as a Didi's
// producer profile) lives in its own entity keyed by the user ID.
type User struct {
	ID            uuid.UUID // The unique identifier for the user.
	Name          string    // The user's display name or real name.
	Email         string    // The user's primary contact email, used as the login identifier.
	PhoneNumber   string    // The user's contact phone number.
	PasswordHash  string    // The bcrypt-hashed password. Never exposed outside the domain.
	Role          Role      // The single role this user holds.
	Address       string    // Free-form home address captured at signup.
	DateOfBirth   string    // Date of birth as provided at signup, not validated as a date.
	ProfilePicURL string    // URL of the uploaded profile picture, empty if none.
	EmailVerified bool      // True once the signup OTP has been verified.
	Active        bool      // False for soft-disabled accounts; inactive users cannot log in.
	CreatedAt     time.Time // Timestamp of when this user account was created.
	UpdatedAt     time.Time // Timestamp of the last modification to this user's data.
}

// NewUser creates a user account in the unverified state.
// The password hash must already be computed by the caller.
func NewUser(name, email, phoneNumber, passwordHash string, role Role) *User {
	now := time.Now()

	return &User{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		PhoneNumber:   phoneNumber,
		PasswordHash:  passwordHash,
		Role:          role,
		EmailVerified: false,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkEmailVerified flips the verification flag after a successful OTP check.
func (u *User) MarkEmailVerified() {
	u.EmailVerified = true
	u.UpdatedAt = time.Now()
}

// ChangePassword replaces the stored password hash.
func (u *User) ChangePassword(passwordHash string) {
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
}

// CanLogin reports whether the account may authenticate.
func (u *User) CanLogin() bool {
	return u.Active && u.EmailVerified
}
