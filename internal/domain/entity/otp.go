package entity

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// OTPPurpose tags what an OTP challenge is allowed to prove.
// A signup code can never be replayed to reset a password, and vice versa.
type OTPPurpose string

const (
	// OTPPurposeSignup verifies the email address of a newly registered account.
	OTPPurposeSignup OTPPurpose = "signup"
	// OTPPurposePasswordReset authorizes a forgotten-password reset.
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// IsValid checks if the OTPPurpose is a valid value.
func (p OTPPurpose) IsValid() bool {
	switch p {
	case OTPPurposeSignup, OTPPurposePasswordReset:
		return true
	default:
		return false
	}
}

// OTPChallenge is a single-use numeric code mailed to a user.
// At most one live challenge exists per (user, purpose); issuing a new
// one replaces the previous code.
type OTPChallenge struct {
	ID        uuid.UUID  // The unique ID for this challenge record.
	UserID    uuid.UUID  // The user this code was issued to.
	Code      string     // The 4-digit code, stored as text to preserve leading semantics.
	Purpose   OTPPurpose // What a successful verification of this code proves.
	ExpiresAt time.Time  // After this instant the code is rejected regardless of correctness.
	CreatedAt time.Time  // Timestamp of when the code was issued.
}

// NewOTPChallenge issues a fresh 4-digit challenge for the user.
func NewOTPChallenge(userID uuid.UUID, purpose OTPPurpose, ttl time.Duration) *OTPChallenge {
	now := time.Now()

	return &OTPChallenge{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      generateOTPCode(),
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Matches reports whether the supplied code is correct and still valid.
func (c *OTPChallenge) Matches(code string, now time.Time) bool {
	return c.Code == code && now.Before(c.ExpiresAt)
}

// generateOTPCode returns a uniformly random code in [1000, 9999].
func generateOTPCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(err)
	}

	return big.NewInt(0).Add(n, big.NewInt(1000)).String()
}
