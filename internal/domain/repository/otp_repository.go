package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrOTPNotFound is returned when no live challenge exists for the user and purpose.
var ErrOTPNotFound = errors.New("otp challenge not found")

// OTPRepository manages single-use OTP challenges.
type OTPRepository interface {
	// Replace stores a challenge, removing any previous challenge for
	// the same user and purpose so only the latest code is live.
	Replace(ctx context.Context, challenge *entity.OTPChallenge) error

	// FindByUserAndPurpose retrieves the live challenge for a user and purpose.
	FindByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) (*entity.OTPChallenge, error)

	// Delete consumes a challenge after a successful verification.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes all expired challenges. Called periodically for cleanup.
	DeleteExpired(ctx context.Context) error
}
