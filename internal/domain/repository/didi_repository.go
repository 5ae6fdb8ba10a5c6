package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for Didi profile persistence.
var (
	// ErrDidiProfileNotFound is returned when a Didi profile is not found.
	ErrDidiProfileNotFound = errors.New("didi profile not found")
	// ErrAadhaarAlreadyRegistered is returned when the Aadhaar unique
	// constraint rejects a duplicate registration.
	ErrAadhaarAlreadyRegistered = errors.New("aadhaar number already registered")
)

// DidiRepository defines the standard operations for Didi profile persistence.
type DidiRepository interface {
	// FindByID retrieves a single profile by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DidiProfile, error)

	// FindByUserID retrieves the profile belonging to a user.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DidiProfile, error)

	// ListByApprovalStatus retrieves profiles in a given approval state, oldest application first.
	ListByApprovalStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.DidiProfile, error)

	// Create persists a new onboarding application.
	Create(ctx context.Context, profile *entity.DidiProfile) error

	// Update modifies an existing profile.
	Update(ctx context.Context, profile *entity.DidiProfile) error
}
