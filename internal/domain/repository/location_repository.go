package repository

import (
	"context"
	"time"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrLocationPingNotFound is returned when a Didi has no recorded pings.
var ErrLocationPingNotFound = errors.New("location ping not found")

// LocationRepository defines the operations for Didi location tracking.
type LocationRepository interface {
	// Create persists a new location ping.
	Create(ctx context.Context, ping *entity.LocationPing) error

	// FindLatestByProfile retrieves the most recent ping for a Didi profile.
	FindLatestByProfile(ctx context.Context, didiProfileID uuid.UUID) (*entity.LocationPing, error)

	// ListByProfileSince retrieves a profile's pings recorded at or
	// after the given instant, oldest first.
	ListByProfileSince(ctx context.Context, didiProfileID uuid.UUID, since time.Time) ([]*entity.LocationPing, error)
}
