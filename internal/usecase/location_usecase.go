package usecase

import (
	"context"
	"time"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
)

// LocationPingInput defines one reported position.
type LocationPingInput struct {
	Latitude  float64
	Longitude float64
	Location  string
	Source    entity.LocationPingSource
	Accuracy  string
}

// LocationUsecase defines the interface for Didi location tracking.
type LocationUsecase interface {
	// RecordPing stores a position report for the acting Didi.
	RecordPing(ctx context.Context, userID uuid.UUID, input LocationPingInput) (*entity.LocationPing, error)

	// LatestLocation retrieves a profile's most recent ping.
	LatestLocation(ctx context.Context, didiProfileID uuid.UUID) (*entity.LocationPing, error)

	// Trail retrieves a profile's pings recorded at or after the given
	// instant, oldest first.
	Trail(ctx context.Context, didiProfileID uuid.UUID, since time.Time) ([]*entity.LocationPing, error)
}
