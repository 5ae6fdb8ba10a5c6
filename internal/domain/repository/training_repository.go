package repository

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for training persistence.
var (
	// ErrTrainingContentNotFound is returned when a curriculum module is not found.
	ErrTrainingContentNotFound = errors.New("training content not found")
	// ErrTrainingProgressNotFound is returned when a progress record is not found.
	ErrTrainingProgressNotFound = errors.New("training progress not found")
)

// TrainingRepository defines the operations for the training curriculum
// and per-Didi progress records.
type TrainingRepository interface {
	// FindContentByID retrieves a single curriculum module.
	FindContentByID(ctx context.Context, id uuid.UUID) (*entity.TrainingContent, error)

	// ListActiveContent retrieves the active curriculum ordered by sequence.
	ListActiveContent(ctx context.Context) ([]*entity.TrainingContent, error)

	// CreateContent adds a module to the curriculum.
	CreateContent(ctx context.Context, content *entity.TrainingContent) error

	// UpdateContent modifies an existing module.
	UpdateContent(ctx context.Context, content *entity.TrainingContent) error

	// FindProgress retrieves the progress record for one Didi and one module.
	FindProgress(ctx context.Context, didiProfileID, contentID uuid.UUID) (*entity.TrainingProgress, error)

	// ListProgressByProfile retrieves all progress records for a Didi.
	ListProgressByProfile(ctx context.Context, didiProfileID uuid.UUID) ([]*entity.TrainingProgress, error)

	// SaveProgress inserts or updates a progress record. At most one
	// record exists per (profile, module).
	SaveProgress(ctx context.Context, progress *entity.TrainingProgress) error
}
