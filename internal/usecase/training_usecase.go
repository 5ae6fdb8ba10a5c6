package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTrainingContentInput defines a new curriculum module.
type CreateTrainingContentInput struct {
	Title             string
	Description       string
	ContentType       entity.TrainingContentType
	ContentURL        string
	ThumbnailURL      string
	Content           string
	SequenceOrder     int
	Difficulty        entity.TrainingDifficulty
	DurationInMinutes int64
}

// CurriculumModule pairs a module with the acting Didi's progress on it.
type CurriculumModule struct {
	Content  *entity.TrainingContent
	Progress *entity.TrainingProgress // nil when the module has not been opened
}

// CurriculumOutput is the active curriculum with overall completion.
type CurriculumOutput struct {
	Modules              []CurriculumModule
	CompletionPercentage int
}

// TrainingUsecase defines the interface for the Didi training journey.
type TrainingUsecase interface {
	// Curriculum retrieves the active modules with the acting Didi's
	// progress and overall completion.
	Curriculum(ctx context.Context, userID uuid.UUID) (*CurriculumOutput, error)

	// CreateContent adds a module to the curriculum. Admin only.
	CreateContent(ctx context.Context, input CreateTrainingContentInput) (*entity.TrainingContent, error)

	// UpdateContent modifies an existing module. Admin only.
	UpdateContent(ctx context.Context, contentID uuid.UUID, input CreateTrainingContentInput, active bool) (*entity.TrainingContent, error)

	// RecordProgress advances the acting Didi's progress on a module.
	// Completing the last open module completes the whole journey and
	// is announced to the Didi.
	RecordProgress(ctx context.Context, userID, contentID uuid.UUID, percentage int, notes string) (*entity.TrainingProgress, error)
}
