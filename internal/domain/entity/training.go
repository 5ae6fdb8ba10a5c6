package entity

import (
	"time"

	"github.com/google/uuid"
)

// TrainingContentType identifies the medium of a training module.
type TrainingContentType string

const (
	TrainingContentVideo    TrainingContentType = "VIDEO"
	TrainingContentDocument TrainingContentType = "DOCUMENT"
	TrainingContentPDF      TrainingContentType = "PDF"
	TrainingContentArticle  TrainingContentType = "ARTICLE"
	TrainingContentQuiz     TrainingContentType = "QUIZ"
)

// IsValid checks if the TrainingContentType is a valid value.
func (t TrainingContentType) IsValid() bool {
	switch t {
	case TrainingContentVideo, TrainingContentDocument, TrainingContentPDF,
		TrainingContentArticle, TrainingContentQuiz:
		return true
	default:
		return false
	}
}

// TrainingDifficulty grades a training module.
type TrainingDifficulty string

const (
	TrainingDifficultyBeginner     TrainingDifficulty = "BEGINNER"
	TrainingDifficultyIntermediate TrainingDifficulty = "INTERMEDIATE"
	TrainingDifficultyAdvanced     TrainingDifficulty = "ADVANCED"
)

// TrainingContent is one module of the Didi training curriculum,
// ordered by SequenceOrder within the active set.
type TrainingContent struct {
	ID                uuid.UUID           // The unique identifier for the module.
	Title             string              // Module title.
	Description       string              // What the module covers.
	ContentType       TrainingContentType // Medium of the module.
	ContentURL        string              // Where the content lives.
	ThumbnailURL      string              // Preview image, if any.
	Content           string              // Inline body for text-based modules.
	SequenceOrder     int                 // Position in the curriculum.
	Difficulty        TrainingDifficulty  // Grading of the module.
	DurationInMinutes int64               // Estimated time to complete.
	Active            bool                // Inactive modules are hidden and excluded from progress.
	CreatedAt         time.Time           // Timestamp of when the module was added.
	UpdatedAt         time.Time           // Timestamp of the last modification.
}

// NewTrainingContent adds a module to the curriculum.
func NewTrainingContent(title string, contentType TrainingContentType, contentURL string, sequenceOrder int) *TrainingContent {
	now := time.Now()

	return &TrainingContent{
		ID:            uuid.New(),
		Title:         title,
		ContentType:   contentType,
		ContentURL:    contentURL,
		SequenceOrder: sequenceOrder,
		Difficulty:    TrainingDifficultyBeginner,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ProgressStatus tracks one Didi's progress through one module.
type ProgressStatus string

const (
	ProgressStatusNotStarted ProgressStatus = "NOT_STARTED"
	ProgressStatusInProgress ProgressStatus = "IN_PROGRESS"
	ProgressStatusCompleted  ProgressStatus = "COMPLETED"
	ProgressStatusFailed     ProgressStatus = "FAILED"
)

// IsValid checks if the ProgressStatus is a valid value.
func (s ProgressStatus) IsValid() bool {
	switch s {
	case ProgressStatusNotStarted, ProgressStatusInProgress, ProgressStatusCompleted, ProgressStatusFailed:
		return true
	default:
		return false
	}
}

// TrainingProgress records one Didi's advancement through one module.
// At most one record exists per (profile, module).
type TrainingProgress struct {
	ID                 uuid.UUID      // The unique identifier for the record.
	DidiProfileID      uuid.UUID      // The Didi working through the module.
	TrainingContentID  uuid.UUID      // The module being worked through.
	Status             ProgressStatus // Current state of this module for this Didi.
	ProgressPercentage int            // 0 to 100. Reaching 100 completes the module.
	Notes              string         // Free-form notes from the Didi.
	StartedAt          time.Time      // When the module was first opened. Zero until started.
	CompletedAt        time.Time      // When the module was finished. Zero until completed.
	CreatedAt          time.Time      // Timestamp of when the record was created.
	UpdatedAt          time.Time      // Timestamp of the last modification.
}

// NewTrainingProgress opens a module for a Didi in the in-progress state.
func NewTrainingProgress(didiProfileID, trainingContentID uuid.UUID) *TrainingProgress {
	now := time.Now()

	return &TrainingProgress{
		ID:                uuid.New(),
		DidiProfileID:     didiProfileID,
		TrainingContentID: trainingContentID,
		Status:            ProgressStatusInProgress,
		StartedAt:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Advance moves the completion percentage forward. The percentage is
// clamped to [0, 100] and never moves backwards; hitting 100 completes
// the module.
func (p *TrainingProgress) Advance(percentage int, notes string) {
	if percentage > 100 {
		percentage = 100
	}
	if percentage > p.ProgressPercentage {
		p.ProgressPercentage = percentage
	}
	if notes != "" {
		p.Notes = notes
	}

	now := time.Now()
	if p.ProgressPercentage >= 100 {
		p.Status = ProgressStatusCompleted
		p.CompletedAt = now
	} else if p.Status == ProgressStatusNotStarted {
		p.Status = ProgressStatusInProgress
		p.StartedAt = now
	}
	p.UpdatedAt = now
}

// IsCompleted reports whether the module is finished.
func (p *TrainingProgress) IsCompleted() bool {
	return p.Status == ProgressStatusCompleted
}
