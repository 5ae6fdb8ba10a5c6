package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTrainingProgress_Advance(t *testing.T) {
	progress := NewTrainingProgress(uuid.New(), uuid.New())
	assert.Equal(t, ProgressStatusInProgress, progress.Status)

	progress.Advance(40, "watched half")
	assert.Equal(t, 40, progress.ProgressPercentage)
	assert.Equal(t, "watched half", progress.Notes)

	// Never moves backwards.
	progress.Advance(25, "")
	assert.Equal(t, 40, progress.ProgressPercentage)

	// Empty notes keep the previous ones.
	assert.Equal(t, "watched half", progress.Notes)

	// Clamped at 100, which completes the module.
	progress.Advance(250, "done")
	assert.Equal(t, 100, progress.ProgressPercentage)
	assert.True(t, progress.IsCompleted())
	assert.False(t, progress.CompletedAt.IsZero())
}

func TestTrainingProgress_AdvanceFromNotStarted(t *testing.T) {
	progress := &TrainingProgress{
		ID:                uuid.New(),
		DidiProfileID:     uuid.New(),
		TrainingContentID: uuid.New(),
		Status:            ProgressStatusNotStarted,
	}

	progress.Advance(10, "")
	assert.Equal(t, ProgressStatusInProgress, progress.Status)
	assert.False(t, progress.StartedAt.IsZero())
}

func TestDidiProfile_TrainingJourney(t *testing.T) {
	profile := NewDidiProfile(uuid.New(), "123412341234", 23.34, 85.31, "Ranchi")
	assert.Equal(t, TrainingStatusNotStarted, profile.TrainingStatus)

	profile.StartTraining()
	assert.Equal(t, TrainingStatusInProgress, profile.TrainingStatus)

	profile.CompleteTraining()
	assert.Equal(t, TrainingStatusCompleted, profile.TrainingStatus)
	assert.False(t, profile.TrainingCompletedAt.IsZero())

	// Starting again after completion is a no-op.
	profile.StartTraining()
	assert.Equal(t, TrainingStatusCompleted, profile.TrainingStatus)
}

func TestDidiProfile_ApprovalLifecycle(t *testing.T) {
	profile := NewDidiProfile(uuid.New(), "123412341234", 23.34, 85.31, "Ranchi")
	assert.Equal(t, ApprovalStatusPending, profile.ApprovalStatus)
	assert.False(t, profile.IsApproved())

	profile.Reject("blurry aadhaar scan")
	assert.Equal(t, "blurry aadhaar scan", profile.RejectionReason)

	profile.Approve()
	assert.True(t, profile.IsApproved())
	assert.Empty(t, profile.RejectionReason)
	assert.False(t, profile.ApprovedAt.IsZero())

	profile.Suspend()
	assert.False(t, profile.IsApproved())
}
