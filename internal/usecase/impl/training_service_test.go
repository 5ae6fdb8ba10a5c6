package impl

import (
	"context"
	"testing"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trainingFixture struct {
	svc       usecase.TrainingUsecase
	didiRepo  repository.DidiRepository
	publisher *stubPublisher
	notifier  *stubNotifier
	didiUser  *entity.User
	profile   *entity.DidiProfile
	ctx       context.Context
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := postgres.NewUserRepository(db)
	didiRepo := postgres.NewDidiRepository(db)
	publisher := &stubPublisher{}
	notifier := &stubNotifier{}

	svc := NewTrainingService(TrainingServiceParams{
		TrainingRepo: postgres.NewTrainingRepository(db),
		DidiRepo:     didiRepo,
		Publisher:    publisher,
		Notifier:     notifier,
		Logger:       newTestLogger(),
	})

	didiUser := createTestUser(t, userRepo, "didi@example.com", entity.RoleSHGDidi)
	profile := entity.NewDidiProfile(didiUser.ID, "123412341234", 23.34, 85.31, "Ranchi")
	profile.Approve()
	require.NoError(t, didiRepo.Create(context.Background(), profile))

	return &trainingFixture{
		svc:       svc,
		didiRepo:  didiRepo,
		publisher: publisher,
		notifier:  notifier,
		didiUser:  didiUser,
		profile:   profile,
		ctx:       context.Background(),
	}
}

func (f *trainingFixture) createModule(t *testing.T, title string, order int) *entity.TrainingContent {
	t.Helper()

	content, err := f.svc.CreateContent(f.ctx, usecase.CreateTrainingContentInput{
		Title:         title,
		ContentType:   entity.TrainingContentVideo,
		ContentURL:    "https://videos.example.com/" + title,
		SequenceOrder: order,
	})
	require.NoError(t, err)

	return content
}

func TestTrainingService_CreateContentValidation(t *testing.T) {
	f := newTrainingFixture(t)

	_, err := f.svc.CreateContent(f.ctx, usecase.CreateTrainingContentInput{ContentType: entity.TrainingContentVideo})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.svc.CreateContent(f.ctx, usecase.CreateTrainingContentInput{Title: "Hygiene", ContentType: "HOLOGRAM"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestTrainingService_UpdateContent(t *testing.T) {
	f := newTrainingFixture(t)
	module := f.createModule(t, "Hygiene basics", 1)

	updated, err := f.svc.UpdateContent(f.ctx, module.ID, usecase.CreateTrainingContentInput{
		Title:       "Hygiene and safety",
		ContentType: entity.TrainingContentVideo,
		ContentURL:  "https://videos.example.com/hygiene-v2",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Hygiene and safety", updated.Title)
	assert.False(t, updated.Active)

	// Deactivated modules disappear from the curriculum.
	out, err := f.svc.Curriculum(f.ctx, f.didiUser.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Modules)

	_, err = f.svc.UpdateContent(f.ctx, uuid.New(), usecase.CreateTrainingContentInput{
		Title: "Ghost", ContentType: entity.TrainingContentVideo,
	}, true)
	assert.ErrorIs(t, err, domainerrors.ErrTrainingContentNotFound)
}

func TestTrainingService_CurriculumProgress(t *testing.T) {
	f := newTrainingFixture(t)
	first := f.createModule(t, "Hygiene basics", 1)
	second := f.createModule(t, "Packaging", 2)

	out, err := f.svc.Curriculum(f.ctx, f.didiUser.ID)
	require.NoError(t, err)
	require.Len(t, out.Modules, 2)
	assert.Equal(t, first.ID, out.Modules[0].Content.ID)
	assert.Nil(t, out.Modules[0].Progress)
	assert.Zero(t, out.CompletionPercentage)

	_, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, first.ID, 100, "")
	require.NoError(t, err)

	out, err = f.svc.Curriculum(f.ctx, f.didiUser.ID)
	require.NoError(t, err)
	require.NotNil(t, out.Modules[0].Progress)
	assert.True(t, out.Modules[0].Progress.IsCompleted())
	assert.Nil(t, out.Modules[1].Progress)
	assert.Equal(t, 50, out.CompletionPercentage)
	_ = second
}

func TestTrainingService_RecordProgress(t *testing.T) {
	f := newTrainingFixture(t)
	module := f.createModule(t, "Hygiene basics", 1)

	progress, err := f.svc.RecordProgress(f.ctx, f.didiUser.ID, module.ID, 40, "halfway through the video")
	require.NoError(t, err)
	assert.Equal(t, 40, progress.ProgressPercentage)
	assert.Equal(t, entity.ProgressStatusInProgress, progress.Status)

	// Starting a module moves the journey to in-progress.
	profile, err := f.didiRepo.FindByID(f.ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TrainingStatusInProgress, profile.TrainingStatus)

	// Progress never moves backwards.
	progress, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, module.ID, 25, "")
	require.NoError(t, err)
	assert.Equal(t, 40, progress.ProgressPercentage)

	// Values above 100 are clamped.
	progress, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, module.ID, 150, "")
	require.NoError(t, err)
	assert.Equal(t, 100, progress.ProgressPercentage)
	assert.True(t, progress.IsCompleted())

	_, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, module.ID, -5, "")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestTrainingService_RecordProgressGuards(t *testing.T) {
	f := newTrainingFixture(t)
	module := f.createModule(t, "Hygiene basics", 1)

	// A user without a profile has no training journey.
	_, err := f.svc.RecordProgress(f.ctx, uuid.New(), module.ID, 10, "")
	assert.ErrorIs(t, err, domainerrors.ErrDidiProfileNotFound)

	_, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, uuid.New(), 10, "")
	assert.ErrorIs(t, err, domainerrors.ErrTrainingContentNotFound)

	// Inactive modules cannot accumulate progress.
	_, err = f.svc.UpdateContent(f.ctx, module.ID, usecase.CreateTrainingContentInput{
		Title: module.Title, ContentType: module.ContentType,
	}, false)
	require.NoError(t, err)
	_, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, module.ID, 10, "")
	assert.ErrorIs(t, err, domainerrors.ErrTrainingContentNotFound)
}

func TestTrainingService_JourneyCompletion(t *testing.T) {
	f := newTrainingFixture(t)
	first := f.createModule(t, "Hygiene basics", 1)
	second := f.createModule(t, "Packaging", 2)

	_, err := f.svc.RecordProgress(f.ctx, f.didiUser.ID, first.ID, 100, "")
	require.NoError(t, err)

	// One module left: the journey is still open.
	profile, err := f.didiRepo.FindByID(f.ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TrainingStatusInProgress, profile.TrainingStatus)
	assert.NotContains(t, f.publisher.eventTypes(), "training.completed")

	_, err = f.svc.RecordProgress(f.ctx, f.didiUser.ID, second.ID, 100, "")
	require.NoError(t, err)

	profile, err = f.didiRepo.FindByID(f.ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TrainingStatusCompleted, profile.TrainingStatus)
	assert.False(t, profile.TrainingCompletedAt.IsZero())
	assert.Contains(t, f.publisher.eventTypes(), "training.completed")
	assert.Contains(t, f.notifier.topics(), "user-"+f.didiUser.ID.String())
}
