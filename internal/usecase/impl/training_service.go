package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// trainingService implements the TrainingUsecase interface.
type trainingService struct {
	trainingRepo repository.TrainingRepository
	didiRepo     repository.DidiRepository
	publisher    service.EventPublisher
	notifier     service.NotificationService
	logger       *slog.Logger
}

// TrainingServiceParams holds dependencies for trainingService, injected by Fx.
type TrainingServiceParams struct {
	fx.In

	TrainingRepo repository.TrainingRepository
	DidiRepo     repository.DidiRepository
	Publisher    service.EventPublisher
	Notifier     service.NotificationService
	Logger       *slog.Logger
}

// NewTrainingService is the constructor for trainingService.
func NewTrainingService(params TrainingServiceParams) usecase.TrainingUsecase {
	return &trainingService{
		trainingRepo: params.TrainingRepo,
		didiRepo:     params.DidiRepo,
		publisher:    params.Publisher,
		notifier:     params.Notifier,
		logger:       params.Logger,
	}
}

func (srv *trainingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Curriculum retrieves the active modules with the acting Didi's
// progress and overall completion.
func (srv *trainingService) Curriculum(ctx context.Context, userID uuid.UUID) (*usecase.CurriculumOutput, error) {
	profile, err := srv.findProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	contents, err := srv.trainingRepo.ListActiveContent(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list curriculum")
	}

	records, err := srv.trainingRepo.ListProgressByProfile(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list training progress")
	}

	byContent := make(map[uuid.UUID]*entity.TrainingProgress, len(records))
	for _, record := range records {
		byContent[record.TrainingContentID] = record
	}

	modules := make([]usecase.CurriculumModule, 0, len(contents))
	completed := 0
	for _, content := range contents {
		progress := byContent[content.ID]
		if progress != nil && progress.IsCompleted() {
			completed++
		}
		modules = append(modules, usecase.CurriculumModule{Content: content, Progress: progress})
	}

	percentage := 0
	if len(contents) > 0 {
		percentage = completed * 100 / len(contents)
	}

	return &usecase.CurriculumOutput{Modules: modules, CompletionPercentage: percentage}, nil
}

// CreateContent adds a module to the curriculum. Admin only.
func (srv *trainingService) CreateContent(ctx context.Context, input usecase.CreateTrainingContentInput) (*entity.TrainingContent, error) {
	if input.Title == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("title is required")
	}
	if !input.ContentType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid content type")
	}

	content := entity.NewTrainingContent(input.Title, input.ContentType, input.ContentURL, input.SequenceOrder)
	applyContentInput(content, input)

	if err := srv.trainingRepo.CreateContent(ctx, content); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Training module created",
		slog.Any("contentID", content.ID), slog.String("title", content.Title))

	return content, nil
}

// UpdateContent modifies an existing module. Admin only.
func (srv *trainingService) UpdateContent(ctx context.Context, contentID uuid.UUID, input usecase.CreateTrainingContentInput, active bool) (*entity.TrainingContent, error) {
	content, err := srv.trainingRepo.FindContentByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, repository.ErrTrainingContentNotFound) {
			return nil, domainerrors.ErrTrainingContentNotFound
		}

		return nil, errors.Wrap(err, "failed to find training content")
	}

	if input.Title != "" {
		content.Title = input.Title
	}
	if input.ContentType != "" {
		if !input.ContentType.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid content type")
		}
		content.ContentType = input.ContentType
	}
	content.ContentURL = input.ContentURL
	applyContentInput(content, input)
	content.Active = active
	content.UpdatedAt = time.Now()

	if err := srv.trainingRepo.UpdateContent(ctx, content); err != nil {
		return nil, err
	}

	return content, nil
}

// RecordProgress advances the acting Didi's progress on a module.
// Completing the last open module completes the whole journey and is
// announced to the Didi.
func (srv *trainingService) RecordProgress(ctx context.Context, userID, contentID uuid.UUID, percentage int, notes string) (*entity.TrainingProgress, error) {
	if percentage < 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("percentage must not be negative")
	}

	profile, err := srv.findProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := srv.trainingRepo.FindContentByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, repository.ErrTrainingContentNotFound) {
			return nil, domainerrors.ErrTrainingContentNotFound
		}

		return nil, errors.Wrap(err, "failed to find training content")
	}
	if !content.Active {
		return nil, domainerrors.ErrTrainingContentNotFound
	}

	progress, err := srv.trainingRepo.FindProgress(ctx, profile.ID, content.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrTrainingProgressNotFound) {
			return nil, errors.Wrap(err, "failed to find training progress")
		}
		progress = entity.NewTrainingProgress(profile.ID, content.ID)
	}

	progress.Advance(percentage, notes)
	if err := srv.trainingRepo.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	if profile.TrainingStatus == entity.TrainingStatusNotStarted {
		profile.StartTraining()
		if err := srv.didiRepo.Update(ctx, profile); err != nil {
			srv.log(ctx).Warn("Failed to mark training started",
				slog.Any("profileID", profile.ID), slog.Any("error", err))
		}
	}

	if progress.IsCompleted() {
		if err := srv.maybeCompleteJourney(ctx, profile); err != nil {
			return nil, err
		}
	}

	return progress, nil
}

func (srv *trainingService) findProfileByUser(ctx context.Context, userID uuid.UUID) (*entity.DidiProfile, error) {
	profile, err := srv.didiRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDidiProfileNotFound) {
			return nil, domainerrors.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

// maybeCompleteJourney completes the training journey once every
// active module has a completed progress record.
func (srv *trainingService) maybeCompleteJourney(ctx context.Context, profile *entity.DidiProfile) error {
	if profile.TrainingStatus == entity.TrainingStatusCompleted {
		return nil
	}

	contents, err := srv.trainingRepo.ListActiveContent(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list curriculum")
	}

	records, err := srv.trainingRepo.ListProgressByProfile(ctx, profile.ID)
	if err != nil {
		return errors.Wrap(err, "failed to list training progress")
	}

	completed := make(map[uuid.UUID]bool, len(records))
	for _, record := range records {
		if record.IsCompleted() {
			completed[record.TrainingContentID] = true
		}
	}

	for _, content := range contents {
		if !completed[content.ID] {
			return nil
		}
	}

	profile.CompleteTraining()
	if err := srv.didiRepo.Update(ctx, profile); err != nil {
		return err
	}

	srv.log(ctx).Info("Training journey completed", slog.Any("profileID", profile.ID))

	event := &service.DomainEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       service.EventTrainingCompleted,
		OccurredAt: time.Now(),
		Payload: map[string]string{
			"profile_id": profile.ID.String(),
			"user_id":    profile.UserID.String(),
		},
	}
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish event",
			slog.String("type", service.EventTrainingCompleted), slog.Any("error", err))
	}

	topic := service.TopicUserPrefix + profile.UserID.String()
	if err := srv.notifier.SendToTopic(ctx, topic, "Training completed",
		"Congratulations! You have completed all training modules.",
		map[string]string{"profile_id": profile.ID.String()}); err != nil {
		srv.log(ctx).Warn("Failed to send notification", slog.String("topic", topic), slog.Any("error", err))
	}

	return nil
}

func applyContentInput(content *entity.TrainingContent, input usecase.CreateTrainingContentInput) {
	content.Description = input.Description
	content.ThumbnailURL = input.ThumbnailURL
	content.Content = input.Content
	content.SequenceOrder = input.SequenceOrder
	if input.Difficulty != "" {
		content.Difficulty = input.Difficulty
	}
	if input.DurationInMinutes > 0 {
		content.DurationInMinutes = input.DurationInMinutes
	}
}
