package postgres

import (
	"context"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// trainingRepository implements the repository.TrainingRepository interface.
type trainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository is the constructor for trainingRepository.
func NewTrainingRepository(db *gorm.DB) repository.TrainingRepository {
	return &trainingRepository{
		db: db,
	}
}

// FindContentByID retrieves a single curriculum module.
func (repo *trainingRepository) FindContentByID(ctx context.Context, id uuid.UUID) (*entity.TrainingContent, error) {
	var contentM model.TrainingContentModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&contentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTrainingContentNotFound
		}

		return nil, errors.Wrap(err, "failed to find training content by id")
	}

	return toTrainingContentDomain(&contentM), nil
}

// ListActiveContent retrieves the active curriculum ordered by sequence.
func (repo *trainingRepository) ListActiveContent(ctx context.Context) ([]*entity.TrainingContent, error) {
	var contentModels []*model.TrainingContentModel

	if err := repo.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sequence_order ASC").
		Find(&contentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active training content")
	}

	contents := make([]*entity.TrainingContent, 0, len(contentModels))
	for _, contentM := range contentModels {
		contents = append(contents, toTrainingContentDomain(contentM))
	}

	return contents, nil
}

// CreateContent adds a module to the curriculum.
func (repo *trainingRepository) CreateContent(ctx context.Context, content *entity.TrainingContent) error {
	contentM := fromTrainingContentDomain(content)

	if err := repo.db.WithContext(ctx).Create(contentM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create training content")
	}

	return nil
}

// UpdateContent modifies an existing module.
func (repo *trainingRepository) UpdateContent(ctx context.Context, content *entity.TrainingContent) error {
	contentM := fromTrainingContentDomain(content)

	result := repo.db.WithContext(ctx).
		Model(&model.TrainingContentModel{}).
		Where("id = ?", contentM.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(contentM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update training content")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTrainingContentNotFound
	}

	return nil
}

// FindProgress retrieves the progress record for one Didi and one module.
func (repo *trainingRepository) FindProgress(ctx context.Context, didiProfileID, contentID uuid.UUID) (*entity.TrainingProgress, error) {
	var progressM model.TrainingProgressModel

	if err := repo.db.WithContext(ctx).
		Where("didi_profile_id = ? AND training_content_id = ?", didiProfileID, contentID).
		First(&progressM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTrainingProgressNotFound
		}

		return nil, errors.Wrap(err, "failed to find training progress")
	}

	return toTrainingProgressDomain(&progressM), nil
}

// ListProgressByProfile retrieves all progress records for a Didi.
func (repo *trainingRepository) ListProgressByProfile(ctx context.Context, didiProfileID uuid.UUID) ([]*entity.TrainingProgress, error) {
	var progressModels []*model.TrainingProgressModel

	if err := repo.db.WithContext(ctx).
		Where("didi_profile_id = ?", didiProfileID).
		Find(&progressModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list training progress by profile")
	}

	records := make([]*entity.TrainingProgress, 0, len(progressModels))
	for _, progressM := range progressModels {
		records = append(records, toTrainingProgressDomain(progressM))
	}

	return records, nil
}

// SaveProgress inserts or updates a progress record. The upsert keys
// on the (profile, module) unique index so concurrent saves collapse
// into one row.
func (repo *trainingRepository) SaveProgress(ctx context.Context, progress *entity.TrainingProgress) error {
	progressM := fromTrainingProgressDomain(progress)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "didi_profile_id"}, {Name: "training_content_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "progress_percentage", "notes", "started_at", "completed_at", "updated_at",
			}),
		}).
		Create(progressM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save training progress")
	}

	return nil
}

// --- Mapper Functions ---

// toTrainingContentDomain converts a GORM TrainingContentModel to a domain TrainingContent entity.
func toTrainingContentDomain(data *model.TrainingContentModel) *entity.TrainingContent {
	if data == nil {
		return nil
	}

	return &entity.TrainingContent{
		ID:                data.ID,
		Title:             data.Title,
		Description:       data.Description,
		ContentType:       entity.TrainingContentType(data.ContentType),
		ContentURL:        data.ContentURL,
		ThumbnailURL:      data.ThumbnailURL,
		Content:           data.Content,
		SequenceOrder:     data.SequenceOrder,
		Difficulty:        entity.TrainingDifficulty(data.Difficulty),
		DurationInMinutes: data.DurationInMinutes,
		Active:            data.Active,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromTrainingContentDomain converts a domain TrainingContent entity to a GORM TrainingContentModel.
func fromTrainingContentDomain(data *entity.TrainingContent) *model.TrainingContentModel {
	if data == nil {
		return nil
	}

	return &model.TrainingContentModel{
		ID:                data.ID,
		Title:             data.Title,
		Description:       data.Description,
		ContentType:       string(data.ContentType),
		ContentURL:        data.ContentURL,
		ThumbnailURL:      data.ThumbnailURL,
		Content:           data.Content,
		SequenceOrder:     data.SequenceOrder,
		Difficulty:        string(data.Difficulty),
		DurationInMinutes: data.DurationInMinutes,
		Active:            data.Active,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// toTrainingProgressDomain converts a GORM TrainingProgressModel to a domain TrainingProgress entity.
func toTrainingProgressDomain(data *model.TrainingProgressModel) *entity.TrainingProgress {
	if data == nil {
		return nil
	}

	progress := &entity.TrainingProgress{
		ID:                 data.ID,
		DidiProfileID:      data.DidiProfileID,
		TrainingContentID:  data.TrainingContentID,
		Status:             entity.ProgressStatus(data.Status),
		ProgressPercentage: data.ProgressPercentage,
		Notes:              data.Notes,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}

	if data.StartedAt != nil {
		progress.StartedAt = *data.StartedAt
	}
	if data.CompletedAt != nil {
		progress.CompletedAt = *data.CompletedAt
	}

	return progress
}

// fromTrainingProgressDomain converts a domain TrainingProgress entity to a GORM TrainingProgressModel.
func fromTrainingProgressDomain(data *entity.TrainingProgress) *model.TrainingProgressModel {
	if data == nil {
		return nil
	}

	progressM := &model.TrainingProgressModel{
		ID:                 data.ID,
		DidiProfileID:      data.DidiProfileID,
		TrainingContentID:  data.TrainingContentID,
		Status:             string(data.Status),
		ProgressPercentage: data.ProgressPercentage,
		Notes:              data.Notes,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}

	if !data.StartedAt.IsZero() {
		startedAt := data.StartedAt
		progressM.StartedAt = &startedAt
	}
	if !data.CompletedAt.IsZero() {
		completedAt := data.CompletedAt
		progressM.CompletedAt = &completedAt
	}

	return progressM
}
