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
)

// didiRepository implements the repository.DidiRepository interface.
type didiRepository struct {
	db *gorm.DB
}

// NewDidiRepository is the constructor for didiRepository.
func NewDidiRepository(db *gorm.DB) repository.DidiRepository {
	return &didiRepository{
		db: db,
	}
}

// FindByID retrieves a single profile by its unique ID.
func (repo *didiRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DidiProfile, error) {
	var profileM model.DidiProfileModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find didi profile by id")
	}

	return toDidiDomain(&profileM), nil
}

// FindByUserID retrieves the profile belonging to a user.
func (repo *didiRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.DidiProfile, error) {
	var profileM model.DidiProfileModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find didi profile by user id")
	}

	return toDidiDomain(&profileM), nil
}

// ListByApprovalStatus retrieves profiles in a given approval state, oldest application first.
func (repo *didiRepository) ListByApprovalStatus(ctx context.Context, status entity.ApprovalStatus) ([]*entity.DidiProfile, error) {
	var profileModels []*model.DidiProfileModel

	if err := repo.db.WithContext(ctx).
		Where("approval_status = ?", string(status)).
		Order("created_at ASC").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list didi profiles by approval status")
	}

	profiles := make([]*entity.DidiProfile, 0, len(profileModels))
	for _, profileM := range profileModels {
		profiles = append(profiles, toDidiDomain(profileM))
	}

	return profiles, nil
}

// Create persists a new onboarding application.
func (repo *didiRepository) Create(ctx context.Context, profile *entity.DidiProfile) error {
	profileM := fromDidiDomain(profile)

	if err := repo.db.WithContext(ctx).Create(profileM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrAadhaarAlreadyRegistered
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create didi profile")
	}

	return nil
}

// Update modifies an existing profile.
func (repo *didiRepository) Update(ctx context.Context, profile *entity.DidiProfile) error {
	profileM := fromDidiDomain(profile)

	result := repo.db.WithContext(ctx).
		Model(&model.DidiProfileModel{}).
		Where("id = ?", profileM.ID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(profileM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrAadhaarAlreadyRegistered
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update didi profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDidiProfileNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toDidiDomain converts a GORM DidiProfileModel to a domain DidiProfile entity.
func toDidiDomain(data *model.DidiProfileModel) *entity.DidiProfile {
	if data == nil {
		return nil
	}

	profile := &entity.DidiProfile{
		ID:                data.ID,
		UserID:            data.UserID,
		AadhaarNumber:     data.AadhaarNumber,
		AadhaarImageURL:   data.AadhaarImageURL,
		BankAccountNumber: data.BankAccountNumber,
		BankIFSC:          data.BankIFSC,
		BankName:          data.BankName,
		AccountHolderName: data.AccountHolderName,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		Location:          data.Location,
		ApprovalStatus:    entity.ApprovalStatus(data.ApprovalStatus),
		RejectionReason:   data.RejectionReason,
		TrainingStatus:    entity.TrainingStatus(data.TrainingStatus),
		TotalEarnings:     data.TotalEarnings,
		AverageRating:     data.AverageRating,
		TotalOrders:       data.TotalOrders,
		TotalSales:        data.TotalSales,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}

	if data.TrainingCompletedAt != nil {
		profile.TrainingCompletedAt = *data.TrainingCompletedAt
	}
	if data.ApprovedAt != nil {
		profile.ApprovedAt = *data.ApprovedAt
	}

	return profile
}

// fromDidiDomain converts a domain DidiProfile entity to a GORM DidiProfileModel.
func fromDidiDomain(data *entity.DidiProfile) *model.DidiProfileModel {
	if data == nil {
		return nil
	}

	profileM := &model.DidiProfileModel{
		ID:                data.ID,
		UserID:            data.UserID,
		AadhaarNumber:     data.AadhaarNumber,
		AadhaarImageURL:   data.AadhaarImageURL,
		BankAccountNumber: data.BankAccountNumber,
		BankIFSC:          data.BankIFSC,
		BankName:          data.BankName,
		AccountHolderName: data.AccountHolderName,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		Location:          data.Location,
		ApprovalStatus:    string(data.ApprovalStatus),
		RejectionReason:   data.RejectionReason,
		TrainingStatus:    string(data.TrainingStatus),
		TotalEarnings:     data.TotalEarnings,
		AverageRating:     data.AverageRating,
		TotalOrders:       data.TotalOrders,
		TotalSales:        data.TotalSales,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}

	if !data.TrainingCompletedAt.IsZero() {
		trainingCompletedAt := data.TrainingCompletedAt
		profileM.TrainingCompletedAt = &trainingCompletedAt
	}
	if !data.ApprovedAt.IsZero() {
		approvedAt := data.ApprovedAt
		profileM.ApprovedAt = &approvedAt
	}

	return profileM
}
