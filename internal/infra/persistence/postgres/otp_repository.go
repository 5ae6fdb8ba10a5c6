package postgres

import (
	"context"
	"time"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// otpRepository implements the repository.OTPRepository interface.
type otpRepository struct {
	db *gorm.DB
}

// NewOTPRepository is the constructor for otpRepository.
func NewOTPRepository(db *gorm.DB) repository.OTPRepository {
	return &otpRepository{
		db: db,
	}
}

// Replace stores a challenge, removing any previous challenge for the
// same user and purpose. Running both statements in one transaction
// keeps the (user, purpose) unique index satisfied.
func (repo *otpRepository) Replace(ctx context.Context, challenge *entity.OTPChallenge) error {
	challengeM := fromOTPDomain(challenge)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND purpose = ?", challengeM.UserID, challengeM.Purpose).
			Delete(&model.OTPChallengeModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to remove previous otp challenge")
		}

		return tx.Create(challengeM).Error
	})
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to store otp challenge")
	}

	return nil
}

// FindByUserAndPurpose retrieves the live challenge for a user and purpose.
func (repo *otpRepository) FindByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose) (*entity.OTPChallenge, error) {
	var challengeM model.OTPChallengeModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		First(&challengeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOTPNotFound
		}

		return nil, errors.Wrap(err, "failed to find otp challenge")
	}

	return toOTPDomain(&challengeM), nil
}

// Delete consumes a challenge after a successful verification.
func (repo *otpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OTPChallengeModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete otp challenge")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOTPNotFound
	}

	return nil
}

// DeleteExpired removes all expired challenges.
func (repo *otpRepository) DeleteExpired(ctx context.Context) error {
	if err := repo.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.OTPChallengeModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete expired otp challenges")
	}

	return nil
}

// --- Mapper Functions ---

// toOTPDomain converts a GORM OTPChallengeModel to a domain OTPChallenge entity.
func toOTPDomain(data *model.OTPChallengeModel) *entity.OTPChallenge {
	if data == nil {
		return nil
	}

	return &entity.OTPChallenge{
		ID:        data.ID,
		UserID:    data.UserID,
		Code:      data.Code,
		Purpose:   entity.OTPPurpose(data.Purpose),
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromOTPDomain converts a domain OTPChallenge entity to a GORM OTPChallengeModel.
func fromOTPDomain(data *entity.OTPChallenge) *model.OTPChallengeModel {
	if data == nil {
		return nil
	}

	return &model.OTPChallengeModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Code:      data.Code,
		Purpose:   string(data.Purpose),
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
