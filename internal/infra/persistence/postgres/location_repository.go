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

// locationRepository implements the repository.LocationRepository interface.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{
		db: db,
	}
}

// Create persists a new location ping.
func (repo *locationRepository) Create(ctx context.Context, ping *entity.LocationPing) error {
	pingM := fromLocationPingDomain(ping)

	if err := repo.db.WithContext(ctx).Create(pingM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrDidiProfileNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create location ping")
	}

	return nil
}

// FindLatestByProfile retrieves the most recent ping for a Didi profile.
func (repo *locationRepository) FindLatestByProfile(ctx context.Context, didiProfileID uuid.UUID) (*entity.LocationPing, error) {
	var pingM model.LocationPingModel

	if err := repo.db.WithContext(ctx).
		Where("didi_profile_id = ?", didiProfileID).
		Order("timestamp DESC").
		First(&pingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationPingNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest location ping")
	}

	return toLocationPingDomain(&pingM), nil
}

// ListByProfileSince retrieves a profile's pings recorded at or after
// the given instant, oldest first.
func (repo *locationRepository) ListByProfileSince(ctx context.Context, didiProfileID uuid.UUID, since time.Time) ([]*entity.LocationPing, error) {
	var pingModels []*model.LocationPingModel

	if err := repo.db.WithContext(ctx).
		Where("didi_profile_id = ? AND timestamp >= ?", didiProfileID, since).
		Order("timestamp ASC").
		Find(&pingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list location pings")
	}

	pings := make([]*entity.LocationPing, 0, len(pingModels))
	for _, pingM := range pingModels {
		pings = append(pings, toLocationPingDomain(pingM))
	}

	return pings, nil
}

// --- Mapper Functions ---

// toLocationPingDomain converts a GORM LocationPingModel to a domain LocationPing entity.
func toLocationPingDomain(data *model.LocationPingModel) *entity.LocationPing {
	if data == nil {
		return nil
	}

	return &entity.LocationPing{
		ID:            data.ID,
		DidiProfileID: data.DidiProfileID,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		Location:      data.Location,
		Source:        entity.LocationPingSource(data.Source),
		Accuracy:      data.Accuracy,
		Timestamp:     data.Timestamp,
	}
}

// fromLocationPingDomain converts a domain LocationPing entity to a GORM LocationPingModel.
func fromLocationPingDomain(data *entity.LocationPing) *model.LocationPingModel {
	if data == nil {
		return nil
	}

	return &model.LocationPingModel{
		ID:            data.ID,
		DidiProfileID: data.DidiProfileID,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		Location:      data.Location,
		Source:        string(data.Source),
		Accuracy:      data.Accuracy,
		Timestamp:     data.Timestamp,
	}
}
