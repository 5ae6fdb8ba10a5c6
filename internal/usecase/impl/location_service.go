package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// locationService implements the LocationUsecase interface.
type locationService struct {
	locationRepo repository.LocationRepository
	didiRepo     repository.DidiRepository
	logger       *slog.Logger
}

// LocationServiceParams holds dependencies for locationService, injected by Fx.
type LocationServiceParams struct {
	fx.In

	LocationRepo repository.LocationRepository
	DidiRepo     repository.DidiRepository
	Logger       *slog.Logger
}

// NewLocationService is the constructor for locationService.
func NewLocationService(params LocationServiceParams) usecase.LocationUsecase {
	return &locationService{
		locationRepo: params.LocationRepo,
		didiRepo:     params.DidiRepo,
		logger:       params.Logger,
	}
}

func (srv *locationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordPing stores a position report for the acting Didi. The ping
// also refreshes the last known position on the profile itself.
func (srv *locationService) RecordPing(ctx context.Context, userID uuid.UUID, input usecase.LocationPingInput) (*entity.LocationPing, error) {
	profile, err := srv.didiRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDidiProfileNotFound) {
			return nil, domainerrors.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	source := input.Source
	if source == "" {
		source = entity.LocationSourceGPS
	}

	ping := entity.NewLocationPing(profile.ID, input.Latitude, input.Longitude, input.Location, source, input.Accuracy)
	if err := srv.locationRepo.Create(ctx, ping); err != nil {
		return nil, err
	}

	profile.UpdateLocation(input.Latitude, input.Longitude, input.Location)
	if err := srv.didiRepo.Update(ctx, profile); err != nil {
		srv.log(ctx).Warn("Failed to refresh profile location",
			slog.Any("profileID", profile.ID), slog.Any("error", err))
	}

	return ping, nil
}

// LatestLocation retrieves a profile's most recent ping.
func (srv *locationService) LatestLocation(ctx context.Context, didiProfileID uuid.UUID) (*entity.LocationPing, error) {
	ping, err := srv.locationRepo.FindLatestByProfile(ctx, didiProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationPingNotFound) {
			return nil, domainerrors.ErrLocationPingNotFound
		}

		return nil, errors.Wrap(err, "failed to find latest ping")
	}

	return ping, nil
}

// Trail retrieves a profile's pings recorded at or after the given
// instant, oldest first.
func (srv *locationService) Trail(ctx context.Context, didiProfileID uuid.UUID, since time.Time) ([]*entity.LocationPing, error) {
	pings, err := srv.locationRepo.ListByProfileSince(ctx, didiProfileID, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pings")
	}

	return pings, nil
}
