package impl

import (
	"context"
	"testing"
	"time"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type locationFixture struct {
	svc      usecase.LocationUsecase
	didiRepo repository.DidiRepository
	didiUser *entity.User
	profile  *entity.DidiProfile
	ctx      context.Context
}

func newLocationFixture(t *testing.T) *locationFixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := postgres.NewUserRepository(db)
	didiRepo := postgres.NewDidiRepository(db)

	svc := NewLocationService(LocationServiceParams{
		LocationRepo: postgres.NewLocationRepository(db),
		DidiRepo:     didiRepo,
		Logger:       newTestLogger(),
	})

	didiUser := createTestUser(t, userRepo, "didi@example.com", entity.RoleSHGDidi)
	profile := entity.NewDidiProfile(didiUser.ID, "123412341234", 23.34, 85.31, "Ranchi")
	profile.Approve()
	require.NoError(t, didiRepo.Create(context.Background(), profile))

	return &locationFixture{
		svc:      svc,
		didiRepo: didiRepo,
		didiUser: didiUser,
		profile:  profile,
		ctx:      context.Background(),
	}
}

func TestLocationService_RecordPing(t *testing.T) {
	f := newLocationFixture(t)

	ping, err := f.svc.RecordPing(f.ctx, f.didiUser.ID, usecase.LocationPingInput{
		Latitude:  23.40,
		Longitude: 85.40,
		Location:  "Kanke Road",
		Accuracy:  "8m",
	})
	require.NoError(t, err)
	assert.Equal(t, f.profile.ID, ping.DidiProfileID)
	// The source defaults to GPS when not reported.
	assert.Equal(t, entity.LocationSourceGPS, ping.Source)

	// The profile's home coordinates follow the latest ping.
	profile, err := f.didiRepo.FindByID(f.ctx, f.profile.ID)
	require.NoError(t, err)
	assert.InDelta(t, 23.40, profile.Latitude, 1e-9)
	assert.InDelta(t, 85.40, profile.Longitude, 1e-9)
	assert.Equal(t, "Kanke Road", profile.Location)
}

func TestLocationService_RecordPingRequiresProfile(t *testing.T) {
	f := newLocationFixture(t)

	_, err := f.svc.RecordPing(f.ctx, uuid.New(), usecase.LocationPingInput{Latitude: 1, Longitude: 2})
	assert.ErrorIs(t, err, domainerrors.ErrDidiProfileNotFound)
}

func TestLocationService_LatestLocation(t *testing.T) {
	f := newLocationFixture(t)

	_, err := f.svc.LatestLocation(f.ctx, f.profile.ID)
	assert.ErrorIs(t, err, domainerrors.ErrLocationPingNotFound)

	_, err = f.svc.RecordPing(f.ctx, f.didiUser.ID, usecase.LocationPingInput{Latitude: 23.40, Longitude: 85.40})
	require.NoError(t, err)
	second, err := f.svc.RecordPing(f.ctx, f.didiUser.ID, usecase.LocationPingInput{Latitude: 23.41, Longitude: 85.41})
	require.NoError(t, err)

	latest, err := f.svc.LatestLocation(f.ctx, f.profile.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestLocationService_Trail(t *testing.T) {
	f := newLocationFixture(t)

	first, err := f.svc.RecordPing(f.ctx, f.didiUser.ID, usecase.LocationPingInput{Latitude: 23.40, Longitude: 85.40, Source: entity.LocationSourceManual})
	require.NoError(t, err)
	_, err = f.svc.RecordPing(f.ctx, f.didiUser.ID, usecase.LocationPingInput{Latitude: 23.41, Longitude: 85.41})
	require.NoError(t, err)

	trail, err := f.svc.Trail(f.ctx, f.profile.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, trail, 2)
	// Oldest first.
	assert.Equal(t, first.ID, trail[0].ID)
	assert.Equal(t, entity.LocationSourceManual, trail[0].Source)

	// A cutoff in the future excludes everything.
	trail, err = f.svc.Trail(f.ctx, f.profile.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, trail)
}
