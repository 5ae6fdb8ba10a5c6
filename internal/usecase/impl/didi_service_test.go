package impl

import (
	"context"
	"strings"
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

type didiFixture struct {
	svc          usecase.DidiUsecase
	userRepo     repository.UserRepository
	didiRepo     repository.DidiRepository
	orderRepo    repository.OrderRepository
	trainingRepo repository.TrainingRepository
	locationRepo repository.LocationRepository
	publisher    *stubPublisher
	notifier     *stubNotifier
	applicant    *entity.User
	ctx          context.Context
}

func newDidiFixture(t *testing.T) *didiFixture {
	t.Helper()

	db := newTestDB(t)
	userRepo := postgres.NewUserRepository(db)
	didiRepo := postgres.NewDidiRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	trainingRepo := postgres.NewTrainingRepository(db)
	locationRepo := postgres.NewLocationRepository(db)
	publisher := &stubPublisher{}
	notifier := &stubNotifier{}

	svc := NewDidiService(DidiServiceParams{
		DidiRepo:     didiRepo,
		UserRepo:     userRepo,
		OrderRepo:    orderRepo,
		TrainingRepo: trainingRepo,
		LocationRepo: locationRepo,
		Storage:      &stubStorage{},
		Publisher:    publisher,
		Notifier:     notifier,
		Logger:       newTestLogger(),
	})

	return &didiFixture{
		svc:          svc,
		userRepo:     userRepo,
		didiRepo:     didiRepo,
		orderRepo:    orderRepo,
		trainingRepo: trainingRepo,
		locationRepo: locationRepo,
		publisher:    publisher,
		notifier:     notifier,
		applicant:    createTestUser(t, userRepo, "didi@example.com", entity.RoleSHGDidi),
		ctx:          context.Background(),
	}
}

func (f *didiFixture) apply(t *testing.T) *entity.DidiProfile {
	t.Helper()

	profile, err := f.svc.Apply(f.ctx, f.applicant.ID, usecase.ApplyDidiInput{
		AadhaarNumber:     "123412341234",
		BankAccountNumber: "000111222333",
		BankIFSC:          "SBIN0001234",
		BankName:          "State Bank of India",
		AccountHolderName: "Sunita Devi",
		Latitude:          23.3441,
		Longitude:         85.3096,
		Location:          "Ranchi",
	})
	require.NoError(t, err)

	return profile
}

func TestDidiService_Apply(t *testing.T) {
	f := newDidiFixture(t)

	profile, err := f.svc.Apply(f.ctx, f.applicant.ID, usecase.ApplyDidiInput{
		AadhaarNumber: "123412341234",
		Latitude:      23.3441,
		Longitude:     85.3096,
		Location:      "Ranchi",
		AadhaarImage: &usecase.UploadFileInput{
			FileName:    "aadhaar.jpg",
			ContentType: "image/jpeg",
			Content:     strings.NewReader("scan-bytes"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalStatusPending, profile.ApprovalStatus)
	assert.Equal(t, entity.TrainingStatusNotStarted, profile.TrainingStatus)
	assert.Equal(t, "/uploads/aadhaar.jpg", profile.AadhaarImageURL)
	assert.Contains(t, f.publisher.eventTypes(), "didi.applied")
	assert.Contains(t, f.notifier.topics(), "admins")
}

func TestDidiService_ApplyValidation(t *testing.T) {
	f := newDidiFixture(t)

	_, err := f.svc.Apply(f.ctx, f.applicant.ID, usecase.ApplyDidiInput{})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = f.svc.Apply(f.ctx, uuid.New(), usecase.ApplyDidiInput{AadhaarNumber: "123412341234"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestDidiService_ApplyTwiceRejected(t *testing.T) {
	f := newDidiFixture(t)
	f.apply(t)

	_, err := f.svc.Apply(f.ctx, f.applicant.ID, usecase.ApplyDidiInput{AadhaarNumber: "999999999999"})
	assert.ErrorIs(t, err, domainerrors.ErrDidiAlreadyOnboarded)
}

func TestDidiService_AadhaarUniqueness(t *testing.T) {
	f := newDidiFixture(t)
	f.apply(t)

	other := createTestUser(t, f.userRepo, "other@example.com", entity.RoleSHGDidi)
	_, err := f.svc.Apply(f.ctx, other.ID, usecase.ApplyDidiInput{AadhaarNumber: "123412341234"})
	assert.ErrorIs(t, err, domainerrors.ErrAadhaarAlreadyRegistered)
}

func TestDidiService_ApprovalFlow(t *testing.T) {
	f := newDidiFixture(t)
	profile := f.apply(t)

	pending, err := f.svc.ListApplications(f.ctx, entity.ApprovalStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := f.svc.Approve(f.ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved())
	assert.False(t, approved.ApprovedAt.IsZero())
	assert.Contains(t, f.publisher.eventTypes(), "didi.approved")
	assert.Contains(t, f.notifier.topics(), "user-"+f.applicant.ID.String())

	pending, err = f.svc.ListApplications(f.ctx, entity.ApprovalStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.ListApplications(f.ctx, entity.ApprovalStatus("BOGUS"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestDidiService_Reject(t *testing.T) {
	f := newDidiFixture(t)
	profile := f.apply(t)

	rejected, err := f.svc.Reject(f.ctx, profile.ID, "incomplete bank details")
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalStatusRejected, rejected.ApprovalStatus)
	assert.Equal(t, "incomplete bank details", rejected.RejectionReason)
	assert.Contains(t, f.publisher.eventTypes(), "didi.rejected")
}

func TestDidiService_Suspend(t *testing.T) {
	f := newDidiFixture(t)
	profile := f.apply(t)

	_, err := f.svc.Approve(f.ctx, profile.ID)
	require.NoError(t, err)

	suspended, err := f.svc.Suspend(f.ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalStatusSuspended, suspended.ApprovalStatus)
	assert.False(t, suspended.IsApproved())

	_, err = f.svc.Suspend(f.ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrDidiProfileNotFound)
}

func TestDidiService_GetMyProfile(t *testing.T) {
	f := newDidiFixture(t)

	_, err := f.svc.GetMyProfile(f.ctx, f.applicant.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDidiProfileNotFound)

	profile := f.apply(t)
	got, err := f.svc.GetMyProfile(f.ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, got.ID)
}

func TestDidiService_Dashboard(t *testing.T) {
	f := newDidiFixture(t)
	profile := f.apply(t)
	_, err := f.svc.Approve(f.ctx, profile.ID)
	require.NoError(t, err)

	// Two assigned orders, one already delivered.
	customer := createTestUser(t, f.userRepo, "customer@example.com", entity.RoleCustomer)
	open := entity.NewOrder(customer.ID, testShippingAddress, entity.Address{}, "UPI")
	open.AssignSHG(profile.ID)
	require.NoError(t, f.orderRepo.Create(f.ctx, open))

	done := entity.NewOrder(customer.ID, testShippingAddress, entity.Address{}, "UPI")
	done.AssignSHG(profile.ID)
	done.Status = entity.OrderStatusDelivered
	require.NoError(t, f.orderRepo.Create(f.ctx, done))

	// One of two active curriculum modules completed.
	first := entity.NewTrainingContent("Hygiene basics", entity.TrainingContentVideo, "https://videos/1", 1)
	second := entity.NewTrainingContent("Packaging", entity.TrainingContentVideo, "https://videos/2", 2)
	require.NoError(t, f.trainingRepo.CreateContent(f.ctx, first))
	require.NoError(t, f.trainingRepo.CreateContent(f.ctx, second))

	progress := entity.NewTrainingProgress(profile.ID, first.ID)
	progress.Advance(100, "")
	require.NoError(t, f.trainingRepo.SaveProgress(f.ctx, progress))

	// Two pings roughly 1.57 km apart, recorded today.
	firstPing := entity.NewLocationPing(profile.ID, 23.3441, 85.3096, "Ranchi", entity.LocationSourceGPS, "5m")
	secondPing := entity.NewLocationPing(profile.ID, 23.3441, 85.3250, "Ranchi", entity.LocationSourceGPS, "5m")
	require.NoError(t, f.locationRepo.Create(f.ctx, firstPing))
	require.NoError(t, f.locationRepo.Create(f.ctx, secondPing))

	dashboard, err := f.svc.Dashboard(f.ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.AssignedOrders)
	assert.Equal(t, 1, dashboard.PendingOrders)
	assert.Equal(t, 50, dashboard.TrainingCompletion)
	assert.InDelta(t, 1.57, dashboard.DistanceTodayKm, 0.1)
	require.NotNil(t, dashboard.LastKnownLocation)
	assert.Equal(t, secondPing.ID, dashboard.LastKnownLocation.ID)
}

func TestDidiService_DashboardWithoutActivity(t *testing.T) {
	f := newDidiFixture(t)
	f.apply(t)

	dashboard, err := f.svc.Dashboard(f.ctx, f.applicant.ID)
	require.NoError(t, err)
	assert.Zero(t, dashboard.AssignedOrders)
	assert.Zero(t, dashboard.TrainingCompletion)
	assert.Zero(t, dashboard.DistanceTodayKm)
	assert.Nil(t, dashboard.LastKnownLocation)
}
