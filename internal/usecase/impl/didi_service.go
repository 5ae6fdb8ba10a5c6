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
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// didiService implements the DidiUsecase interface.
type didiService struct {
	didiRepo     repository.DidiRepository
	userRepo     repository.UserRepository
	orderRepo    repository.OrderRepository
	trainingRepo repository.TrainingRepository
	locationRepo repository.LocationRepository
	storage      service.FileStorage
	publisher    service.EventPublisher
	notifier     service.NotificationService
	logger       *slog.Logger
}

// DidiServiceParams holds dependencies for didiService, injected by Fx.
type DidiServiceParams struct {
	fx.In

	DidiRepo     repository.DidiRepository
	UserRepo     repository.UserRepository
	OrderRepo    repository.OrderRepository
	TrainingRepo repository.TrainingRepository
	LocationRepo repository.LocationRepository
	Storage      service.FileStorage
	Publisher    service.EventPublisher
	Notifier     service.NotificationService
	Logger       *slog.Logger
}

// NewDidiService is the constructor for didiService.
func NewDidiService(params DidiServiceParams) usecase.DidiUsecase {
	return &didiService{
		didiRepo:     params.DidiRepo,
		userRepo:     params.UserRepo,
		orderRepo:    params.OrderRepo,
		trainingRepo: params.TrainingRepo,
		locationRepo: params.LocationRepo,
		storage:      params.Storage,
		publisher:    params.Publisher,
		notifier:     params.Notifier,
		logger:       params.Logger,
	}
}

func (srv *didiService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Apply submits an onboarding application for the acting user, storing
// the Aadhaar scan when provided.
func (srv *didiService) Apply(ctx context.Context, userID uuid.UUID, input usecase.ApplyDidiInput) (*entity.DidiProfile, error) {
	if input.AadhaarNumber == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("aadhaar number is required")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find applicant")
	}

	if _, err := srv.didiRepo.FindByUserID(ctx, userID); err == nil {
		return nil, domainerrors.ErrDidiAlreadyOnboarded
	} else if !errors.Is(err, repository.ErrDidiProfileNotFound) {
		return nil, errors.Wrap(err, "failed to check existing profile")
	}

	profile := entity.NewDidiProfile(userID, input.AadhaarNumber, input.Latitude, input.Longitude, input.Location)
	profile.BankAccountNumber = input.BankAccountNumber
	profile.BankIFSC = input.BankIFSC
	profile.BankName = input.BankName
	profile.AccountHolderName = input.AccountHolderName

	if input.AadhaarImage != nil {
		url, err := srv.storage.Save(ctx, input.AadhaarImage.FileName, input.AadhaarImage.ContentType, input.AadhaarImage.Content)
		if err != nil {
			return nil, errors.Wrap(err, "failed to store aadhaar image")
		}
		profile.AadhaarImageURL = url
	}

	if err := srv.didiRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrAadhaarAlreadyRegistered) {
			return nil, domainerrors.ErrAadhaarAlreadyRegistered
		}

		return nil, err
	}

	srv.log(ctx).Info("Didi application submitted", slog.Any("profileID", profile.ID), slog.Any("userID", userID))

	srv.publishDidiEvent(ctx, service.EventDidiApplied, profile)
	srv.notify(ctx, service.TopicAdmins, "New Didi application",
		user.Name+" has applied to join as an SHG Didi",
		map[string]string{"profile_id": profile.ID.String()})

	return profile, nil
}

// GetMyProfile retrieves the acting user's producer profile.
func (srv *didiService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*entity.DidiProfile, error) {
	profile, err := srv.didiRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDidiProfileNotFound) {
			return nil, domainerrors.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

// ListApplications retrieves applications in a given approval state,
// oldest first. Admin only.
func (srv *didiService) ListApplications(ctx context.Context, status entity.ApprovalStatus) ([]*entity.DidiProfile, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid approval status")
	}

	profiles, err := srv.didiRepo.ListByApprovalStatus(ctx, status)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list applications")
	}

	return profiles, nil
}

// Approve accepts an application and notifies the applicant. Admin only.
func (srv *didiService) Approve(ctx context.Context, profileID uuid.UUID) (*entity.DidiProfile, error) {
	profile, err := srv.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.Approve()
	if err := srv.didiRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Didi application approved", slog.Any("profileID", profile.ID))

	srv.publishDidiEvent(ctx, service.EventDidiApproved, profile)
	srv.notify(ctx, service.TopicUserPrefix+profile.UserID.String(), "Application approved",
		"Welcome aboard! You can now receive orders and start your training.",
		map[string]string{"profile_id": profile.ID.String()})

	return profile, nil
}

// Reject declines an application with a reason. Admin only.
func (srv *didiService) Reject(ctx context.Context, profileID uuid.UUID, reason string) (*entity.DidiProfile, error) {
	profile, err := srv.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.Reject(reason)
	if err := srv.didiRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	srv.publishDidiEvent(ctx, service.EventDidiRejected, profile)
	srv.notify(ctx, service.TopicUserPrefix+profile.UserID.String(), "Application update",
		"Your application was not approved: "+reason,
		map[string]string{"profile_id": profile.ID.String()})

	return profile, nil
}

// Suspend takes an approved Didi off the platform. Admin only.
func (srv *didiService) Suspend(ctx context.Context, profileID uuid.UUID) (*entity.DidiProfile, error) {
	profile, err := srv.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.Suspend()
	if err := srv.didiRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Didi suspended", slog.Any("profileID", profile.ID))

	return profile, nil
}

// Dashboard aggregates the acting Didi's orders, earnings, training
// completion and distance covered today.
func (srv *didiService) Dashboard(ctx context.Context, userID uuid.UUID) (*usecase.DidiDashboardOutput, error) {
	profile, err := srv.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := srv.orderRepo.ListByAssignedSHG(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assigned orders")
	}

	pending := 0
	for _, order := range orders {
		if !order.Status.IsTerminal() {
			pending++
		}
	}

	completion, err := srv.trainingCompletion(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	distanceKm, err := srv.distanceToday(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	lastPing, err := srv.locationRepo.FindLatestByProfile(ctx, profile.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrLocationPingNotFound) {
			return nil, errors.Wrap(err, "failed to find latest location")
		}
		lastPing = nil
	}

	return &usecase.DidiDashboardOutput{
		Profile:            profile,
		AssignedOrders:     len(orders),
		PendingOrders:      pending,
		TotalEarnings:      profile.TotalEarnings,
		TrainingCompletion: completion,
		DistanceTodayKm:    distanceKm,
		LastKnownLocation:  lastPing,
	}, nil
}

func (srv *didiService) findProfile(ctx context.Context, profileID uuid.UUID) (*entity.DidiProfile, error) {
	profile, err := srv.didiRepo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrDidiProfileNotFound) {
			return nil, domainerrors.ErrDidiProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return profile, nil
}

// trainingCompletion returns the percentage of active curriculum
// modules the Didi has completed.
func (srv *didiService) trainingCompletion(ctx context.Context, profileID uuid.UUID) (int, error) {
	contents, err := srv.trainingRepo.ListActiveContent(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list curriculum")
	}
	if len(contents) == 0 {
		return 0, nil
	}

	records, err := srv.trainingRepo.ListProgressByProfile(ctx, profileID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list training progress")
	}

	completed := make(map[uuid.UUID]bool, len(records))
	for _, record := range records {
		if record.IsCompleted() {
			completed[record.TrainingContentID] = true
		}
	}

	done := 0
	for _, content := range contents {
		if completed[content.ID] {
			done++
		}
	}

	return done * 100 / len(contents), nil
}

// distanceToday sums the great-circle distance between consecutive
// pings recorded since local midnight, in kilometres.
func (srv *didiService) distanceToday(ctx context.Context, profileID uuid.UUID) (float64, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	pings, err := srv.locationRepo.ListByProfileSince(ctx, profileID, midnight)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list location pings")
	}

	meters := 0.0
	for i := 1; i < len(pings); i++ {
		meters += geo.Distance(pings[i-1].Point(), pings[i].Point())
	}

	return meters / 1000, nil
}

func (srv *didiService) publishDidiEvent(ctx context.Context, eventType string, profile *entity.DidiProfile) {
	event := &service.DomainEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload: map[string]string{
			"profile_id":      profile.ID.String(),
			"user_id":         profile.UserID.String(),
			"approval_status": string(profile.ApprovalStatus),
		},
	}
	if err := srv.publisher.Publish(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish event", slog.String("type", eventType), slog.Any("error", err))
	}
}

func (srv *didiService) notify(ctx context.Context, topic, title, body string, data map[string]string) {
	if err := srv.notifier.SendToTopic(ctx, topic, title, body, data); err != nil {
		srv.log(ctx).Warn("Failed to send notification", slog.String("topic", topic), slog.Any("error", err))
	}
}
