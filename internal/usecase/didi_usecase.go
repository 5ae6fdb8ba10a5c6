package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyDidiInput defines an SHG Didi onboarding application.
type ApplyDidiInput struct {
	AadhaarNumber     string
	AadhaarImage      *UploadFileInput // optional scan of the Aadhaar card
	BankAccountNumber string
	BankIFSC          string
	BankName          string
	AccountHolderName string
	Latitude          float64
	Longitude         float64
	Location          string
}

// DidiDashboardOutput aggregates a Didi's operational snapshot.
type DidiDashboardOutput struct {
	Profile            *entity.DidiProfile
	AssignedOrders     int
	PendingOrders      int // assigned but not yet delivered
	TotalEarnings      decimal.Decimal
	TrainingCompletion int // percentage of active modules completed
	DistanceTodayKm    float64
	LastKnownLocation  *entity.LocationPing // nil when no pings exist
}

// DidiUsecase defines the interface for SHG Didi onboarding and operations.
type DidiUsecase interface {
	// Apply submits an onboarding application for the acting user,
	// storing the Aadhaar scan when provided.
	Apply(ctx context.Context, userID uuid.UUID, input ApplyDidiInput) (*entity.DidiProfile, error)

	// GetMyProfile retrieves the acting user's producer profile.
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*entity.DidiProfile, error)

	// ListApplications retrieves applications in a given approval
	// state, oldest first. Admin only.
	ListApplications(ctx context.Context, status entity.ApprovalStatus) ([]*entity.DidiProfile, error)

	// Approve accepts an application and notifies the applicant. Admin only.
	Approve(ctx context.Context, profileID uuid.UUID) (*entity.DidiProfile, error)

	// Reject declines an application with a reason. Admin only.
	Reject(ctx context.Context, profileID uuid.UUID, reason string) (*entity.DidiProfile, error)

	// Suspend takes an approved Didi off the platform. Admin only.
	Suspend(ctx context.Context, profileID uuid.UUID) (*entity.DidiProfile, error)

	// Dashboard aggregates the acting Didi's orders, earnings,
	// training completion and distance covered today.
	Dashboard(ctx context.Context, userID uuid.UUID) (*DidiDashboardOutput, error)
}
