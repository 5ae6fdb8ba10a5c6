package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApprovalStatus tracks a Didi's onboarding decision.
type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "PENDING"
	ApprovalStatusApproved  ApprovalStatus = "APPROVED"
	ApprovalStatusRejected  ApprovalStatus = "REJECTED"
	ApprovalStatusSuspended ApprovalStatus = "SUSPENDED"
)

// IsValid checks if the ApprovalStatus is a valid value.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusSuspended:
		return true
	default:
		return false
	}
}

// TrainingStatus tracks a Didi's overall training journey.
type TrainingStatus string

const (
	TrainingStatusNotStarted TrainingStatus = "NOT_STARTED"
	TrainingStatusInProgress TrainingStatus = "IN_PROGRESS"
	TrainingStatusCompleted  TrainingStatus = "COMPLETED"
	TrainingStatusFailed     TrainingStatus = "FAILED"
)

// IsValid checks if the TrainingStatus is a valid value.
func (s TrainingStatus) IsValid() bool {
	switch s {
	case TrainingStatusNotStarted, TrainingStatusInProgress, TrainingStatusCompleted, TrainingStatusFailed:
		return true
	default:
		return false
	}
}

// DidiProfile is the producer profile of an SHG Didi: identity and
// bank details collected at onboarding, her home location, the
// admin approval decision and rolled-up performance metrics.
type DidiProfile struct {
	ID                  uuid.UUID       // The unique identifier for the profile.
	UserID              uuid.UUID       // The user this profile belongs to. One profile per user.
	AadhaarNumber       string          // Government ID number, unique across profiles.
	AadhaarImageURL     string          // URL of the uploaded Aadhaar card image.
	BankAccountNumber   string          // Payout account number.
	BankIFSC            string          // Payout account IFSC code.
	BankName            string          // Payout bank name.
	AccountHolderName   string          // Name on the payout account.
	Latitude            float64         // Home/workshop latitude.
	Longitude           float64         // Home/workshop longitude.
	Location            string          // Address or area name for the coordinates.
	ApprovalStatus      ApprovalStatus  // Admin decision on the onboarding application.
	RejectionReason     string          // Set when the application is rejected.
	TrainingStatus      TrainingStatus  // Overall training journey state.
	TrainingCompletedAt time.Time       // When the last training module was completed. Zero until then.
	TotalEarnings       decimal.Decimal // Lifetime earnings from fulfilled orders.
	AverageRating       decimal.Decimal // Average customer rating.
	TotalOrders         int             // Orders fulfilled.
	TotalSales          int             // Units sold.
	ApprovedAt          time.Time       // When the application was approved. Zero until then.
	CreatedAt           time.Time       // Timestamp of when the application was submitted.
	UpdatedAt           time.Time       // Timestamp of the last modification.
}

// NewDidiProfile registers an onboarding application in the pending state.
func NewDidiProfile(userID uuid.UUID, aadhaarNumber string, latitude, longitude float64, location string) *DidiProfile {
	now := time.Now()

	return &DidiProfile{
		ID:             uuid.New(),
		UserID:         userID,
		AadhaarNumber:  aadhaarNumber,
		Latitude:       latitude,
		Longitude:      longitude,
		Location:       location,
		ApprovalStatus: ApprovalStatusPending,
		TrainingStatus: TrainingStatusNotStarted,
		TotalEarnings:  decimal.Zero,
		AverageRating:  decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Approve records an admin approval.
func (d *DidiProfile) Approve() {
	now := time.Now()
	d.ApprovalStatus = ApprovalStatusApproved
	d.RejectionReason = ""
	d.ApprovedAt = now
	d.UpdatedAt = now
}

// Reject records an admin rejection with the given reason.
func (d *DidiProfile) Reject(reason string) {
	d.ApprovalStatus = ApprovalStatusRejected
	d.RejectionReason = reason
	d.UpdatedAt = time.Now()
}

// Suspend takes an approved Didi off the platform.
func (d *DidiProfile) Suspend() {
	d.ApprovalStatus = ApprovalStatusSuspended
	d.UpdatedAt = time.Now()
}

// IsApproved reports whether the Didi may take orders.
func (d *DidiProfile) IsApproved() bool {
	return d.ApprovalStatus == ApprovalStatusApproved
}

// UpdateLocation moves the profile's home coordinates.
func (d *DidiProfile) UpdateLocation(latitude, longitude float64, location string) {
	d.Latitude = latitude
	d.Longitude = longitude
	d.Location = location
	d.UpdatedAt = time.Now()
}

// StartTraining moves the training journey to in-progress if it has not started yet.
func (d *DidiProfile) StartTraining() {
	if d.TrainingStatus == TrainingStatusNotStarted {
		d.TrainingStatus = TrainingStatusInProgress
		d.UpdatedAt = time.Now()
	}
}

// CompleteTraining marks the whole training journey finished.
func (d *DidiProfile) CompleteTraining() {
	now := time.Now()
	d.TrainingStatus = TrainingStatusCompleted
	d.TrainingCompletedAt = now
	d.UpdatedAt = now
}

// RecordSale folds one fulfilled order into the performance metrics.
func (d *DidiProfile) RecordSale(earnings decimal.Decimal, units int) {
	d.TotalEarnings = d.TotalEarnings.Add(earnings)
	d.TotalOrders++
	d.TotalSales += units
	d.UpdatedAt = time.Now()
}
