// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"acharwala/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        entity.Role
	Address     string
	DateOfBirth string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// VerifyOTPInput carries an emailed code back for verification.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// ResetPasswordInput completes a forgotten-password flow.
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// --- Output DTOs ---

// SignupOutput returns the newly created user's basic information.
type SignupOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// AuthUsecase defines the interface for account and session operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Signup registers a new account and mails a signup OTP to the address.
	Signup(ctx context.Context, input SignupInput) (*SignupOutput, error)

	// VerifySignupOTP checks the emailed code and marks the account verified.
	VerifySignupOTP(ctx context.Context, input VerifyOTPInput) error

	// ResendSignupOTP issues a fresh signup code, replacing the previous one.
	ResendSignupOTP(ctx context.Context, email string) error

	// Login authenticates credentials and opens a session.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a fresh token pair,
	// rotating the stored session.
	Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error)

	// Logout ends the session carried by the refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// ForgotPassword mails a password-reset code to the account's address.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword verifies the reset code and replaces the password,
	// ending all open sessions.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	// GetProfile retrieves the authenticated user's account.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
