// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"acharwala/config"
	deliverycontext "acharwala/internal/delivery/context"
	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/domain/repository"
	"acharwala/internal/domain/service"
	"acharwala/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultOTPTTL = 10 * time.Minute

// authService implements the AuthUsecase interface.
type authService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	otpRepo          repository.OTPRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	mailer           service.Mailer
	otpTTL           time.Duration
	logger           *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	OTPRepo          repository.OTPRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Mailer           service.Mailer
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	otpTTL := defaultOTPTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.OTPTTL > 0 {
		otpTTL = params.Config.Auth.OTPTTL
	}

	return &authService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		otpRepo:          params.OTPRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		mailer:           params.Mailer,
		otpTTL:           otpTTL,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// hashRefreshToken derives the storage key for a raw refresh token.
// Only the digest is persisted, so a database leak cannot replay sessions.
func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}

// Signup registers a new account and mails a signup OTP to the address.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.SignupOutput, error) {
	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email), slog.Any("role", input.Role))

	role := input.Role
	if role == "" {
		role = entity.RoleCustomer
	}
	if !role.IsValid() || role == entity.RoleAdmin {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("invalid role for signup")
	}

	existing, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing account")
	}
	if existing != nil && existing.EmailVerified {
		return nil, domainerrors.ErrUserAlreadyExists
	}

	hashed, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user := entity.NewUser(input.Name, input.Email, input.PhoneNumber, hashed, role)
	user.Address = input.Address
	user.DateOfBirth = input.DateOfBirth

	challenge := entity.NewOTPChallenge(user.ID, entity.OTPPurposeSignup, srv.otpTTL)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users := repoFactory.NewUserRepository()

		// A signup that never verified its email is replaced wholesale,
		// so a typo in the first attempt does not lock the address out.
		if existing != nil {
			if err := users.Delete(ctx, existing.ID); err != nil {
				return err
			}
		}

		return users.Create(ctx, user)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	if err := srv.otpRepo.Replace(ctx, challenge); err != nil {
		return nil, errors.Wrap(err, "failed to store signup otp")
	}

	// Mail failures must not roll back the account; the code can be resent.
	if err := srv.mailer.SendOTP(ctx, user.Email, user.Name, challenge.Code, string(entity.OTPPurposeSignup)); err != nil {
		srv.log(ctx).Error("Failed to send signup otp", slog.String("email", user.Email), slog.Any("error", err))
	}

	srv.log(ctx).Debug("Signup completed", slog.Any("userID", user.ID))

	return &usecase.SignupOutput{User: user}, nil
}

// VerifySignupOTP checks the emailed code and marks the account verified.
func (srv *authService) VerifySignupOTP(ctx context.Context, input usecase.VerifyOTPInput) error {
	user, err := srv.findUserByEmail(ctx, input.Email)
	if err != nil {
		return err
	}

	if err := srv.consumeOTP(ctx, user.ID, entity.OTPPurposeSignup, input.Code); err != nil {
		return err
	}

	user.MarkEmailVerified()
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to mark email verified")
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", user.ID))

	return nil
}

// ResendSignupOTP issues a fresh signup code, replacing the previous one.
func (srv *authService) ResendSignupOTP(ctx context.Context, email string) error {
	user, err := srv.findUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domainerrors.ErrConflict.WrapMessage("email already verified")
	}

	challenge := entity.NewOTPChallenge(user.ID, entity.OTPPurposeSignup, srv.otpTTL)
	if err := srv.otpRepo.Replace(ctx, challenge); err != nil {
		return errors.Wrap(err, "failed to store signup otp")
	}

	return srv.mailer.SendOTP(ctx, user.Email, user.Name, challenge.Code, string(entity.OTPPurposeSignup))
}

// Login authenticates credentials and opens a session.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password, to avoid confirming accounts.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domainerrors.ErrUserInactive
	}
	if !user.EmailVerified {
		return nil, domainerrors.ErrEmailNotVerified
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return output, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair, rotating the stored session.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*usecase.LoginOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	stored, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, hashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find session")
	}
	if stored.IsExpired() {
		return nil, domainerrors.ErrRefreshTokenExpired
	}

	user, err := srv.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find session owner")
	}
	if !user.Active {
		return nil, domainerrors.ErrUserInactive
	}

	// Rotate: the presented token is single-use.
	if err := srv.refreshTokenRepo.DeleteRefreshToken(ctx, stored.ID); err != nil {
		return nil, errors.Wrap(err, "failed to rotate session")
	}

	return srv.openSession(ctx, user)
}

// Logout ends the session carried by the refresh token.
func (srv *authService) Logout(ctx context.Context, refreshToken string) error {
	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, hashRefreshToken(refreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return errors.Wrap(err, "failed to end session")
	}

	return nil
}

// ForgotPassword mails a password-reset code to the account's address.
// Unknown addresses are answered silently to avoid confirming accounts.
func (srv *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Password reset requested for unknown address")

			return nil
		}

		return errors.Wrap(err, "failed to find account")
	}

	challenge := entity.NewOTPChallenge(user.ID, entity.OTPPurposePasswordReset, srv.otpTTL)
	if err := srv.otpRepo.Replace(ctx, challenge); err != nil {
		return errors.Wrap(err, "failed to store reset otp")
	}

	return srv.mailer.SendOTP(ctx, user.Email, user.Name, challenge.Code, string(entity.OTPPurposePasswordReset))
}

// ResetPassword verifies the reset code and replaces the password, ending all open sessions.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	user, err := srv.findUserByEmail(ctx, input.Email)
	if err != nil {
		return err
	}

	if err := srv.consumeOTP(ctx, user.ID, entity.OTPPurposePasswordReset, input.Code); err != nil {
		return err
	}

	hashed, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	user.ChangePassword(hashed)
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store new password")
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, user.ID); err != nil {
		return errors.Wrap(err, "failed to end open sessions")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

// GetProfile retrieves the authenticated user's account.
func (srv *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return user, nil
}

func (srv *authService) findUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return user, nil
}

// consumeOTP validates a code against the live challenge and deletes it
// on success. Wrong codes leave the challenge in place for a retry.
func (srv *authService) consumeOTP(ctx context.Context, userID uuid.UUID, purpose entity.OTPPurpose, code string) error {
	challenge, err := srv.otpRepo.FindByUserAndPurpose(ctx, userID, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrOTPNotFound) {
			return domainerrors.ErrInvalidOTP
		}

		return errors.Wrap(err, "failed to find otp challenge")
	}

	now := time.Now()
	if now.After(challenge.ExpiresAt) {
		return domainerrors.ErrOTPExpired
	}
	if !challenge.Matches(code, now) {
		return domainerrors.ErrInvalidOTP
	}

	if err := srv.otpRepo.Delete(ctx, challenge.ID); err != nil {
		return errors.Wrap(err, "failed to consume otp challenge")
	}

	return nil
}

// openSession issues a token pair and persists the refresh session.
func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, []string{string(user.Role)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	session := entity.NewRefreshToken(user.ID, hashRefreshToken(refreshToken), srv.tokenService.GetRefreshTokenDuration())
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist session")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
