package impl

import (
	"context"
	"testing"
	"time"

	"acharwala/internal/domain/entity"
	domainerrors "acharwala/internal/domain/errors"
	"acharwala/internal/infra/persistence/postgres"
	"acharwala/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type authFixture struct {
	svc     usecase.AuthUsecase
	db      *gorm.DB
	mailer  *stubMailer
	tokens  *stubTokenService
	userIn  usecase.SignupInput
	context context.Context
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := newTestDB(t)
	mailer := newStubMailer()
	tokens := newStubTokenService()

	svc := NewAuthService(AuthServiceParams{
		TxManager:        postgres.NewTransactionManager(db),
		UserRepo:         postgres.NewUserRepository(db),
		RefreshTokenRepo: postgres.NewRefreshTokenRepository(db),
		OTPRepo:          postgres.NewOTPRepository(db),
		Hasher:           stubHasher{},
		TokenService:     tokens,
		Mailer:           mailer,
		Logger:           newTestLogger(),
	})

	return &authFixture{
		svc:    svc,
		db:     db,
		mailer: mailer,
		tokens: tokens,
		userIn: usecase.SignupInput{
			Name:        "Sunita Devi",
			Email:       "sunita@example.com",
			Password:    "secret-password",
			PhoneNumber: "9876543210",
			Role:        entity.RoleCustomer,
		},
		context: context.Background(),
	}
}

// signupVerified walks the full signup flow so later tests start from
// a verified account.
func (f *authFixture) signupVerified(t *testing.T) {
	t.Helper()

	_, err := f.svc.Signup(f.context, f.userIn)
	require.NoError(t, err)

	code := f.mailer.lastCode(f.userIn.Email)
	require.NotEmpty(t, code)
	require.NoError(t, f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: code}))
}

func TestAuthService_SignupAndVerifyFlow(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.svc.Signup(f.context, f.userIn)
	require.NoError(t, err)
	assert.False(t, out.User.EmailVerified)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)

	// Unverified accounts cannot log in yet.
	_, err = f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	assert.ErrorIs(t, err, domainerrors.ErrEmailNotVerified)

	// A wrong code leaves the challenge in place for a retry.
	err = f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: "0000"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	code := f.mailer.lastCode(f.userIn.Email)
	require.NoError(t, f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: code}))

	// The code is single-use.
	err = f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: code})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)

	login, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.True(t, login.User.EmailVerified)
}

func TestAuthService_SignupRejectsVerifiedDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t)

	_, err := f.svc.Signup(f.context, f.userIn)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_SignupReplacesUnverifiedAccount(t *testing.T) {
	f := newAuthFixture(t)

	first, err := f.svc.Signup(f.context, f.userIn)
	require.NoError(t, err)

	// The address never verified, so a second attempt with corrected
	// details starts over instead of being rejected.
	input := f.userIn
	input.Name = "Sunita Kumari"
	second, err := f.svc.Signup(f.context, input)
	require.NoError(t, err)
	assert.NotEqual(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Sunita Kumari", second.User.Name)

	// The fresh code verifies the replacement account.
	code := f.mailer.lastCode(f.userIn.Email)
	require.NotEmpty(t, code)
	require.NoError(t, f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: code}))

	login, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	require.NoError(t, err)
	assert.Equal(t, second.User.ID, login.User.ID)
	assert.Equal(t, "Sunita Kumari", login.User.Name)
}

func TestAuthService_SignupRejectsAdminRole(t *testing.T) {
	f := newAuthFixture(t)

	input := f.userIn
	input.Role = entity.RoleAdmin
	_, err := f.svc.Signup(f.context, input)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthService_SignupDefaultsToCustomer(t *testing.T) {
	f := newAuthFixture(t)

	input := f.userIn
	input.Role = ""
	out, err := f.svc.Signup(f.context, input)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t)

	_, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// Unknown addresses fail with the same error as a wrong password.
	_, err = f.svc.Login(f.context, usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t)

	login, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(f.context, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, login.User.ID, rotated.User.ID)

	// The presented token was consumed by the rotation.
	_, err = f.svc.Refresh(f.context, login.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// The freshly issued token still works.
	_, err = f.svc.Refresh(f.context, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_RefreshRejectsForgedToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(f.context, "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t)

	login, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(f.context, login.RefreshToken))

	_, err = f.svc.Refresh(f.context, login.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// Logging out twice is not an error.
	require.NoError(t, f.svc.Logout(f.context, login.RefreshToken))
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	f.signupVerified(t)

	login, err := f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(f.context, f.userIn.Email))
	code := f.mailer.lastCode(f.userIn.Email)
	require.NotEmpty(t, code)

	require.NoError(t, f.svc.ResetPassword(f.context, usecase.ResetPasswordInput{
		Email:       f.userIn.Email,
		Code:        code,
		NewPassword: "brand-new-password",
	}))

	// The reset ends every open session.
	_, err = f.svc.Refresh(f.context, login.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: f.userIn.Password})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = f.svc.Login(f.context, usecase.LoginInput{Email: f.userIn.Email, Password: "brand-new-password"})
	require.NoError(t, err)
}

func TestAuthService_ForgotPasswordHidesUnknownAddresses(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.ForgotPassword(f.context, "nobody@example.com"))
	assert.Zero(t, f.mailer.sent)
}

func TestAuthService_ExpiredOTPIsRejected(t *testing.T) {
	f := newAuthFixture(t)

	out, err := f.svc.Signup(f.context, f.userIn)
	require.NoError(t, err)

	// Replace the live challenge with one that expired a minute ago.
	otpRepo := postgres.NewOTPRepository(f.db)
	expired := entity.NewOTPChallenge(out.User.ID, entity.OTPPurposeSignup, -time.Minute)
	require.NoError(t, otpRepo.Replace(f.context, expired))

	err = f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: expired.Code})
	assert.ErrorIs(t, err, domainerrors.ErrOTPExpired)
}

func TestAuthService_ResendReplacesSignupOTP(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Signup(f.context, f.userIn)
	require.NoError(t, err)
	first := f.mailer.lastCode(f.userIn.Email)

	require.NoError(t, f.svc.ResendSignupOTP(f.context, f.userIn.Email))
	second := f.mailer.lastCode(f.userIn.Email)

	// The first code is dead even if it happens to differ from the new one.
	if first != second {
		err = f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: first})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidOTP)
	}

	require.NoError(t, f.svc.VerifySignupOTP(f.context, usecase.VerifyOTPInput{Email: f.userIn.Email, Code: second}))
}
