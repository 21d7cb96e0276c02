package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u, err := f.accounts.Register(context.Background(), service.RegisterInput{
		Email:    "  Alice@Example.com ",
		Username: "Alice",
		Password: "hunter22",
		FullName: "Alice Smith",
		Role:     "LANDLORD",
	})
	require.NoError(t, err)

	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, domain.RoleLandlord, u.Role)
	require.False(t, u.IsEmailVerified)
	require.NotEmpty(t, u.EmailVerificationHash)
	require.NotEqual(t, "hunter22", u.PasswordHash)

	require.Equal(t, 1, f.mail.count(mailer.KindVerification))
	token := f.mail.lastToken(t, mailer.KindVerification)
	require.Equal(t, cryptox.FingerprintToken(token), u.EmailVerificationHash)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, service.RegisterInput{Email: "nope", Username: "ab", Password: "123"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Problems, 4)

	_, err = f.accounts.Register(ctx, service.RegisterInput{
		Email: "a@x.com", Username: "alice", Password: "hunter22", Role: "superuser",
	})
	require.ErrorIs(t, err, service.ErrInvalidRole)

	_, err = f.accounts.Register(ctx, service.RegisterInput{
		Email: "a@x.com", Username: "alice", Password: "hunter22", FullName: "Al", Role: "tenant",
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	require.Zero(t, f.mail.count(mailer.KindVerification))
}

func TestRegisterConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")

	_, err := f.accounts.Register(ctx, service.RegisterInput{
		Email: "A@X.COM", Username: "someoneelse", Password: "hunter22", Role: "tenant",
	})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = f.accounts.Register(ctx, service.RegisterInput{
		Email: "b@x.com", Username: "ALICE", Password: "hunter22", Role: "tenant",
	})
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestRegisterSurvivesMailerFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.fail = true

	u := f.register(t, "a@x.com", "alice", "hunter22")

	got, err := f.accounts.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	token := f.mail.lastToken(t, mailer.KindVerification)

	require.ErrorIs(t, f.accounts.VerifyEmail(ctx, "not-the-token"), service.ErrTokenInvalid)
	require.ErrorIs(t, f.accounts.VerifyEmail(ctx, ""), service.ErrInvalidInput)

	require.NoError(t, f.accounts.VerifyEmail(ctx, token))

	got, err := f.accounts.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsEmailVerified)
	require.Empty(t, got.EmailVerificationHash)
	require.Nil(t, got.EmailVerificationExpiry)

	// single use
	require.ErrorIs(t, f.accounts.VerifyEmail(ctx, token), service.ErrTokenInvalid)
}

func TestVerifyEmailExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	token := f.mail.lastToken(t, mailer.KindVerification)

	f.clock.Advance(20 * time.Minute)

	require.ErrorIs(t, f.accounts.VerifyEmail(ctx, token), service.ErrTokenExpired)

	got, err := f.accounts.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.IsEmailVerified)
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	first := f.mail.lastToken(t, mailer.KindVerification)

	require.NoError(t, f.accounts.ResendVerification(ctx, u.ID))
	require.Equal(t, 2, f.mail.count(mailer.KindVerification))
	second := f.mail.lastToken(t, mailer.KindVerification)
	require.NotEqual(t, first, second)

	// the resend replaced the outstanding token
	require.ErrorIs(t, f.accounts.VerifyEmail(ctx, first), service.ErrTokenInvalid)
	require.NoError(t, f.accounts.VerifyEmail(ctx, second))

	require.ErrorIs(t, f.accounts.ResendVerification(ctx, u.ID), service.ErrAlreadyVerified)
	require.ErrorIs(t, f.accounts.ResendVerification(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV"), service.ErrUserNotFound)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	before := f.login(t, "a@x.com", "hunter22")

	require.ErrorIs(t, f.accounts.ForgotPassword(ctx, "nobody@x.com"), service.ErrUserNotFound)
	require.ErrorIs(t, f.accounts.ForgotPassword(ctx, "not-an-email"), service.ErrInvalidInput)

	require.NoError(t, f.accounts.ForgotPassword(ctx, "A@x.com"))
	require.Equal(t, 1, f.mail.count(mailer.KindPasswordReset))
	token := f.mail.lastToken(t, mailer.KindPasswordReset)

	require.ErrorIs(t, f.accounts.ResetPassword(ctx, token, "abc"), service.ErrInvalidInput)
	require.ErrorIs(t, f.accounts.ResetPassword(ctx, "wrong", "new-password"), service.ErrTokenInvalid)

	require.NoError(t, f.accounts.ResetPassword(ctx, token, "new-password"))

	got, err := f.accounts.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.PasswordResetHash)
	require.Nil(t, got.PasswordResetExpiry)
	require.Empty(t, got.RefreshTokenHash, "reset must end the live session")

	_, err = f.sessions.Rotate(ctx, before.Tokens.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	require.ErrorIs(t, f.accounts.ResetPassword(ctx, token, "another-one"), service.ErrTokenInvalid)

	_, err = f.sessions.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "hunter22"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
	f.login(t, "a@x.com", "new-password")
}

func TestResetPasswordExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")

	require.NoError(t, f.accounts.ForgotPassword(ctx, "a@x.com"))
	token := f.mail.lastToken(t, mailer.KindPasswordReset)

	f.clock.Advance(21 * time.Minute)
	require.ErrorIs(t, f.accounts.ResetPassword(ctx, token, "new-password"), service.ErrTokenExpired)

	f.login(t, "a@x.com", "hunter22")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	res := f.login(t, "a@x.com", "hunter22")

	err := f.accounts.ChangePassword(ctx, u.ID, service.ChangePasswordInput{OldPassword: "wrong", NewPassword: "new-password"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	err = f.accounts.ChangePassword(ctx, u.ID, service.ChangePasswordInput{OldPassword: "hunter22", NewPassword: "xy"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	err = f.accounts.ChangePassword(ctx, u.ID, service.ChangePasswordInput{OldPassword: "hunter22", NewPassword: "new-password"})
	require.NoError(t, err)

	f.login(t, "a@x.com", "new-password")
	_, err = f.sessions.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "hunter22"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	// the login above replaced the session from before the change
	_, err = f.sessions.Rotate(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.GetUser(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestPasswordsAreTrimmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "  hunter22 ")

	f.login(t, "a@x.com", "hunter22")
	f.login(t, "a@x.com", "\thunter22\n")

	require.NoError(t, f.accounts.ChangePassword(ctx, u.ID, service.ChangePasswordInput{
		OldPassword: " hunter22",
		NewPassword: " battery-staple ",
	}))
	f.login(t, "a@x.com", "battery-staple")

	require.NoError(t, f.accounts.ForgotPassword(ctx, "a@x.com"))
	token := f.mail.lastToken(t, mailer.KindPasswordReset)
	require.NoError(t, f.accounts.ResetPassword(ctx, token, " correct-horse  "))
	f.login(t, "a@x.com", "correct-horse")

	// whitespace does not count towards the minimum length
	err := f.accounts.ChangePassword(ctx, u.ID, service.ChangePasswordInput{
		OldPassword: "correct-horse",
		NewPassword: "  ab  ",
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
}
