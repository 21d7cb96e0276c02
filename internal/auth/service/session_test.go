package service_test

import (
	"context"
	"testing"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")

	res := f.login(t, "A@X.com", "hunter22")
	require.Equal(t, u.ID, res.User.ID)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
	require.True(t, res.Tokens.RefreshExpiresAt.After(res.Tokens.AccessExpiresAt))
	require.Equal(t, 1, f.mail.count(mailer.KindLoginNotice))

	stored, err := f.accounts.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, cryptox.FingerprintToken(res.Tokens.RefreshToken), stored.RefreshTokenHash)

	access, err := jwtx.NewVerifierHS256([]byte(testAccessSecret), jwtx.VerifyOptions{
		Issuer:   testIssuer,
		TokenUse: jwtx.TokenUseAccess,
	})
	require.NoError(t, err)
	claims, err := access.Verify(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "tenant", claims.Role)
	require.Equal(t, "alice", claims.Username)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")

	_, err := f.sessions.Login(ctx, service.LoginInput{Email: "b@x.com", Password: "hunter22"})
	require.ErrorIs(t, err, service.ErrUnknownAccount)

	_, err = f.sessions.Login(ctx, service.LoginInput{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.sessions.Login(ctx, service.LoginInput{Password: "hunter22"})
	require.ErrorIs(t, err, service.ErrInvalidInput)

	require.Zero(t, f.mail.count(mailer.KindLoginNotice))
}

func TestRotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")
	res := f.login(t, "a@x.com", "hunter22")

	pair, err := f.sessions.Rotate(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, res.Tokens.RefreshToken, pair.RefreshToken)

	// the old token is spent
	_, err = f.sessions.Rotate(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	_, err = f.sessions.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRotateRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")
	res := f.login(t, "a@x.com", "hunter22")

	for _, tok := range []string{"", "garbage", res.Tokens.AccessToken} {
		_, err := f.sessions.Rotate(ctx, tok)
		require.ErrorIs(t, err, service.ErrInvalidRefreshToken, "token %q", tok)
	}
}

func TestRotateConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")
	res := f.login(t, "a@x.com", "hunter22")

	const n = 8
	errs := make(chan error, n)
	for range n {
		go func() {
			_, err := f.sessions.Rotate(ctx, res.Tokens.RefreshToken)
			errs <- err
		}()
	}

	wins := 0
	for range n {
		err := <-errs
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, service.ErrRefreshTokenExpired)
	}
	require.Equal(t, 1, wins)
}

func TestSecondLoginEndsFirstSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "hunter22")

	first := f.login(t, "a@x.com", "hunter22")
	second := f.login(t, "a@x.com", "hunter22")

	_, err := f.sessions.Rotate(ctx, first.Tokens.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	_, err = f.sessions.Rotate(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "a@x.com", "alice", "hunter22")
	res := f.login(t, "a@x.com", "hunter22")

	require.NoError(t, f.sessions.Logout(ctx, u.ID))
	require.NoError(t, f.sessions.Logout(ctx, u.ID))

	_, err := f.sessions.Rotate(ctx, res.Tokens.RefreshToken)
	require.ErrorIs(t, err, service.ErrRefreshTokenExpired)

	require.ErrorIs(t, f.sessions.Logout(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV"), service.ErrUserNotFound)
}
