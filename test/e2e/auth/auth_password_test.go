package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForgotAndResetPassword(t *testing.T) {
	env := setupAuthContainer(t)
	ctx := t.Context()

	registerUser(t, env, "alice@example.com", "alice", "tenant")
	session := login(t, env, "alice@example.com", testPassword)

	requireStatus(t, env.Client.ForgotPassword(ctx, "nobody@example.com"), http.StatusNotFound)

	require.NoError(t, env.Client.ForgotPassword(ctx, "alice@example.com"))
	token := env.lastMailedToken(t, resetLinkRe)

	require.NoError(t, env.Client.ResetPassword(ctx, token, "correct-horse"))
	requireStatus(t, env.Client.ResetPassword(ctx, token, "second-try"), http.StatusUnauthorized)

	// the reset ended the session that was open before it
	requireStatus(t, session.Refresh(ctx), http.StatusUnauthorized)

	_, err := env.Client.Login(ctx, "alice@example.com", testPassword)
	requireStatus(t, err, http.StatusUnauthorized)
	login(t, env, "alice@example.com", "correct-horse")
}

func TestChangePassword(t *testing.T) {
	env := setupAuthContainer(t)
	ctx := t.Context()

	registerUser(t, env, "alice@example.com", "alice", "tenant")
	session := login(t, env, "alice@example.com", testPassword)

	requireStatus(t, session.ChangePassword(ctx, "not-my-password", "battery-staple"), http.StatusUnauthorized)
	require.NoError(t, session.ChangePassword(ctx, testPassword, "battery-staple"))

	// the session survives a password change
	_, err := session.Profile(ctx)
	require.NoError(t, err)

	login(t, env, "alice@example.com", "battery-staple")
}
