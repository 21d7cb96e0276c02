package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestStore starts a throwaway Postgres container. Skipped with -short.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres driver tests need docker")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tms",
			"POSTGRES_PASSWORD": "tms",
			"POSTGRES_DB":       "tms",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://tms:tms@%s:%s/tms?sslmode=disable", host, port.Port())
	s, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newUser(email, username string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		Role:         domain.RoleLandlord,
		PasswordHash: "hash",
	}
}

func TestPostgresUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	users := s.Users()

	u := newUser("a@x.com", "alice")
	require.NoError(t, users.CreateUser(ctx, u))
	require.ErrorIs(t, users.CreateUser(ctx, newUser("a@x.com", "other")), store.ErrAlreadyExists)

	exists, err := users.ExistsByEmailOrUsername(ctx, "no@x.com", "alice")
	require.NoError(t, err)
	require.True(t, exists)

	got, err := users.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleLandlord, got.Role)
	require.False(t, got.IsEmailVerified)

	t.Run("verification is single use", func(t *testing.T) {
		require.NoError(t, users.SetEmailVerificationToken(ctx, u.ID, "v1", time.Now().Add(time.Minute)))
		require.NoError(t, users.MarkEmailVerified(ctx, u.ID, "v1"))
		require.ErrorIs(t, users.MarkEmailVerified(ctx, u.ID, "v1"), store.ErrNotFound)

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsEmailVerified)
		require.Nil(t, got.EmailVerificationExpiry)
	})

	t.Run("refresh swap", func(t *testing.T) {
		require.NoError(t, users.SetRefreshTokenHash(ctx, u.ID, "r1"))
		ok, err := users.SwapRefreshTokenHash(ctx, u.ID, "r1", "r2")
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = users.SwapRefreshTokenHash(ctx, u.ID, "r1", "r3")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("reset clears session", func(t *testing.T) {
		require.NoError(t, users.SetPasswordResetToken(ctx, u.ID, "p1", time.Now().Add(time.Minute)))
		require.NoError(t, users.ResetPassword(ctx, u.ID, "p1", "new-hash"))

		got, err := users.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.Empty(t, got.RefreshTokenHash)
	})

	t.Run("housekeeping", func(t *testing.T) {
		require.NoError(t, users.SetPasswordResetToken(ctx, u.ID, "p2", time.Now().Add(-time.Minute)))
		n, err := users.ClearExpiredTemporaryTokens(ctx, time.Now())
		require.NoError(t, err)
		require.EqualValues(t, 1, n)
	})
}
