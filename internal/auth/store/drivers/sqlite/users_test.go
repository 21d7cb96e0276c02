package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s store.Store, email, username string) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		Role:         domain.RoleTenant,
		PasswordHash: "$argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	got, err := s.Users().GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	return got
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "a@x.com", "alice")

	require.Equal(t, "a@x.com", u.Email)
	require.Equal(t, domain.RoleTenant, u.Role)
	require.False(t, u.IsEmailVerified)
	require.Empty(t, u.RefreshTokenHash)
	require.Nil(t, u.EmailVerificationExpiry)
	require.False(t, u.CreatedAt.IsZero())

	byEmail, err := s.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedUser(t, s, "a@x.com", "alice")

	dupEmail := domain.User{ID: idx.New().String(), Email: "a@x.com", Username: "other", Role: domain.RoleTenant, PasswordHash: "h"}
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupEmail), store.ErrAlreadyExists)

	dupName := domain.User{ID: idx.New().String(), Email: "b@x.com", Username: "alice", Role: domain.RoleTenant, PasswordHash: "h"}
	require.ErrorIs(t, s.Users().CreateUser(ctx, dupName), store.ErrAlreadyExists)

	exists, err := s.Users().ExistsByEmailOrUsername(ctx, "zzz@x.com", "alice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Users().ExistsByEmailOrUsername(ctx, "zzz@x.com", "zed")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestEmailVerificationLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "a@x.com", "alice")
	exp := time.Now().UTC().Add(20 * time.Minute).Truncate(time.Second)

	require.NoError(t, s.Users().SetEmailVerificationToken(ctx, u.ID, "digest-1", exp))

	got, err := s.Users().GetUserByEmailVerificationHash(ctx, "digest-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.EmailVerificationExpiry)
	require.True(t, exp.Equal(*got.EmailVerificationExpiry))

	// stale digest cannot consume
	require.ErrorIs(t, s.Users().MarkEmailVerified(ctx, u.ID, "digest-0"), store.ErrNotFound)

	require.NoError(t, s.Users().MarkEmailVerified(ctx, u.ID, "digest-1"))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsEmailVerified)
	require.Empty(t, got.EmailVerificationHash)
	require.Nil(t, got.EmailVerificationExpiry)

	// single use
	require.ErrorIs(t, s.Users().MarkEmailVerified(ctx, u.ID, "digest-1"), store.ErrNotFound)
	_, err = s.Users().GetUserByEmailVerificationHash(ctx, "digest-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResetPasswordClearsSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "a@x.com", "alice")

	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "refresh-1"))
	require.NoError(t, s.Users().SetPasswordResetToken(ctx, u.ID, "reset-1", time.Now().Add(time.Minute)))

	got, err := s.Users().GetUserByPasswordResetHash(ctx, "reset-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	require.NoError(t, s.Users().ResetPassword(ctx, u.ID, "reset-1", "new-hash"))

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.Empty(t, got.PasswordResetHash)
	require.Nil(t, got.PasswordResetExpiry)
	require.Empty(t, got.RefreshTokenHash)

	require.ErrorIs(t, s.Users().ResetPassword(ctx, u.ID, "reset-1", "again"), store.ErrNotFound)
}

func TestRefreshTokenSwap(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "a@x.com", "alice")

	ok, err := s.Users().SwapRefreshTokenHash(ctx, u.ID, "r1", "r2")
	require.NoError(t, err)
	require.False(t, ok, "nothing bound yet")

	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "r1"))

	ok, err = s.Users().SwapRefreshTokenHash(ctx, u.ID, "r1", "r2")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Users().SwapRefreshTokenHash(ctx, u.ID, "r1", "r3")
	require.NoError(t, err)
	require.False(t, ok, "old binding is gone")

	require.NoError(t, s.Users().ClearRefreshTokenHash(ctx, u.ID))
	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.RefreshTokenHash)
}

func TestRefreshTokenSwapConcurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "a@x.com", "alice")
	require.NoError(t, s.Users().SetRefreshTokenHash(ctx, u.ID, "r1"))

	const n = 8
	var wg sync.WaitGroup
	results := make(chan bool, n)
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Users().SwapRefreshTokenHash(ctx, u.ID, "r1", idx.New().String())
			errs <- err
			results <- ok
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	require.Equal(t, 1, wins)
}

func TestClearExpiredTemporaryTokens(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	expired := seedUser(t, s, "a@x.com", "alice")
	live := seedUser(t, s, "b@x.com", "bob")

	now := time.Now().UTC()
	require.NoError(t, s.Users().SetEmailVerificationToken(ctx, expired.ID, "v-old", now.Add(-time.Minute)))
	require.NoError(t, s.Users().SetPasswordResetToken(ctx, expired.ID, "p-old", now.Add(-time.Minute)))
	require.NoError(t, s.Users().SetEmailVerificationToken(ctx, live.ID, "v-new", now.Add(time.Hour)))

	n, err := s.Users().ClearExpiredTemporaryTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	got, err := s.Users().GetUserByID(ctx, expired.ID)
	require.NoError(t, err)
	require.Empty(t, got.EmailVerificationHash)
	require.Empty(t, got.PasswordResetHash)
	require.False(t, got.IsEmailVerified)

	got, err = s.Users().GetUserByID(ctx, live.ID)
	require.NoError(t, err)
	require.Equal(t, "v-new", got.EmailVerificationHash)
}

func TestWithTxRollback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		u := domain.User{ID: idx.New().String(), Email: "a@x.com", Username: "alice", Role: domain.RoleTenant, PasswordHash: "h"}
		require.NoError(t, tx.Users().CreateUser(ctx, u))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().GetUserByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		u := domain.User{ID: idx.New().String(), Email: "a@x.com", Username: "alice", Role: domain.RoleTenant, PasswordHash: "h"}
		return tx.Users().CreateUser(ctx, u)
	}))
	_, err = s.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
}
