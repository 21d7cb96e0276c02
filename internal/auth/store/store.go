package store

import (
	"context"
	"errors"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it as methods so a Tx-scoped store
// can hand out the same repositories bound to the transaction, and nested
// transactions are impossible to start by accident.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Inside fn only
	// the tx argument may be used.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the account repository. Lookups return ErrNotFound when nothing
// matches. Conditional updates (the ones taking an expected digest) return
// ErrNotFound when the row no longer holds that digest, which is how a
// consumed or rotated token shows up.
type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already lowercased email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ExistsByEmailOrUsername reports whether either value is taken.
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a unique violation.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByEmailVerificationHash(ctx context.Context, hash string) (domain.User, error)
	GetUserByPasswordResetHash(ctx context.Context, hash string) (domain.User, error)

	// SetEmailVerificationToken replaces any outstanding verification token.
	SetEmailVerificationToken(ctx context.Context, userID, hash string, expiresAt time.Time) error

	// MarkEmailVerified flips is_email_verified and clears the verification
	// fields, but only while the row still holds expectedHash.
	MarkEmailVerified(ctx context.Context, userID, expectedHash string) error

	// SetPasswordResetToken replaces any outstanding reset token.
	SetPasswordResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error

	// ResetPassword sets the new password hash, clears the reset fields and
	// the refresh binding, but only while the row still holds expectedHash.
	ResetPassword(ctx context.Context, userID, expectedHash, newPasswordHash string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// SetRefreshTokenHash unconditionally binds a new refresh token.
	SetRefreshTokenHash(ctx context.Context, userID, hash string) error

	// SwapRefreshTokenHash replaces oldHash with newHash and reports whether
	// the row still held oldHash. At most one of several concurrent swaps
	// from the same oldHash succeeds.
	SwapRefreshTokenHash(ctx context.Context, userID, oldHash, newHash string) (bool, error)

	// ClearRefreshTokenHash ends the session.
	ClearRefreshTokenHash(ctx context.Context, userID string) error

	// ClearExpiredTemporaryTokens drops verification and reset digests whose
	// expiry is at or before now and returns how many rows changed.
	ClearExpiredTemporaryTokens(ctx context.Context, now time.Time) (int64, error)
}
