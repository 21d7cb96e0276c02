package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func now() time.Time { return time.Now().UTC() }

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmailVerificationHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByEmailVerificationHash(ctx, nullString(hash))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByPasswordResetHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	row, err := r.q.GetUserByPasswordResetHash(ctx, nullString(hash))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	n, err := r.q.CountUsersByEmailOrUsername(ctx, gen.CountUsersByEmailOrUsernameParams{
		Email:    email,
		Username: username,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = now()
	}
	updated := u.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                      u.ID,
		Email:                   u.Email,
		Username:                u.Username,
		FullName:                u.FullName,
		Role:                    string(u.Role),
		PasswordHash:            u.PasswordHash,
		IsEmailVerified:         u.IsEmailVerified,
		EmailVerificationHash:   nullString(u.EmailVerificationHash),
		EmailVerificationExpiry: nullTime(u.EmailVerificationExpiry),
		CreatedAt:               created.UTC(),
		UpdatedAt:               updated.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) SetEmailVerificationToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	return oneRow(r.q.SetEmailVerificationToken(ctx, gen.SetEmailVerificationTokenParams{
		EmailVerificationHash:   nullString(hash),
		EmailVerificationExpiry: nullTime(&expiresAt),
		UpdatedAt:               now(),
		ID:                      userID,
	}))
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID, expectedHash string) error {
	return oneRow(r.q.MarkEmailVerified(ctx, gen.MarkEmailVerifiedParams{
		UpdatedAt:             now(),
		ID:                    userID,
		EmailVerificationHash: nullString(expectedHash),
	}))
}

func (r *usersRepo) SetPasswordResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	return oneRow(r.q.SetPasswordResetToken(ctx, gen.SetPasswordResetTokenParams{
		PasswordResetHash:   nullString(hash),
		PasswordResetExpiry: nullTime(&expiresAt),
		UpdatedAt:           now(),
		ID:                  userID,
	}))
}

func (r *usersRepo) ResetPassword(ctx context.Context, userID, expectedHash, newPasswordHash string) error {
	return oneRow(r.q.ResetUserPassword(ctx, gen.ResetUserPasswordParams{
		PasswordHash:      newPasswordHash,
		UpdatedAt:         now(),
		ID:                userID,
		PasswordResetHash: nullString(expectedHash),
	}))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return oneRow(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    now(),
		ID:           userID,
	}))
}

func (r *usersRepo) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	return oneRow(r.q.SetRefreshTokenHash(ctx, gen.SetRefreshTokenHashParams{
		RefreshTokenHash: nullString(hash),
		UpdatedAt:        now(),
		ID:               userID,
	}))
}

func (r *usersRepo) SwapRefreshTokenHash(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	if oldHash == "" {
		return false, nil
	}
	err := oneRow(r.q.SwapRefreshTokenHash(ctx, gen.SwapRefreshTokenHashParams{
		RefreshTokenHash:   nullString(newHash),
		UpdatedAt:          now(),
		ID:                 userID,
		RefreshTokenHash_2: nullString(oldHash),
	}))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *usersRepo) ClearRefreshTokenHash(ctx context.Context, userID string) error {
	return oneRow(r.q.ClearRefreshTokenHash(ctx, gen.ClearRefreshTokenHashParams{
		UpdatedAt: now(),
		ID:        userID,
	}))
}

func (r *usersRepo) ClearExpiredTemporaryTokens(ctx context.Context, at time.Time) (int64, error) {
	cutoff := sql.NullTime{Time: at.UTC(), Valid: true}

	verified, err := r.q.ClearExpiredEmailVerificationTokens(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	reset, err := r.q.ClearExpiredPasswordResetTokens(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	return verified + reset, nil
}

// oneRow turns the row count of an UPDATE that must touch exactly one row
// into ErrNotFound when it touched none.
func oneRow(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
