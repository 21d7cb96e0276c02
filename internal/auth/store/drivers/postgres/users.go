package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
)

const userColumns = `id, email, username, full_name, role, password_hash,
	is_email_verified,
	email_verification_hash, email_verification_expiry,
	password_reset_hash, password_reset_expiry,
	refresh_token_hash,
	created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	var row userRow
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg).Scan(row.dest()...)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return row.user(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *usersRepo) GetUserByEmailVerificationHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getOne(ctx, `email_verification_hash = $1`, hash)
}

func (r *usersRepo) GetUserByPasswordResetHash(ctx context.Context, hash string) (domain.User, error) {
	if hash == "" {
		return domain.User{}, store.ErrNotFound
	}
	return r.getOne(ctx, `password_reset_hash = $1`, hash)
}

func (r *usersRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		email, username,
	).Scan(&exists)
	return exists, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	var verifyExpiry any
	if u.EmailVerificationExpiry != nil {
		verifyExpiry = u.EmailVerificationExpiry.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, username, full_name, role, password_hash,
			is_email_verified,
			email_verification_hash, email_verification_expiry
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.Username, u.FullName, string(u.Role), u.PasswordHash,
		u.IsEmailVerified,
		nullString(u.EmailVerificationHash), verifyExpiry,
	)
	return mapConstraint(err)
}

func (r *usersRepo) SetEmailVerificationToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET email_verification_hash = $1, email_verification_expiry = $2, updated_at = now()
		WHERE id = $3`,
		hash, expiresAt.UTC(), userID,
	)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID, expectedHash string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET is_email_verified = TRUE,
		    email_verification_hash = NULL,
		    email_verification_expiry = NULL,
		    updated_at = now()
		WHERE id = $1 AND email_verification_hash = $2`,
		userID, expectedHash,
	)
}

func (r *usersRepo) SetPasswordResetToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE users
		SET password_reset_hash = $1, password_reset_expiry = $2, updated_at = now()
		WHERE id = $3`,
		hash, expiresAt.UTC(), userID,
	)
}

func (r *usersRepo) ResetPassword(ctx context.Context, userID, expectedHash, newPasswordHash string) error {
	return r.execOne(ctx, `
		UPDATE users
		SET password_hash = $1,
		    password_reset_hash = NULL,
		    password_reset_expiry = NULL,
		    refresh_token_hash = NULL,
		    updated_at = now()
		WHERE id = $2 AND password_reset_hash = $3`,
		newPasswordHash, userID, expectedHash,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHash, userID,
	)
}

func (r *usersRepo) SetRefreshTokenHash(ctx context.Context, userID, hash string) error {
	return r.execOne(ctx,
		`UPDATE users SET refresh_token_hash = $1, updated_at = now() WHERE id = $2`,
		nullString(hash), userID,
	)
}

func (r *usersRepo) SwapRefreshTokenHash(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	if oldHash == "" {
		return false, nil
	}
	err := r.execOne(ctx, `
		UPDATE users
		SET refresh_token_hash = $1, updated_at = now()
		WHERE id = $2 AND refresh_token_hash = $3`,
		newHash, userID, oldHash,
	)
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
	return r.execOne(ctx,
		`UPDATE users SET refresh_token_hash = NULL, updated_at = now() WHERE id = $1`,
		userID,
	)
}

func (r *usersRepo) ClearExpiredTemporaryTokens(ctx context.Context, at time.Time) (int64, error) {
	var total int64
	for _, q := range []string{
		`UPDATE users
		 SET email_verification_hash = NULL, email_verification_expiry = NULL
		 WHERE email_verification_expiry IS NOT NULL AND email_verification_expiry <= $1`,
		`UPDATE users
		 SET password_reset_hash = NULL, password_reset_expiry = NULL
		 WHERE password_reset_expiry IS NOT NULL AND password_reset_expiry <= $1`,
	} {
		res, err := r.db.ExecContext(ctx, q, at.UTC())
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (r *usersRepo) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
