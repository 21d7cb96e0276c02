package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the Postgres driver, talking to the server through pgx's
// database/sql adapter.
type Store struct {
	db *sql.DB
}

// NewStore opens a pool for dsn and checks the server is reachable.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error                  { return t.tx.Commit() }
func (t *txStore) Rollback() error                { return t.tx.Rollback() }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Users() store.Users             { return &usersRepo{db: t.tx} }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

type userRow struct {
	ID                      string
	Email                   string
	Username                string
	FullName                string
	Role                    string
	PasswordHash            string
	IsEmailVerified         bool
	EmailVerificationHash   sql.NullString
	EmailVerificationExpiry sql.NullTime
	PasswordResetHash       sql.NullString
	PasswordResetExpiry     sql.NullTime
	RefreshTokenHash        sql.NullString
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (r *userRow) dest() []any {
	return []any{
		&r.ID, &r.Email, &r.Username, &r.FullName, &r.Role, &r.PasswordHash,
		&r.IsEmailVerified,
		&r.EmailVerificationHash, &r.EmailVerificationExpiry,
		&r.PasswordResetHash, &r.PasswordResetExpiry,
		&r.RefreshTokenHash,
		&r.CreatedAt, &r.UpdatedAt,
	}
}

func (r userRow) user() domain.User {
	return domain.User{
		ID:                      r.ID,
		Email:                   r.Email,
		Username:                r.Username,
		FullName:                r.FullName,
		Role:                    domain.Role(r.Role),
		PasswordHash:            r.PasswordHash,
		IsEmailVerified:         r.IsEmailVerified,
		EmailVerificationHash:   r.EmailVerificationHash.String,
		EmailVerificationExpiry: nullTimePtr(r.EmailVerificationExpiry),
		PasswordResetHash:       r.PasswordResetHash.String,
		PasswordResetExpiry:     nullTimePtr(r.PasswordResetExpiry),
		RefreshTokenHash:        r.RefreshTokenHash.String,
		CreatedAt:               r.CreatedAt.UTC(),
		UpdatedAt:               r.UpdatedAt.UTC(),
	}
}
