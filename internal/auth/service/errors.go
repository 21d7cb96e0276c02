package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput    = errors.New("invalid_input")
	ErrInvalidRole     = errors.New("invalid_role")
	ErrAlreadyVerified = errors.New("already_verified")

	ErrUnknownAccount      = errors.New("unknown_account")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")
	ErrRefreshTokenExpired = errors.New("refresh_token_expired")
	ErrTokenInvalid        = errors.New("token_invalid")
	ErrTokenExpired        = errors.New("token_expired")

	ErrUserNotFound = errors.New("user_not_found")
	ErrConflict     = errors.New("conflict")
)

// ValidationError lists every problem found in a request. It matches
// ErrInvalidInput under errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid_input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// problems accumulates validation failures.
type problems []string

func (p *problems) add(msg string) { *p = append(*p, msg) }

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ValidationError{Problems: p}
}
