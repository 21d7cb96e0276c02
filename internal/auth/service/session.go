package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
	"github.com/NallyTHEdude/TMS-Server/pkg/mailer"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// SessionService owns login, refresh rotation and logout. A user has at most
// one live refresh token; its fingerprint sits on the user row.
type SessionService struct {
	Store           store.Store
	Hasher          *cryptox.PasswordHasher
	Issuer          *TokenIssuer
	RefreshVerifier jwtx.Verifier
	Mailer          mailer.Dispatcher
	Links           Links
}

type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the user plus the freshly issued pair.
type LoginResult struct {
	User   domain.User
	Tokens domain.TokenPair
}

// Login checks credentials, binds a new refresh token to the user and
// returns both tokens. Any earlier session is replaced.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := normaliseEmail(in.Email)
	password := normalisePassword(in.Password)

	var p problems
	if email == "" {
		p.add("Email is required to login")
	}
	if password == "" {
		p.add("Password is required")
	}
	if err := p.err(); err != nil {
		return LoginResult{}, err
	}

	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login for unknown account")
		return LoginResult{}, ErrUnknownAccount
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user: %w", err)
	}

	if !passwordMatches(ctx, s.Hasher, user.ID, password, user.PasswordHash) {
		log.Info("login with wrong password", "user_id", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.Issuer.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Store.Users().SetRefreshTokenHash(ctx, user.ID, cryptox.FingerprintToken(pair.RefreshToken)); err != nil {
		return LoginResult{}, fmt.Errorf("bind refresh token: %w", err)
	}
	user.RefreshTokenHash = cryptox.FingerprintToken(pair.RefreshToken)

	log.Info("user logged in", "user_id", user.ID)

	msg, renderErr := mailer.LoginNoticeEmail(user.Email, user.Username, s.Links.Logout())
	notify(ctx, s.Mailer, msg, renderErr)

	return LoginResult{User: user, Tokens: pair}, nil
}

// Rotate exchanges a refresh token for a new pair. The presented token must
// verify and must still be the one bound to its user. Of several concurrent
// rotations of the same token only one wins; the rest see
// ErrRefreshTokenExpired.
func (s *SessionService) Rotate(ctx context.Context, presented string) (domain.TokenPair, error) {
	if strings.TrimSpace(presented) == "" {
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}

	log := slogx.FromContext(ctx)

	claims, err := s.RefreshVerifier.Verify(presented)
	if err != nil {
		log.Info("refresh token rejected", "err", err)
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TokenPair{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if !cryptox.FingerprintMatches(presented, user.RefreshTokenHash) {
		log.Info("refresh token no longer bound", "user_id", user.ID)
		return domain.TokenPair{}, ErrRefreshTokenExpired
	}

	pair, err := s.Issuer.Issue(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	swapped, err := s.Store.Users().SwapRefreshTokenHash(ctx, user.ID,
		cryptox.FingerprintToken(presented), cryptox.FingerprintToken(pair.RefreshToken))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !swapped {
		log.Info("refresh token lost rotation race", "user_id", user.ID)
		return domain.TokenPair{}, ErrRefreshTokenExpired
	}

	return pair, nil
}

// Logout drops the user's refresh binding. Logging out twice is fine.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	err := s.Store.Users().ClearRefreshTokenHash(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	slogx.FromContext(ctx).Info("user logged out", "user_id", userID)
	return nil
}
