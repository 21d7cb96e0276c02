package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryBuffer refreshes a little before the access token actually expires.
const expiryBuffer = 30 * time.Second

// Session holds a logged in user's tokens and refreshes the access token
// when it is about to expire. It is safe for concurrent use.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	user         User
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func newSession(c *SDKClient, u User, accessToken, refreshToken string) *Session {
	s := &Session{client: c, user: u}
	s.setTokens(accessToken, refreshToken)
	return s
}

// setTokens must be called with mu held for writing, or before s is shared.
func (s *Session) setTokens(accessToken, refreshToken string) {
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.expiresAt = accessTokenExpiry(accessToken).Add(-expiryBuffer)
}

// accessTokenExpiry reads exp without checking the signature; the SDK has no
// key and only uses it to schedule refreshes.
func accessTokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// User returns the account the session was opened for.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh rotates the token pair now.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return errors.New("authsdk: no refresh token available")
	}
	pair, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return err
	}
	s.setTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// getValidToken returns a usable access token, refreshing first if needed.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// another goroutine may have refreshed already
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

func (s *Session) do(ctx context.Context, method, path string, body, target any, expected int) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}
	resp, err := s.client.doRequest(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, target, expected)
}

// Profile returns the current user as the server sees it.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/api/v1/users/profile", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = out.User
	s.mu.Unlock()
	return &out.User, nil
}

// GetUser looks up any account by id. Admin only.
func (s *Session) GetUser(ctx context.Context, id string) (*User, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/api/v1/admin/users/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ResendVerification mails a fresh verification link.
func (s *Session) ResendVerification(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/api/v1/auth/resend-email-verification", nil, nil, http.StatusOK)
}

// ChangePassword replaces the password. The session stays valid.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	req := ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	return s.do(ctx, http.MethodPost, "/api/v1/auth/change-password", req, nil, http.StatusOK)
}

// Logout ends the session on the server and forgets the tokens locally.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	return nil
}
