package jwtx

import (
	"time"

	"github.com/NallyTHEdude/TMS-Server/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Services override them from configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token use values carried in the "typ" claim. A refresh token presented as
// an access token (or the reverse) is rejected even if the signature checks
// out.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims are the JWT claims for both token kinds. Refresh tokens only carry
// the registered claims and TokenUse.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the subject: "admin", "landlord" or "tenant".
	Role string `json:"role,omitempty"`

	// Username for the authenticated user
	Username string `json:"username,omitempty"`

	TokenUse string `json:"typ"`
}

// NewAccessClaims builds the claims for a short lived access token.
func NewAccessClaims(subject, role, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Role:             role,
		Username:         username,
		TokenUse:         TokenUseAccess,
	}
}

// NewRefreshClaims builds the claims for a refresh token. It identifies the
// user and nothing else.
func NewRefreshClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		TokenUse:         TokenUseRefresh,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a ULID for the "jti" claim. IDs come from a monotonic
// source, so two tokens minted for the same user within the same second
// still differ.
func NewJTI() string {
	return idx.New().String()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTokenUse checks the "typ" claim.
func (c *Claims) ValidateTokenUse(expected string) error {
	if expected == "" {
		return nil
	}
	if c.TokenUse != expected {
		return ErrTokenUse
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry(now time.Time) error {
	return c.ValidateExpiryWithLeeway(now, 0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
