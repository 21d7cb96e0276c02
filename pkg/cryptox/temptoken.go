package cryptox

import (
	"time"
)

// DefaultTemporaryTokenTTL is how long an emailed verification or reset
// token stays redeemable.
const DefaultTemporaryTokenTTL = 20 * time.Minute

// TokenStatus is the outcome of checking a presented temporary token.
type TokenStatus int

const (
	TokenInvalid TokenStatus = iota
	TokenExpired
	TokenValid
)

func (s TokenStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}

// TemporaryToken is a freshly minted one-time token. Plaintext goes out by
// email and is never persisted; Digest and ExpiresAt are what get stored.
type TemporaryToken struct {
	Plaintext string
	Digest    string
	ExpiresAt time.Time
}

// TemporaryTokenCodec mints and checks one-time tokens used for email
// verification and password reset. Both purposes share the hash function, so
// callers must keep each kind in its own storage fields.
type TemporaryTokenCodec struct {
	TTL time.Duration
}

// NewTemporaryTokenCodec returns a codec with the given TTL, falling back to
// DefaultTemporaryTokenTTL when ttl is not positive.
func NewTemporaryTokenCodec(ttl time.Duration) TemporaryTokenCodec {
	if ttl <= 0 {
		ttl = DefaultTemporaryTokenTTL
	}
	return TemporaryTokenCodec{TTL: ttl}
}

// Generate mints a new token that expires TTL after now.
func (c TemporaryTokenCodec) Generate(now time.Time) (TemporaryToken, error) {
	plain, err := GenerateToken(TokenSize256)
	if err != nil {
		return TemporaryToken{}, err
	}

	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTemporaryTokenTTL
	}

	return TemporaryToken{
		Plaintext: plain,
		Digest:    FingerprintToken(plain),
		ExpiresAt: now.Add(ttl).UTC(),
	}, nil
}

// Check compares a presented plaintext against the stored digest and expiry.
// A missing digest or expiry means nothing is outstanding and is reported as
// invalid. On TokenValid the caller must clear both stored fields.
func (c TemporaryTokenCodec) Check(plaintext, digest string, expiresAt *time.Time, now time.Time) TokenStatus {
	if plaintext == "" || expiresAt == nil {
		return TokenInvalid
	}
	if !FingerprintMatches(plaintext, digest) {
		return TokenInvalid
	}
	if !now.Before(*expiresAt) {
		return TokenExpired
	}
	return TokenValid
}
