package domain

import "time"

// TokenPair is what login and refresh hand back: a short lived access token
// and the refresh token that is bound to the user record.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
