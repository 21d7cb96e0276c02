package http

import (
	"net/http"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
)

// RefreshTokenCookie carries the refresh token; the access token cookie name
// lives in httpx next to the middleware that reads it.
const RefreshTokenCookie = "refreshToken"

// CookieOptions controls how token cookies are written. Secure is only
// turned off for plain-HTTP local development.
type CookieOptions struct {
	Secure bool
	Domain string
}

func (o CookieOptions) cookie(name, value string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		return c
	}
	c.Expires = expires
	c.MaxAge = int(time.Until(expires).Seconds())
	return c
}

func (o CookieOptions) setTokens(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, o.cookie(httpx.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt))
	http.SetCookie(w, o.cookie(RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt))
}

func (o CookieOptions) clearTokens(w http.ResponseWriter) {
	http.SetCookie(w, o.cookie(httpx.AccessTokenCookie, "", time.Time{}))
	http.SetCookie(w, o.cookie(RefreshTokenCookie, "", time.Time{}))
}
