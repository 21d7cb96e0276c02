package httpx

import (
	"net/http"
	"strings"

	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// AccessTokenCookie is the cookie the access token is delivered in.
const AccessTokenCookie = "accessToken"

// AuthnMiddleware accepts the access token from the accessToken cookie or an
// Authorization: Bearer header, in that order. Verification is purely
// signature and claims based; no store lookup happens here.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := accessTokenFromRequest(r)
			if raw == "" {
				writeBearerError(w, "missing access token", ErrUnauthorized)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, "token verification failed", ErrUnauthorized.WithMessage("Invalid access token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAuth(ctx, claims)))
		})
	}
}

func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

// RFC 6750 challenge header plus the usual JSON envelope.
func writeBearerError(w http.ResponseWriter, desc string, apiErr *APIError) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, apiErr)
}
