package http

import (
	"errors"
	"net/http"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// toAPIError maps service errors onto the response taxonomy. Anything
// unrecognised is an internal error.
func toAPIError(err error) *httpx.APIError {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		out := httpx.ErrBadRequest.WithMessage("Received data is not valid")
		if len(verr.Problems) == 1 {
			out.Message = verr.Problems[0]
		}
		out.Errors = verr.Problems
		return out
	case errors.Is(err, service.ErrInvalidInput):
		return httpx.ErrBadRequest
	case errors.Is(err, service.ErrInvalidRole):
		return httpx.ErrBadRequest.WithMessage("Invalid user role")
	case errors.Is(err, service.ErrAlreadyVerified):
		return httpx.ErrBadRequest.WithMessage("Email is already verified")

	case errors.Is(err, service.ErrUnknownAccount):
		return httpx.ErrUnauthorized.WithMessage("User does not exist")
	case errors.Is(err, service.ErrInvalidCredentials):
		return httpx.ErrUnauthorized.WithMessage("Invalid Password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return httpx.ErrUnauthorized.WithMessage("Invalid refresh token")
	case errors.Is(err, service.ErrRefreshTokenExpired):
		return httpx.ErrUnauthorized.WithMessage("Refresh token expired")
	case errors.Is(err, service.ErrTokenInvalid), errors.Is(err, service.ErrTokenExpired):
		return httpx.ErrUnauthorized.WithMessage("Token is invalid or expired")

	case errors.Is(err, service.ErrUserNotFound):
		return httpx.ErrNotFound.WithMessage("User does not exist")
	case errors.Is(err, service.ErrConflict):
		return httpx.ErrConflict.WithMessage("User with email or username already exists")
	}
	return httpx.ErrInternal
}

// writeServiceError logs internal failures with the request logger and
// writes the mapped error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	httpx.WriteError(w, apiErr)
}

// currentUserID is only missing when a route forgot AuthnMiddleware.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.ErrUnauthorized)
	}
	return userID, ok
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		httpx.WriteError(w, httpx.ErrBadRequest.WithMessage("Malformed JSON body"))
		return false
	}
	return true
}
