package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
)

type LoginHandler struct {
	SessionService *service.SessionService
	Cookies        CookieOptions
}

// ServeHTTP handles password login.
//
//	@Summary		Log in
//	@Description	Checks email and password, sets the accessToken and refreshToken cookies and returns both tokens in the body.
//	@Description	Any earlier session of the same user stops refreshing.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest					true	"Credentials"
//	@Success		200		{object}	authsdk.Envelope[authsdk.LoginResponse]	"User logged in successfully"
//	@Failure		400		{object}	authsdk.ErrorResponse					"Missing email or password"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Unknown account or wrong password"
//	@Failure		500		{object}	authsdk.ErrorResponse					"Internal server error"
//	@Router			/api/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.SessionService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setTokens(w, res.Tokens)
	httpx.WriteSuccess(w, http.StatusOK, authsdk.LoginResponse{
		User:         toSDKUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged in successfully")
}

type LogoutHandler struct {
	SessionService *service.SessionService
	Cookies        CookieOptions
}

// ServeHTTP handles logout.
//
//	@Summary		Log out
//	@Description	Drops the refresh binding and clears both token cookies. Outstanding access tokens stay valid until they expire.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope[any]	"User logged out successfully"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	err := h.SessionService.Logout(r.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrUserNotFound) {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.clearTokens(w)
	httpx.WriteSuccess(w, http.StatusOK, nil, "User logged out successfully")
}

type RefreshHandler struct {
	SessionService *service.SessionService
	Cookies        CookieOptions
}

// ServeHTTP handles refresh token rotation.
//
//	@Summary		Rotate tokens
//	@Description	Exchanges the refresh token (refreshToken cookie, or refreshToken in the JSON body) for a new pair.
//	@Description	The presented refresh token is spent; replaying it fails with 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest						false	"Refresh token when not sent as a cookie"
//	@Success		200		{object}	authsdk.Envelope[authsdk.TokensResponse]	"Access token refreshed successfully"
//	@Failure		401		{object}	authsdk.ErrorResponse						"Missing, invalid or already used refresh token"
//	@Failure		500		{object}	authsdk.ErrorResponse						"Internal server error"
//	@Router			/api/v1/auth/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	presented, ok := refreshTokenFromRequest(w, r)
	if !ok {
		return
	}
	if presented == "" {
		httpx.WriteError(w, httpx.ErrUnauthorized.WithMessage("Unauthorized Access"))
		return
	}

	pair, err := h.SessionService.Rotate(r.Context(), presented)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.setTokens(w, pair)
	httpx.WriteSuccess(w, http.StatusOK, authsdk.TokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed successfully")
}

// refreshTokenFromRequest prefers the cookie. The body is optional, so an
// empty one is not an error.
func refreshTokenFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}

	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", true
		}
		httpx.WriteError(w, httpx.ErrBadRequest.WithMessage("Malformed JSON body"))
		return "", false
	}
	return strings.TrimSpace(req.RefreshToken), true
}
