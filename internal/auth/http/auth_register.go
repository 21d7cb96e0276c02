package http

import (
	"net/http"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Description	Creates an unverified account and mails a verification link that is valid for 20 minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest								true	"Account details"
//	@Success		201		{object}	authsdk.Envelope[authsdk.UserResponse]				"User registered successfully"
//	@Failure		400		{object}	authsdk.ErrorResponse								"Invalid input or role"
//	@Failure		409		{object}	authsdk.ErrorResponse								"Email or username already taken"
//	@Failure		500		{object}	authsdk.ErrorResponse								"Internal server error"
//	@Router			/api/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated,
		authsdk.UserResponse{User: toSDKUser(user)},
		"User registered successfully and verification email has been sent on your email",
	)
}
