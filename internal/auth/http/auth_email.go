package http

import (
	"net/http"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
)

type VerifyEmailHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP redeems an email verification token.
//
//	@Summary		Verify email
//	@Description	Redeems the token from the verification email. Tokens are single use and expire after 20 minutes.
//	@Tags			Auth
//	@Produce		json
//	@Param			verificationToken	path		string										true	"Token from the email link"
//	@Success		200					{object}	authsdk.Envelope[authsdk.VerifyEmailResponse]	"Email verified successfully"
//	@Failure		400					{object}	authsdk.ErrorResponse						"Missing token"
//	@Failure		401					{object}	authsdk.ErrorResponse						"Token is invalid or expired"
//	@Router			/api/v1/auth/verify-email/{verificationToken} [get].
func (h *VerifyEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("verificationToken")

	if err := h.AccountService.VerifyEmail(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK,
		authsdk.VerifyEmailResponse{IsEmailVerified: true},
		"Email verified successfully",
	)
}

type ResendVerificationHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP mails a fresh verification link to the logged in user.
//
//	@Summary		Resend verification email
//	@Description	Replaces any outstanding verification token and mails a new link.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope[any]	"Email verification link resent successfully"
//	@Failure		400	{object}	authsdk.ErrorResponse	"Email is already verified"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"User does not exist"
//	@Router			/api/v1/auth/resend-email-verification [post].
func (h *ResendVerificationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.AccountService.ResendVerification(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "Email verification link resent successfully")
}
