package http

import (
	"errors"
	"net/http"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
)

type ForgotPasswordHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP starts a password reset.
//
//	@Summary		Request a password reset
//	@Description	Mails a reset link valid for 20 minutes.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	authsdk.Envelope[any]			"Password Reset mail has been sent on your mail id"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Invalid email"
//	@Failure		404		{object}	authsdk.ErrorResponse			"User Not Found"
//	@Router			/api/v1/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.AccountService.ForgotPassword(r.Context(), req.Email)
	if errors.Is(err, service.ErrUserNotFound) {
		httpx.WriteError(w, httpx.ErrNotFound.WithMessage("User Not Found"))
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "Password Reset mail has been sent on your mail id")
}

type ResetPasswordHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP redeems a password reset token.
//
//	@Summary		Reset password
//	@Description	Sets a new password using the token from the reset email. Also ends the user's live session.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			resetToken	path		string							true	"Token from the email link"
//	@Param			request		body		authsdk.ResetPasswordRequest	true	"New password"
//	@Success		200			{object}	authsdk.Envelope[any]			"Password reset successfully"
//	@Failure		400			{object}	authsdk.ErrorResponse			"Invalid new password"
//	@Failure		401			{object}	authsdk.ErrorResponse			"Token is invalid or expired"
//	@Router			/api/v1/auth/reset-password/{resetToken} [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.AccountService.ResetPassword(r.Context(), r.PathValue("resetToken"), req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "Password reset successfully")
}

type ChangePasswordHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP changes the logged in user's password.
//
//	@Summary		Change password
//	@Description	Replaces the password after checking the old one. The current session stays valid.
//	@Tags			Password
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ChangePasswordRequest	true	"Old and new password"
//	@Success		200		{object}	authsdk.Envelope[any]			"Password changed successfully"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Invalid input"
//	@Failure		401		{object}	authsdk.ErrorResponse			"Invalid Old Password, or invalid access token"
//	@Router			/api/v1/auth/change-password [post].
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req authsdk.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.AccountService.ChangePassword(r.Context(), userID, service.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.WriteError(w, httpx.ErrUnauthorized.WithMessage("Invalid Old Password"))
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "Password changed successfully")
}
