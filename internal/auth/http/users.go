package http

import (
	"net/http"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
	"github.com/NallyTHEdude/TMS-Server/pkg/idx"
)

type ProfileHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP returns the logged in user.
//
//	@Summary		Current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Envelope[authsdk.UserResponse]	"Current user fetched successfully"
//	@Failure		401	{object}	authsdk.ErrorResponse					"Invalid or missing access token"
//	@Failure		404	{object}	authsdk.ErrorResponse					"User does not exist"
//	@Router			/api/v1/users/profile [get].
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.AccountService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, authsdk.UserResponse{User: toSDKUser(user)}, "Current user fetched successfully")
}

type AdminUserHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP looks up any user by id.
//
//	@Summary		Get user by id
//	@Description	Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string									true	"User id (ULID)"
//	@Success		200	{object}	authsdk.Envelope[authsdk.UserResponse]	"User fetched successfully"
//	@Failure		400	{object}	authsdk.ErrorResponse					"Malformed id"
//	@Failure		401	{object}	authsdk.ErrorResponse					"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse					"Caller is not an admin"
//	@Failure		404	{object}	authsdk.ErrorResponse					"User does not exist"
//	@Router			/api/v1/admin/users/{id} [get].
func (h *AdminUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, httpx.ErrBadRequest.WithMessage("Invalid user id"))
		return
	}

	user, err := h.AccountService.GetUser(r.Context(), id.String())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, authsdk.UserResponse{User: toSDKUser(user)}, "User fetched successfully")
}
