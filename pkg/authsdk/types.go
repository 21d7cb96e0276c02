package authsdk

import "time"

// ============================================================================
// Envelope
// ============================================================================

// Envelope is the shape of every response body.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Data       T      `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ============================================================================
// Requests
// ============================================================================

// RegisterRequest creates a new account. Role is one of admin, landlord or
// tenant, case insensitive.
type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"hunter22"`
	FullName string `json:"fullName,omitempty" example:"Alice Smith"`
	Role     string `json:"role" example:"tenant"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"hunter22"`
}

// RefreshRequest carries the refresh token for clients that cannot send
// cookies. The refreshToken cookie wins when both are present.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" example:"correct-horse"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" example:"hunter22"`
	NewPassword string `json:"newPassword" example:"correct-horse"`
}

// ============================================================================
// Responses
// ============================================================================

// User is the public view of an account.
type User struct {
	ID              string    `json:"id" example:"01J9Z3NDEKTSV4RRFFQ69G5FAV"`
	Email           string    `json:"email" example:"alice@example.com"`
	Username        string    `json:"username" example:"alice"`
	FullName        string    `json:"fullName,omitempty" example:"Alice Smith"`
	Role            string    `json:"role" example:"tenant"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type UserResponse struct {
	User User `json:"user"`
}

type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type VerifyEmailResponse struct {
	IsEmailVerified bool `json:"isEmailVerified"`
}

// ErrorResponse documents the failure body. Data is always null.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode" example:"401"`
	Data       any      `json:"data"`
	Message    string   `json:"message" example:"Unauthorized request"`
	Success    bool     `json:"success" example:"false"`
	Errors     []string `json:"errors,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz; only readyz fills Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency as "ok" or "error: ...". MailQueue is
// only present when mail goes through Redis.
type HealthChecks struct {
	Database  string `json:"database"`
	MailQueue string `json:"mailQueue,omitempty"`
}
