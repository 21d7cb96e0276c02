package domain

import "time"

// User is the account record. Only digests of emailed tokens and of the live
// refresh token are kept; plaintexts never reach storage.
type User struct {
	ID           string
	Email        string // unique, lowercase
	Username     string // unique, lowercase
	FullName     string
	Role         Role
	PasswordHash string // argon2id PHC string

	IsEmailVerified         bool
	EmailVerificationHash   string
	EmailVerificationExpiry *time.Time

	PasswordResetHash   string
	PasswordResetExpiry *time.Time

	// RefreshTokenHash binds the single live refresh token. Empty means no
	// active session.
	RefreshTokenHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is what clients get to see of a User.
type PublicUser struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName,omitempty"`
	Role            Role      `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FullName:        u.FullName,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
