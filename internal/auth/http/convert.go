package http

import (
	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/pkg/authsdk"
)

func toSDKUser(u domain.User) authsdk.User {
	p := u.Public()
	return authsdk.User{
		ID:              p.ID,
		Email:           p.Email,
		Username:        p.Username,
		FullName:        p.FullName,
		Role:            p.Role.String(),
		IsEmailVerified: p.IsEmailVerified,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
