package service

import (
	"fmt"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
)

// TokenIssuer mints the access/refresh pair for a user. Access and refresh
// tokens are signed with different secrets.
type TokenIssuer struct {
	Access     jwtx.Signer
	Refresh    jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// Issue signs both tokens. Either both are returned or an error is.
func (i *TokenIssuer) Issue(u domain.User) (domain.TokenPair, error) {
	now := time.Now()
	if i.Now != nil {
		now = i.Now()
	}
	now = now.UTC()

	accessTTL := i.AccessTTL
	if accessTTL <= 0 {
		accessTTL = jwtx.DefaultAccessTokenTTL
	}
	refreshTTL := i.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = jwtx.DefaultRefreshTokenTTL
	}

	access, err := i.Access.Sign(jwtx.NewAccessClaims(u.ID, u.Role.String(), u.Username, i.Issuer, accessTTL, now))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := i.Refresh.Sign(jwtx.NewRefreshClaims(u.ID, i.Issuer, refreshTTL, now))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(accessTTL),
		RefreshExpiresAt: now.Add(refreshTTL),
	}, nil
}
