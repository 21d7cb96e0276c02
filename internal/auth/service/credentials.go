package service

import (
	"context"
	"errors"

	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"
)

// passwordMatches reduces the hasher's verdict to a bool. A malformed stored
// hash counts as a mismatch but is logged, since it points at bad data.
func passwordMatches(ctx context.Context, h *cryptox.PasswordHasher, userID, plain, hash string) bool {
	err := h.Verify(plain, hash)
	if err == nil {
		return true
	}
	if errors.Is(err, cryptox.ErrMalformedHash) {
		slogx.FromContext(ctx).Error("stored password hash is malformed", "user_id", userID)
	}
	return false
}
