package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NallyTHEdude/TMS-Server/pkg/cryptox"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
)

// tokenKeys holds the signers and verifiers for both token kinds.
type tokenKeys struct {
	accessSigner    jwtx.Signer
	refreshSigner   jwtx.Signer
	accessVerifier  jwtx.Verifier
	refreshVerifier jwtx.Verifier
}

// loadTokenKeys builds HS256 signers and verifiers from the configured
// secrets. Outside prod a missing secret is replaced by a random one, which
// means every restart logs all users out.
func loadTokenKeys(cfg Config, logger *slog.Logger) (*tokenKeys, error) {
	access, err := secretOrEphemeral("AUTH_ACCESS_TOKEN_SECRET", cfg.AccessTokenSecret, cfg, logger)
	if err != nil {
		return nil, err
	}
	refresh, err := secretOrEphemeral("AUTH_REFRESH_TOKEN_SECRET", cfg.RefreshTokenSecret, cfg, logger)
	if err != nil {
		return nil, err
	}

	keys := &tokenKeys{}
	if keys.accessSigner, err = jwtx.NewSignerHS256(access); err != nil {
		return nil, fmt.Errorf("access token signer: %w", err)
	}
	if keys.refreshSigner, err = jwtx.NewSignerHS256(refresh); err != nil {
		return nil, fmt.Errorf("refresh token signer: %w", err)
	}

	keys.accessVerifier, err = jwtx.NewVerifierHS256(access, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		TokenUse: jwtx.TokenUseAccess,
		Leeway:   30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("access token verifier: %w", err)
	}
	keys.refreshVerifier, err = jwtx.NewVerifierHS256(refresh, jwtx.VerifyOptions{
		Issuer:   cfg.Issuer,
		TokenUse: jwtx.TokenUseRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("refresh token verifier: %w", err)
	}

	return keys, nil
}

func secretOrEphemeral(name, value string, cfg Config, logger *slog.Logger) ([]byte, error) {
	if value != "" {
		return []byte(value), nil
	}
	if cfg.IsProd() {
		return nil, fmt.Errorf("%s is required in prod", name)
	}

	generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", name, err)
	}
	logger.Warn("token secret not set, using an ephemeral one", "env", name)
	return []byte(generated), nil
}
