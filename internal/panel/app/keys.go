package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
	"github.com/aussiebroadwan/xpanel/pkg/idx"
	"github.com/aussiebroadwan/xpanel/pkg/jwtx"
)

// initSigningKey loads the Ed25519 key that signs admin access tokens.
//
// Without PANEL_JWT_KEY_FILE a key is generated on startup and held only in
// memory, so every issued token becomes invalid when the process restarts.
func initSigningKey(cfg Config, logger *slog.Logger) (jwtx.Signer, jwtx.Verifier, error) {
	pemKey, ephemeral, err := cryptox.LoadEd25519Key(cfg.JWTKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	kid := idx.New().String()
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create signer: %w", err)
	}

	if ephemeral {
		logger.Warn("using ephemeral signing key, tokens will not survive restarts", "kid", kid)
	} else {
		logger.Info("signing key loaded", "kid", kid, "path", cfg.JWTKeyFile)
	}

	return signer, jwtx.NewVerifierEdDSA(signer, cfg.Issuer), nil
}
