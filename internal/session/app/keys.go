package app

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/doormanhq/doorman/pkg/cryptox"
	"github.com/doormanhq/doorman/pkg/jwtx"
)

// InitSessionKeys loads the Ed25519 signing key from cfg.KeyFile, generating
// and persisting a fresh key on first run. The key is kept on disk so session
// tokens survive service restarts.
//
// The key identifier is derived from the public key, which keeps the kid
// stable across restarts without storing it separately.
func InitSessionKeys(cfg Config, logger *slog.Logger) (*jwtx.EdDSASigner, *jwtx.KeySet, error) {
	pemKey, err := os.ReadFile(cfg.KeyFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no signing key found, generating one", "path", cfg.KeyFile)

		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		if err := os.WriteFile(cfg.KeyFile, pemKey, 0o600); err != nil {
			return nil, nil, fmt.Errorf("failed to persist signing key: %w", err)
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	// Parse once with a placeholder kid to recover the public key, then
	// build the real signer with the derived identifier.
	probe, err := jwtx.NewSignerEdDSA("probe", pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse signing key: %w", err)
	}

	kid := deriveKID(probe.Public())
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	logger.Info("signing key loaded", "kid", kid, "issuer", cfg.Issuer)
	return signer, keys, nil
}

// deriveKID returns a short stable identifier for a public key.
func deriveKID(pub []byte) string {
	sum := sha256.Sum256(pub)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
