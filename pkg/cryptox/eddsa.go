package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// GenerateEd25519Key returns a fresh Ed25519 private key as PKCS8 PEM.
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// LoadEd25519Key reads a PKCS8 PEM Ed25519 private key from path. An empty
// path yields a freshly generated key and ephemeral set to true.
func LoadEd25519Key(path string) (pemKey []byte, ephemeral bool, err error) {
	if path == "" {
		pemKey, err = GenerateEd25519Key()
		return pemKey, true, err
	}

	pemKey, err = os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, false, fmt.Errorf("cryptox: read signing key: %w", err)
	}
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, false, errors.New("cryptox: signing key is not PEM")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, false, fmt.Errorf("cryptox: parse signing key: %w", err)
	}
	if _, ok := key.(ed25519.PrivateKey); !ok {
		return nil, false, errors.New("cryptox: signing key is not Ed25519")
	}
	return pemKey, false, nil
}
