package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrCreatePepper reads the password pepper from path, creating the file
// with a fresh random pepper when it does not exist yet.
func LoadOrCreatePepper(path string) (string, error) {
	b, err := loadOrCreateSecretFile(path, keyLength)
	if err != nil {
		return "", fmt.Errorf("cryptox: pepper: %w", err)
	}
	return string(b), nil
}

// loadOrCreateSecretFile returns the trimmed contents of path. A missing
// file is created holding size random bytes, base64url encoded.
func loadOrCreateSecretFile(path string, size int) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, fmt.Errorf("%s is empty", path)
		}
		return data, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	encoded := []byte(base64.RawURLEncoding.EncodeToString(raw))
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return nil, err
	}
	return encoded, nil
}
