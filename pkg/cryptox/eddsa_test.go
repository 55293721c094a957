package cryptox_test

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
)

func TestGenerateEd25519Key(t *testing.T) {
	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	require.Equal(t, "PRIVATE KEY", block.Type)

	keyInterface, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)

	key, ok := keyInterface.(ed25519.PrivateKey)
	require.True(t, ok)
	require.Len(t, key, ed25519.PrivateKeySize)
}

func TestLoadEd25519Key(t *testing.T) {
	t.Run("empty path is ephemeral", func(t *testing.T) {
		key, ephemeral, err := cryptox.LoadEd25519Key("")
		require.NoError(t, err)
		require.True(t, ephemeral)
		require.NotEmpty(t, key)
	})

	t.Run("reads a pkcs8 file", func(t *testing.T) {
		want, err := cryptox.GenerateEd25519Key()
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "jwt.pem")
		require.NoError(t, os.WriteFile(path, want, 0o600))

		got, ephemeral, err := cryptox.LoadEd25519Key(path)
		require.NoError(t, err)
		require.False(t, ephemeral)
		require.Equal(t, want, got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jwt.pem")
		require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

		_, _, err := cryptox.LoadEd25519Key(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := cryptox.LoadEd25519Key(filepath.Join(t.TempDir(), "absent.pem"))
		require.Error(t, err)
	})
}
