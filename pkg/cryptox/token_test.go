package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, token, 43)

	token2, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, token, token2, "tokens should be unique")
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestGenerateSubID(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		id, err := GenerateSubID()
		require.NoError(t, err)
		require.Len(t, id, SubIDLength)
		for _, c := range id {
			require.Contains(t, lowerDigits, string(c))
		}
		require.False(t, seen[id], "duplicate sub id")
		seen[id] = true
	}
}
