package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
	"github.com/aussiebroadwan/xpanel/pkg/jwtx"
)

const exampleIssuer = "https://panel.example.com"

func newSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func adminClaims(ttl time.Duration) jwtx.Claims {
	return jwtx.NewAdminClaims(jwtx.AdminClaims{
		Subject:  "adm_1",
		Username: "alice",
		Role:     "admin",
		Panel:    "de-1",
		Scopes:   []string{"users:read"},
	}, exampleIssuer, ttl, time.Now().UTC())
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	require.NoError(t, signer.Validate())
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "k1", signer.KID())

	claims := adminClaims(5 * time.Minute)
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "admin", got.Role)
	require.Equal(t, "de-1", got.Panel)
	require.ElementsMatch(t, claims.Scopes, got.Scopes)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(adminClaims(time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(signer, "someone-else").Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown kid", func(t *testing.T) {
		token, err := newSigner(t, "k2").Sign(adminClaims(time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("same kid other key", func(t *testing.T) {
		token, err := newSigner(t, "k1").Sign(adminClaims(time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(adminClaims(-time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("hmac token", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims(time.Minute))
		tok.Header["kid"] = "k1"
		raw, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(signer, exampleIssuer).Verify(raw)
		require.Error(t, err)
	})
}

func TestEdDSAInvalidKey(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("test", []byte("not-a-pem-key"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid PEM")
}
