package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of an admin access token when the
// service does not configure one.
const DefaultAccessTokenTTL = 30 * time.Minute

// Claims are the access-token claims issued to panel admins.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the admin the token was issued to.
	Username string `json:"username,omitempty"`

	// Role is "superadmin" or "admin".
	Role string `json:"role,omitempty"`

	// Permission Scopes "users:read", "panels:write"
	Scopes []string `json:"scopes,omitempty"`

	// Panel the admin is bound to. Empty for superadmins without a panel.
	Panel string `json:"panel,omitempty"`
}

// AdminClaims is the input to NewAdminClaims.
type AdminClaims struct {
	Subject  string
	Username string
	Role     string
	Panel    string
	Scopes   []string
}

// NewAdminClaims builds minimally-correct claims for an admin.
func NewAdminClaims(a AdminClaims, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   a.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username: a.Username,
		Role:     a.Role,
		Scopes:   a.Scopes,
		Panel:    a.Panel,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the token carries scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
