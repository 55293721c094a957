package service

import (
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/pkg/jwtx"
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	Scopes      []string `json:"scopes"`
}

type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Issue signs an access token carrying the scopes of the admin's role.
func (s *TokenService) Issue(admin domain.Admin) (*TokenPair, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	scopes := admin.Role.Scopes()
	claims := jwtx.NewAdminClaims(jwtx.AdminClaims{
		Subject:  admin.ID,
		Username: admin.Username,
		Role:     string(admin.Role),
		Panel:    admin.PanelName,
		Scopes:   scopes,
	}, s.Issuer, ttl, time.Now().UTC())

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Scopes:      scopes,
	}, nil
}
