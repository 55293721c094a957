package domain

import "time"

// Panel is a remote 3x-ui or tx-ui instance admins are bound to.
type Panel struct {
	ID         string
	Name       string
	Type       string // panelsdk flavor, "3x-ui" or "tx-ui"
	URL        string // normalized, trailing "/"
	SubURL     string // public subscription base, optional
	Username   string
	Password   string // plaintext in memory, sealed at rest
	TOTPSecret string // base32, empty when the panel has no 2FA
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
