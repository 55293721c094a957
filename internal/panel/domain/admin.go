package domain

import "time"

// Admin is a local operator scoped to one panel and one inbound.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded
	Role         Role
	PanelName    string // empty for superadmins without a binding
	InboundID    int
	Flow         string // optional flow override for clients created by this admin
	IsActive     bool
	ExpiresAt    *time.Time // nil = never
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Usable reports whether the admin may act at now.
func (a Admin) Usable(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	return a.ExpiresAt == nil || now.Before(*a.ExpiresAt)
}
