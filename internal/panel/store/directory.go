package store

import (
	"context"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
)

// Directory adapts a Store to the two lookups an admin task session needs.
type Directory struct {
	store Store
}

// NewDirectory returns a Directory reading from s.
func NewDirectory(s Store) *Directory {
	return &Directory{store: s}
}

// GetAdminByUsername returns the admin named username.
func (d *Directory) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	return d.store.Admins().GetAdminByUsername(ctx, username)
}

// GetPanelByName returns the panel registered as name.
func (d *Directory) GetPanelByName(ctx context.Context, name string) (domain.Panel, error) {
	return d.store.Panels().GetPanelByName(ctx, name)
}
