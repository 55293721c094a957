package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrInUse         = errors.New("store: still referenced")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose one sub-repository per table.
type Store interface {
	Admins() Admins
	Panels() Panels

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Admins interface {
	// CreateAdmin inserts a new admin (id is provided by the app via idx).
	// A PanelName that matches no panel yields ErrNotFound.
	CreateAdmin(ctx context.Context, a domain.Admin) error

	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)

	// ListAdmins returns all admins ordered by username.
	ListAdmins(ctx context.Context) ([]domain.Admin, error)

	DeleteAdmin(ctx context.Context, username string) error

	// IsEmpty returns true if there are no admins.
	IsEmpty(ctx context.Context) (bool, error)
}

type Panels interface {
	// CreatePanel inserts a panel, sealing its secrets at rest.
	CreatePanel(ctx context.Context, p domain.Panel) error

	GetPanelByName(ctx context.Context, name string) (domain.Panel, error)

	// ListPanels returns all panels ordered by name.
	ListPanels(ctx context.Context) ([]domain.Panel, error)

	// DeletePanel fails with ErrInUse while admins are bound to the panel.
	DeletePanel(ctx context.Context, name string) error
}
