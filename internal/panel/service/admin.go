package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
	"github.com/aussiebroadwan/xpanel/pkg/idx"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// MinPasswordLength is the shortest admin password Create accepts.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAdminExists        = errors.New("admin already exists")
	ErrInvalidAdmin       = errors.New("invalid admin")
)

type AdminService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// NewAdmin is the input to AdminService.Create.
type NewAdmin struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Role      string     `json:"role"`
	PanelName string     `json:"panel"`
	InboundID int        `json:"inbound_id"`
	Flow      string     `json:"flow"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Authenticate checks a username and password pair. Unknown, inactive and
// expired admins all fail with ErrInvalidCredentials.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (domain.Admin, error) {
	l := slogx.FromContext(ctx)

	admin, err := s.Store.Admins().GetAdminByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Admin{}, ErrInvalidCredentials
		}
		return domain.Admin{}, err
	}

	if err := s.Hasher.Verify(password, admin.PasswordHash); err != nil {
		l.Info("admin password rejected", slog.String("username", admin.Username))
		return domain.Admin{}, ErrInvalidCredentials
	}
	if !admin.Usable(time.Now()) {
		l.Info("inactive admin attempted login", slog.String("username", admin.Username))
		return domain.Admin{}, ErrInvalidCredentials
	}

	return admin, nil
}

// Create validates in and stores a new active admin.
func (s *AdminService) Create(ctx context.Context, in NewAdmin) (domain.Admin, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return domain.Admin{}, fmt.Errorf("%w: username is required", ErrInvalidAdmin)
	}
	if len(in.Password) < MinPasswordLength {
		return domain.Admin{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidAdmin, MinPasswordLength)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("%w: %v", ErrInvalidAdmin, err)
	}
	panelName := strings.TrimSpace(in.PanelName)
	if role == domain.RoleAdmin && (panelName == "" || in.InboundID <= 0) {
		return domain.Admin{}, fmt.Errorf("%w: admins need a panel and an inbound id", ErrInvalidAdmin)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := domain.Admin{
		ID:           idx.NewKind(idx.KindAdmin).String(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		PanelName:    panelName,
		InboundID:    in.InboundID,
		Flow:         strings.TrimSpace(in.Flow),
		IsActive:     true,
		ExpiresAt:    in.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.Admins().CreateAdmin(ctx, admin)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Admin{}, ErrAdminExists
	case errors.Is(err, store.ErrNotFound):
		return domain.Admin{}, fmt.Errorf("%w: %s", ErrPanelNotFound, panelName)
	case err != nil:
		return domain.Admin{}, err
	}

	slogx.FromContext(ctx).Info("admin created",
		slog.String("admin_id", admin.ID),
		slog.String("username", admin.Username),
		slog.String("role", string(admin.Role)),
	)
	return admin, nil
}

// List returns every admin ordered by username.
func (s *AdminService) List(ctx context.Context) ([]domain.Admin, error) {
	return s.Store.Admins().ListAdmins(ctx)
}

// Delete removes the admin named username.
func (s *AdminService) Delete(ctx context.Context, username string) error {
	if err := s.Store.Admins().DeleteAdmin(ctx, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAdminNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("admin deleted", slog.String("username", username))
	return nil
}

// Bootstrap creates the first superadmin when the admin table is empty. When
// password is empty one is generated and returned so it can be shown once.
// It reports created=false when admins already exist.
func (s *AdminService) Bootstrap(ctx context.Context, username, password string) (generated string, created bool, err error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Admins().IsEmpty(ctx)
	if err != nil {
		return "", false, err
	}
	if !empty {
		l.Debug("bootstrap skipped, admins already exist")
		return "", false, nil
	}

	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return "", false, fmt.Errorf("generate bootstrap password: %w", err)
		}
		generated = password
	}

	admin, err := s.Create(ctx, NewAdmin{
		Username: username,
		Password: password,
		Role:     string(domain.RoleSuperadmin),
	})
	if err != nil {
		return "", false, fmt.Errorf("bootstrap superadmin: %w", err)
	}

	l.Info("bootstrapped superadmin", slog.String("username", admin.Username))
	return generated, true, nil
}
