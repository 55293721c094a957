package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.DatabaseFile = filepath.Join(dir, "panel.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.MasterKeyFile = filepath.Join(dir, "master.key")
	cfg.BootstrapPassword = "correct-horse-battery"
	cfg.LogLevel = "error"
	return cfg
}

func TestNew_BootstrapsSuperadmin(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(cfg)
	require.NoError(t, err)

	admin, err := application.adminService.Authenticate(context.Background(), "admin", "correct-horse-battery")
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperadmin, admin.Role)

	rec := httptest.NewRecorder()
	application.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	application.housekeepingService.Start()
	require.NoError(t, application.Shutdown())

	// A restart against the same files keeps the admin and creates no other.
	application, err = New(cfg)
	require.NoError(t, err)

	admins, err := application.adminService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)

	application.housekeepingService.Start()
	require.NoError(t, application.Shutdown())
}
