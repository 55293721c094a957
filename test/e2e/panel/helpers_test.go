package panel_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/internal/panel/app"
)

/*
 * Common constants and helper functions for control plane end-to-end tests.
 * The application runs in-process behind a real HTTP listener, and panels are
 * played by panelsdktest fakes.
 */

const (
	rootUsername = "root"
	rootPassword = "Root-Pass-123"
)

// setupApp starts the full application against files in a temp dir and
// returns its base URL.
func setupApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := app.DefaultConfig()
	cfg.DatabaseFile = filepath.Join(dir, "panel.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.MasterKeyFile = filepath.Join(dir, "master.key")
	cfg.BootstrapUsername = rootUsername
	cfg.BootstrapPassword = rootPassword
	cfg.Env = "test"
	cfg.LogLevel = "error"
	require.NoError(t, cfg.Validate())

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return srv.URL
}

type apiClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func newAPIClient(t *testing.T, baseURL string) *apiClient {
	return &apiClient{t: t, baseURL: baseURL}
}

// call sends body as JSON and decodes the response into out when it is not nil.
func (c *apiClient) call(method, path string, body, out any) int {
	c.t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(c.t.Context(), method, c.baseURL+path, rdr)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if out != nil && len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

// login authenticates and keeps the access token for later calls.
func (c *apiClient) login(username, password string) {
	c.t.Helper()

	var pair struct {
		AccessToken string   `json:"access_token"`
		TokenType   string   `json:"token_type"`
		Scopes      []string `json:"scopes"`
	}
	status := c.call(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	require.Equal(c.t, http.StatusOK, status)
	require.Equal(c.t, "Bearer", pair.TokenType)
	require.NotEmpty(c.t, pair.AccessToken)

	c.token = pair.AccessToken
}
