package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Format: "json", Output: &buf}))

	ctx := WithContext(context.Background(), logger)
	ctx = WithAttrs(ctx, "admin", "alice")
	FromContext(ctx).Info("listed users")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "alice", line["admin"])
	require.Equal(t, "listed users", line["msg"])
}

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewHandler(Config{Format: "json", Output: &buf}))

	var seen string
	h := HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		seen = w.Header().Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates a request id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		require.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		require.Contains(t, buf.String(), `"path":"/livez"`)
		require.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("keeps a provided request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
		require.Contains(t, buf.String(), `"req_id":"abc"`)
	})
}
