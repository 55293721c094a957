package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

type LoginHandler struct {
	AdminService *service.AdminService
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/login
//
//	@Summary		Admin login
//	@Description	Exchanges an admin username and password for a short-lived access token carrying the scopes of the admin's role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest			true	"Admin credentials"
//	@Success		200		{object}	service.TokenPair		"access_token, token_type, expires_in, scopes"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		429		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and password are required")
		return
	}

	admin, err := h.AdminService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
			return
		}
		log.Error("failed to authenticate admin", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to authenticate")
		return
	}

	pair, err := h.TokenService.Issue(admin)
	if err != nil {
		log.Error("failed to issue access token", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue token")
		return
	}

	log.Info("admin logged in", "username", admin.Username, "role", admin.Role)
	httpx.WriteJSON(w, http.StatusOK, pair)
}
