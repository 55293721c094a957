package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// AdminsHandler handles admin account management.
type AdminsHandler struct {
	AdminService *service.AdminService
}

// HandleCreate handles POST /v1/admins
//
//	@Summary		Create admin
//	@Description	Creates an admin bound to one panel inbound, or a superadmin.
//	@Tags			Admins
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		service.NewAdmin		true	"Admin"
//	@Success		201		{object}	AdminInfo				"admin"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/admins [post].
func (h *AdminsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.NewAdmin
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := h.AdminService.Create(ctx, req)
	switch {
	case errors.Is(err, service.ErrInvalidAdmin):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case errors.Is(err, service.ErrPanelNotFound):
		httpx.WriteError(w, http.StatusNotFound, "panel_not_found", "Panel not found")
		return
	case errors.Is(err, service.ErrAdminExists):
		httpx.WriteError(w, http.StatusConflict, "admin_exists", "An admin with this username already exists")
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create admin", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create admin")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAdminInfo(a))
}

// HandleList handles GET /v1/admins
//
//	@Summary		List admins
//	@Tags			Admins
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListAdminsResponse		"admins"
//	@Failure		500	{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/admins [get].
func (h *AdminsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	admins, err := h.AdminService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list admins", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list admins")
		return
	}

	resp := ListAdminsResponse{Admins: make([]AdminInfo, len(admins))}
	for i, a := range admins {
		resp.Admins[i] = toAdminInfo(a)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /v1/admins/{username}
//
//	@Summary		Delete admin
//	@Description	Deletes an admin. Admins cannot delete themselves.
//	@Tags			Admins
//	@Security		BearerAuth
//	@Param			username	path	string	true	"Admin username"
//	@Success		204			"Admin deleted"
//	@Failure		400			{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404			{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/admins/{username} [delete].
func (h *AdminsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := r.PathValue("username")

	if username == httpx.AdminFromContext(ctx) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Cannot delete the calling admin")
		return
	}

	err := h.AdminService.Delete(ctx, username)
	switch {
	case errors.Is(err, service.ErrAdminNotFound):
		httpx.WriteError(w, http.StatusNotFound, "admin_not_found", "Admin not found")
	case err != nil:
		slogx.FromContext(ctx).Error("failed to delete admin", "error", err, "username", username)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete admin")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
