package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// PanelsHandler handles the superadmin panel registry.
type PanelsHandler struct {
	PanelService *service.PanelService
}

// HandleCreate handles POST /v1/panels
//
//	@Summary		Register panel
//	@Description	Stores a 3x-ui or tx-ui panel. Credentials are sealed at rest and never returned.
//	@Tags			Panels
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		service.NewPanel		true	"Panel"
//	@Success		201		{object}	PanelInfo				"panel"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/panels [post].
func (h *PanelsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.NewPanel
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	p, err := h.PanelService.Create(ctx, req)
	switch {
	case errors.Is(err, service.ErrInvalidPanel):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	case errors.Is(err, service.ErrPanelExists):
		httpx.WriteError(w, http.StatusConflict, "panel_exists", "A panel with this name already exists")
		return
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create panel", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create panel")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPanelInfo(p))
}

// HandleList handles GET /v1/panels
//
//	@Summary		List panels
//	@Tags			Panels
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListPanelsResponse		"panels"
//	@Failure		500	{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/panels [get].
func (h *PanelsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	panels, err := h.PanelService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list panels", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list panels")
		return
	}

	resp := ListPanelsResponse{Panels: make([]PanelInfo, len(panels))}
	for i, p := range panels {
		resp.Panels[i] = toPanelInfo(p)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /v1/panels/{name}
//
//	@Summary		Delete panel
//	@Description	Removes a panel. Fails while admins are still bound to it.
//	@Tags			Panels
//	@Security		BearerAuth
//	@Param			name	path	string	true	"Panel name"
//	@Success		204		"Panel deleted"
//	@Failure		404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/panels/{name} [delete].
func (h *PanelsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	err := h.PanelService.Delete(ctx, name)
	switch {
	case errors.Is(err, service.ErrPanelNotFound):
		httpx.WriteError(w, http.StatusNotFound, "panel_not_found", "Panel not found")
	case errors.Is(err, service.ErrPanelInUse):
		httpx.WriteError(w, http.StatusConflict, "panel_in_use", "Panel still has admins bound to it")
	case err != nil:
		slogx.FromContext(ctx).Error("failed to delete panel", "error", err, "panel", name)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete panel")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleHealth handles GET /v1/panels/{name}/health
//
//	@Summary		Probe panel
//	@Description	Logs in with a throwaway session and reads the panel's server status.
//	@Tags			Panels
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string					true	"Panel name"
//	@Success		200		{object}	panelsdk.ServerStatus	"status"
//	@Failure		404		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		502		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/panels/{name}/health [get].
func (h *PanelsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.PanelService.Health(r.Context(), r.PathValue("name"))
	switch {
	case errors.Is(err, service.ErrPanelNotFound):
		httpx.WriteError(w, http.StatusNotFound, "panel_not_found", "Panel not found")
	case err != nil:
		httpx.WriteError(w, http.StatusBadGateway, "panel_unreachable", err.Error())
	default:
		httpx.WriteJSON(w, http.StatusOK, status)
	}
}
