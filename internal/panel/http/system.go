package http

import (
	"net/http"

	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
)

type SystemHandler struct {
	SystemService *service.SystemService
}

// ServeHTTP handles GET /v1/system
//
//	@Summary		Host usage
//	@Description	CPU, memory and disk usage of the host running the control plane.
//	@Tags			System
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	service.SystemStats	"stats"
//	@Router			/v1/system [get].
func (h *SystemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.SystemService.Stats(r.Context()))
}
