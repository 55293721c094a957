package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// UsersHandler serves the panel clients of the calling admin. Each request
// builds its own AdminTaskService from the admin named in the token.
type UsersHandler struct {
	Directory service.Directory
	Clients   service.ClientFactory
}

func (h *UsersHandler) task(w http.ResponseWriter, r *http.Request) (*service.AdminTaskService, bool) {
	ctx := r.Context()

	task, err := service.NewAdminTaskService(ctx, h.Directory, h.Clients, httpx.AdminFromContext(ctx))
	if err == nil {
		return task, true
	}

	switch {
	case errors.Is(err, service.ErrAdminNotFound), errors.Is(err, service.ErrAdminInactive):
		httpx.WriteError(w, http.StatusForbidden, "admin_unavailable", "Admin is unknown, inactive or expired")
	case errors.Is(err, service.ErrPanelNotFound), errors.Is(err, service.ErrPanelInactive):
		httpx.WriteError(w, http.StatusConflict, "panel_unavailable", "Admin has no usable panel")
	default:
		slogx.FromContext(ctx).Error("failed to open admin session", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reach panel")
	}
	return nil, false
}

func writeSuccess(w http.ResponseWriter, ok bool) {
	code := http.StatusOK
	if !ok {
		code = http.StatusBadGateway
	}
	httpx.WriteJSON(w, code, SuccessResponse{Success: ok})
}

// HandleList handles GET /v1/users
//
//	@Summary		List clients
//	@Description	Returns the clients of the admin's inbound with their online state. Panel failures yield an empty list.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ListUsersResponse		"users"
//	@Failure		401	{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		403	{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		409	{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ListUsersResponse{Users: task.ListUsers(r.Context())})
}

// HandleGet handles GET /v1/users/{email}
//
//	@Summary		Get client
//	@Description	Looks up one client by email on the admin's panel.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			email	path		string					true	"Client email"
//	@Success		200		{object}	panelsdk.Client			"client"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse		"error, error_description"
//	@Router			/v1/users/{email} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}

	client, found := task.GetClientByEmail(r.Context(), r.PathValue("email"))
	if !found {
		httpx.WriteError(w, http.StatusNotFound, "client_not_found", "Client not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, client)
}

// HandleCreate handles POST /v1/users
//
//	@Summary		Create client
//	@Description	Adds a client to the admin's inbound. Missing id and sub_id are generated. The admin's flow overrides the requested one.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		panelsdk.ClientDraft	true	"Client"
//	@Success		201		{object}	CreateUserResponse		"success, id, sub_id"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		502		{object}	CreateUserResponse		"panel rejected or unreachable"
//	@Router			/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft panelsdk.ClientDraft
	if err := httpx.DecodeJSON(w, r, &draft); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	draft.Email = strings.TrimSpace(draft.Email)
	if draft.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	task, ok := h.task(w, r)
	if !ok {
		return
	}

	draft, err := service.FillDraft(draft)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to prepare client", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to prepare client")
		return
	}

	ok = task.AddClient(r.Context(), draft)
	code := http.StatusCreated
	if !ok {
		code = http.StatusBadGateway
	}
	httpx.WriteJSON(w, code, CreateUserResponse{Success: ok, ID: draft.ID, SubID: draft.SubID})
}

// HandleUpdate handles PUT /v1/users/{uuid}
//
//	@Summary		Update client
//	@Description	Replaces the client keyed by uuid. The path uuid wins over any id in the body.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			uuid	path		string					true	"Client UUID"
//	@Param			request	body		panelsdk.ClientDraft	true	"Client"
//	@Success		200		{object}	SuccessResponse			"success"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		502		{object}	SuccessResponse			"panel rejected or unreachable"
//	@Router			/v1/users/{uuid} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch panelsdk.ClientDraft
	if err := httpx.DecodeJSON(w, r, &patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	task, ok := h.task(w, r)
	if !ok {
		return
	}
	writeSuccess(w, task.UpdateClient(r.Context(), r.PathValue("uuid"), patch))
}

// HandleDelete handles DELETE /v1/users/{uuid}
//
//	@Summary		Delete client
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			uuid	path		string			true	"Client UUID"
//	@Success		200		{object}	SuccessResponse	"success"
//	@Failure		502		{object}	SuccessResponse	"panel rejected or unreachable"
//	@Router			/v1/users/{uuid} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}
	writeSuccess(w, task.DeleteClient(r.Context(), r.PathValue("uuid")))
}

// HandleReset handles POST /v1/users/{email}/reset
//
//	@Summary		Reset client traffic
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			email	path		string			true	"Client email"
//	@Success		200		{object}	SuccessResponse	"success"
//	@Failure		502		{object}	SuccessResponse	"panel rejected or unreachable"
//	@Router			/v1/users/{email}/reset [post].
func (h *UsersHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	task, ok := h.task(w, r)
	if !ok {
		return
	}
	writeSuccess(w, task.ResetUsage(r.Context(), r.PathValue("email")))
}
