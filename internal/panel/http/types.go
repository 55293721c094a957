package http

import (
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/service"
)

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ListUsersResponse wraps the clients visible to the calling admin.
type ListUsersResponse struct {
	Users []service.UserRecord `json:"users"`
}

// SuccessResponse reports the panel's own verdict on a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// CreateUserResponse also returns the identifiers assigned to the client.
type CreateUserResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	SubID   string `json:"sub_id"`
}

// PanelInfo is a panel without its credentials.
type PanelInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	SubURL    string `json:"sub_url,omitempty"`
	Username  string `json:"username"`
	HasTOTP   bool   `json:"has_totp"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// ListPanelsResponse wraps every configured panel.
type ListPanelsResponse struct {
	Panels []PanelInfo `json:"panels"`
}

// AdminInfo is an admin without its password hash.
type AdminInfo struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Panel     string `json:"panel,omitempty"`
	InboundID int    `json:"inbound_id,omitempty"`
	Flow      string `json:"flow,omitempty"`
	IsActive  bool   `json:"is_active"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListAdminsResponse wraps every admin.
type ListAdminsResponse struct {
	Admins []AdminInfo `json:"admins"`
}

func toPanelInfo(p domain.Panel) PanelInfo {
	return PanelInfo{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		URL:       p.URL,
		SubURL:    p.SubURL,
		Username:  p.Username,
		HasTOTP:   p.TOTPSecret != "",
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func toAdminInfo(a domain.Admin) AdminInfo {
	info := AdminInfo{
		ID:        a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		Panel:     a.PanelName,
		InboundID: a.InboundID,
		Flow:      a.Flow,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.ExpiresAt != nil {
		info.ExpiresAt = a.ExpiresAt.Format(time.RFC3339)
	}
	return info
}
