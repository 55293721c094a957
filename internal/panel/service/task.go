package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
	"github.com/aussiebroadwan/xpanel/pkg/cryptox"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrPanelNotFound = errors.New("panel not found")
	ErrAdminInactive = errors.New("admin is inactive or expired")
	ErrPanelInactive = errors.New("panel is inactive")
)

// Directory resolves admins and panels by their unique names.
type Directory interface {
	GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error)
	GetPanelByName(ctx context.Context, name string) (domain.Panel, error)
}

// ClientFactory hands out panel clients that share one session layer.
type ClientFactory interface {
	Client(flavor panelsdk.Flavor, baseURL string, creds panelsdk.Credentials) (panelsdk.PanelClient, error)
}

// UserRecord is a panel client as shown to its admin.
type UserRecord struct {
	panelsdk.Client
	IsOnline bool `json:"is_online"`
}

// AdminTaskService runs client operations for one admin against the panel
// and inbound the admin is bound to. Failures never escape as errors: they
// are logged and reported as false or empty results.
type AdminTaskService struct {
	admin  domain.Admin
	panel  domain.Panel
	client panelsdk.PanelClient
}

// NewAdminTaskService resolves username and its panel and builds the panel
// client for them.
func NewAdminTaskService(ctx context.Context, dir Directory, clients ClientFactory, username string) (*AdminTaskService, error) {
	admin, err := dir.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAdminNotFound, username)
		}
		return nil, fmt.Errorf("lookup admin %q: %w", username, err)
	}
	if !admin.Usable(time.Now()) {
		return nil, ErrAdminInactive
	}
	if admin.PanelName == "" {
		return nil, fmt.Errorf("%w: admin %s is not bound to a panel", ErrPanelNotFound, username)
	}

	panel, err := dir.GetPanelByName(ctx, admin.PanelName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, admin.PanelName)
		}
		return nil, fmt.Errorf("lookup panel %q: %w", admin.PanelName, err)
	}
	if !panel.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrPanelInactive, panel.Name)
	}

	flavor, err := panelsdk.ParseFlavor(panel.Type)
	if err != nil {
		return nil, fmt.Errorf("panel %q: %w", panel.Name, err)
	}
	client, err := clients.Client(flavor, panel.URL, panelCredentials(panel))
	if err != nil {
		return nil, fmt.Errorf("panel %q: %w", panel.Name, err)
	}

	return &AdminTaskService{admin: admin, panel: panel, client: client}, nil
}

func panelCredentials(p domain.Panel) panelsdk.Credentials {
	return panelsdk.Credentials{
		Username:        p.Username,
		Password:        p.Password,
		TwoFactorSecret: p.TOTPSecret,
	}
}

// Admin returns the admin the service acts for.
func (s *AdminTaskService) Admin() domain.Admin { return s.admin }

// Panel returns the panel the admin is bound to.
func (s *AdminTaskService) Panel() domain.Panel { return s.panel }

// scope tags the context logger with the admin binding and operation.
func (s *AdminTaskService) scope(ctx context.Context, op string) (context.Context, *slog.Logger) {
	ctx = slogx.WithAttrs(ctx,
		"admin", s.admin.Username,
		"panel", s.panel.Name,
		"inbound_id", s.admin.InboundID,
		"operation", op,
	)
	return ctx, slogx.FromContext(ctx)
}

// ListUsers returns the clients of the admin's inbound with their online
// state. The result is never nil.
func (s *AdminTaskService) ListUsers(ctx context.Context) []UserRecord {
	ctx, l := s.scope(ctx, "list_users")
	users := []UserRecord{}

	inbounds, err := s.client.ListInbounds(ctx)
	if err != nil {
		l.Error("failed to list inbounds", "error", err)
		return users
	}

	var bound *panelsdk.Inbound
	for i := range inbounds {
		if inbounds[i].ID == s.admin.InboundID {
			bound = &inbounds[i]
			break
		}
	}
	if bound == nil {
		l.Warn("inbound not found for admin", "username", s.admin.Username, "inbound_id", s.admin.InboundID)
		return users
	}

	emails, err := s.client.ListOnlineClients(ctx)
	if err != nil {
		l.Error("failed to list online clients", "error", err)
		return users
	}
	online := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		online[e] = struct{}{}
	}

	for _, c := range bound.Clients {
		_, ok := online[c.Email]
		users = append(users, UserRecord{Client: c, IsOnline: ok})
	}
	return users
}

// GetClientByEmail looks up one client on the admin's panel.
func (s *AdminTaskService) GetClientByEmail(ctx context.Context, email string) (*panelsdk.Client, bool) {
	ctx, l := s.scope(ctx, "get_client")

	c, err := s.client.GetClientByEmail(ctx, email)
	if err != nil {
		l.Error("failed to get client", "email", email, "error", err)
		return nil, false
	}
	if c == nil {
		return nil, false
	}
	return c, true
}

// FillDraft assigns a UUID and a subscription id when the draft has none.
func FillDraft(draft panelsdk.ClientDraft) (panelsdk.ClientDraft, error) {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.SubID == "" {
		sub, err := cryptox.GenerateSubID()
		if err != nil {
			return draft, fmt.Errorf("generate sub id: %w", err)
		}
		draft.SubID = sub
	}
	return draft, nil
}

// AddClient creates draft under the admin's inbound using the admin's flow.
func (s *AdminTaskService) AddClient(ctx context.Context, draft panelsdk.ClientDraft) bool {
	ctx, l := s.scope(ctx, "add_client")

	draft, err := FillDraft(draft)
	if err != nil {
		l.Error("failed to prepare client", "email", draft.Email, "error", err)
		return false
	}

	ok, err := s.client.AddClient(ctx, s.admin.InboundID, s.admin.Flow, draft)
	return s.report(l, ok, err, "email", draft.Email, "uuid", draft.ID)
}

// UpdateClient replaces the client keyed by clientID.
func (s *AdminTaskService) UpdateClient(ctx context.Context, clientID string, patch panelsdk.ClientDraft) bool {
	ctx, l := s.scope(ctx, "update_client")

	ok, err := s.client.UpdateClient(ctx, clientID, s.admin.InboundID, s.admin.Flow, patch)
	return s.report(l, ok, err, "uuid", clientID)
}

// ResetUsage zeroes the traffic counters of email.
func (s *AdminTaskService) ResetUsage(ctx context.Context, email string) bool {
	ctx, l := s.scope(ctx, "reset_usage")

	ok, err := s.client.ResetClientUsage(ctx, s.admin.InboundID, email)
	return s.report(l, ok, err, "email", email)
}

// DeleteClient removes the client keyed by clientID.
func (s *AdminTaskService) DeleteClient(ctx context.Context, clientID string) bool {
	ctx, l := s.scope(ctx, "delete_client")

	ok, err := s.client.DeleteClient(ctx, s.admin.InboundID, clientID)
	return s.report(l, ok, err, "uuid", clientID)
}

// report logs the outcome of a mutation and folds it into one bool.
func (s *AdminTaskService) report(l *slog.Logger, ok bool, err error, args ...any) bool {
	switch {
	case err != nil:
		l.Error("panel operation failed", append(args, "error", err)...)
		return false
	case !ok:
		l.Warn("panel rejected operation", args...)
		return false
	default:
		l.Debug("panel operation succeeded", args...)
		return true
	}
}
