package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
	"github.com/aussiebroadwan/xpanel/pkg/idx"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

var (
	ErrPanelExists  = errors.New("panel already exists")
	ErrPanelInUse   = errors.New("panel still has admins")
	ErrInvalidPanel = errors.New("invalid panel")
)

type PanelService struct {
	Store   store.Store
	Clients ClientFactory
}

// NewPanel is the input to PanelService.Create.
type NewPanel struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	SubURL     string `json:"sub_url"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	TOTPSecret string `json:"totp_secret"`
}

// Create validates in and stores an active panel.
func (s *PanelService) Create(ctx context.Context, in NewPanel) (domain.Panel, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Panel{}, fmt.Errorf("%w: name is required", ErrInvalidPanel)
	}
	if in.Username == "" || in.Password == "" {
		return domain.Panel{}, fmt.Errorf("%w: panel credentials are required", ErrInvalidPanel)
	}

	flavor, err := panelsdk.ParseFlavor(in.Type)
	if err != nil {
		return domain.Panel{}, fmt.Errorf("%w: %v", ErrInvalidPanel, err)
	}
	url, err := panelsdk.NormalizeURL(in.URL)
	if err != nil {
		return domain.Panel{}, fmt.Errorf("%w: %v", ErrInvalidPanel, err)
	}

	var subURL string
	if strings.TrimSpace(in.SubURL) != "" {
		if subURL, err = panelsdk.NormalizeURL(in.SubURL); err != nil {
			return domain.Panel{}, fmt.Errorf("%w: sub_url: %v", ErrInvalidPanel, err)
		}
	}

	now := time.Now().UTC()
	p := domain.Panel{
		ID:         idx.NewKind(idx.KindPanel).String(),
		Name:       name,
		Type:       string(flavor),
		URL:        url,
		SubURL:     subURL,
		Username:   in.Username,
		Password:   in.Password,
		TOTPSecret: strings.ToUpper(strings.ReplaceAll(in.TOTPSecret, " ", "")),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Store.Panels().CreatePanel(ctx, p); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Panel{}, ErrPanelExists
		}
		return domain.Panel{}, err
	}

	slogx.FromContext(ctx).Info("panel created",
		slog.String("panel_id", p.ID),
		slog.String("panel", p.Name),
		slog.String("type", p.Type),
	)
	return p, nil
}

// List returns every panel ordered by name.
func (s *PanelService) List(ctx context.Context) ([]domain.Panel, error) {
	return s.Store.Panels().ListPanels(ctx)
}

// Get fetches one panel by name.
func (s *PanelService) Get(ctx context.Context, name string) (domain.Panel, error) {
	p, err := s.Store.Panels().GetPanelByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Panel{}, ErrPanelNotFound
	}
	return p, err
}

// Delete removes a panel no admin is bound to.
func (s *PanelService) Delete(ctx context.Context, name string) error {
	err := s.Store.Panels().DeletePanel(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrPanelNotFound
	case errors.Is(err, store.ErrInUse):
		return ErrPanelInUse
	case err != nil:
		return err
	}

	slogx.FromContext(ctx).Info("panel deleted", slog.String("panel", name))
	return nil
}

// Health probes the named panel with a throwaway session.
func (s *PanelService) Health(ctx context.Context, name string) (*panelsdk.ServerStatus, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	flavor, err := panelsdk.ParseFlavor(p.Type)
	if err != nil {
		return nil, err
	}
	client, err := s.Clients.Client(flavor, p.URL, panelCredentials(p))
	if err != nil {
		return nil, err
	}

	status, err := client.HealthCheck(ctx)
	if err != nil {
		slogx.FromContext(ctx).Warn("panel health check failed", slog.String("panel", p.Name), slog.Any("error", err))
		return nil, err
	}
	return status, nil
}
