package panelsdk

import (
	"context"
	"time"
)

// PanelClient is the contract both panel flavors implement. Errors from the
// session layer are returned unchanged. Mutations report the panel's own
// success flag in the bool.
type PanelClient interface {
	// Flavor reports which dialect the client speaks.
	Flavor() Flavor

	// Identity returns the normalized panel URL.
	Identity() string

	// HealthCheck logs in with a throwaway session and reads server status.
	// It never touches the shared session cache.
	HealthCheck(ctx context.Context) (*ServerStatus, error)

	// ListInbounds returns every inbound with its clients.
	ListInbounds(ctx context.Context) ([]Inbound, error)

	// ListOnlineClients returns the emails of connected clients.
	ListOnlineClients(ctx context.Context) ([]string, error)

	// AddClient creates draft under inboundID. A non-empty flow overrides
	// draft.Flow.
	AddClient(ctx context.Context, inboundID int, flow string, draft ClientDraft) (bool, error)

	// UpdateClient replaces the client keyed by uuid. The uuid wins over
	// patch.ID.
	UpdateClient(ctx context.Context, uuid string, inboundID int, flow string, patch ClientDraft) (bool, error)

	// DeleteClient removes the client keyed by uuid.
	DeleteClient(ctx context.Context, inboundID int, uuid string) (bool, error)

	// ResetClientUsage zeroes the traffic counters of email.
	ResetClientUsage(ctx context.Context, inboundID int, email string) (bool, error)

	// GetClientByEmail returns nil and no error when the client does not exist.
	GetClientByEmail(ctx context.Context, email string) (*Client, error)
}

// FactoryConfig tunes the session layer shared by all clients of a Factory.
type FactoryConfig struct {
	SessionTTL3XUI time.Duration
	SessionTTLTXUI time.Duration
	RequestTimeout time.Duration
	HealthTimeout  time.Duration
	Transport      TransportOptions
}

// DefaultFactoryConfig returns the stock lifetimes and timeouts.
func DefaultFactoryConfig() FactoryConfig {
	return FactoryConfig{
		SessionTTL3XUI: DefaultSessionTTL3XUI,
		SessionTTLTXUI: DefaultSessionTTLTXUI,
		RequestTimeout: DefaultRequestTimeout,
		HealthTimeout:  DefaultHealthTimeout,
		Transport: TransportOptions{
			Timeout: DefaultRequestTimeout,
			IdleTTL: DefaultTransportIdleTTL,
		},
	}
}

type flavorRuntime struct {
	auth  Authenticator
	cache *CredentialCache
	exec  *Executor
}

// Factory builds PanelClients. It owns one CredentialCache per flavor and a
// single TransportPool, so every client pointed at the same URL shares both.
type Factory struct {
	cfg        FactoryConfig
	transports *TransportPool
	flavors    map[Flavor]*flavorRuntime
}

// NewFactory wires the caches, executors and transport pool.
func NewFactory(cfg FactoryConfig, opts ...CacheOption) *Factory {
	def := DefaultFactoryConfig()
	if cfg.SessionTTL3XUI <= 0 {
		cfg.SessionTTL3XUI = def.SessionTTL3XUI
	}
	if cfg.SessionTTLTXUI <= 0 {
		cfg.SessionTTLTXUI = def.SessionTTLTXUI
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}
	if cfg.Transport.Timeout <= 0 {
		cfg.Transport.Timeout = cfg.RequestTimeout
	}

	f := &Factory{
		cfg:        cfg,
		transports: NewTransportPool(cfg.Transport),
		flavors:    make(map[Flavor]*flavorRuntime, len(Flavors)),
	}

	f.flavors[Flavor3XUI] = f.runtime(jsonLogin{}, cfg.SessionTTL3XUI, opts)
	f.flavors[FlavorTXUI] = f.runtime(formLogin{}, cfg.SessionTTLTXUI, opts)

	return f
}

func (f *Factory) runtime(auth Authenticator, ttl time.Duration, opts []CacheOption) *flavorRuntime {
	opts = append([]CacheOption{
		WithTransports(f.transports),
		WithLoginTimeout(f.cfg.RequestTimeout),
	}, opts...)

	cache := NewCredentialCache(auth, ttl, opts...)
	return &flavorRuntime{
		auth:  auth,
		cache: cache,
		exec:  NewExecutor(cache, f.transports, f.cfg.RequestTimeout),
	}
}

// Client returns a PanelClient of flavor for the panel at baseURL.
func (f *Factory) Client(flavor Flavor, baseURL string, creds Credentials) (PanelClient, error) {
	rt, ok := f.flavors[flavor]
	if !ok {
		return nil, ErrUnsupportedFlavor
	}

	identity, err := NormalizeURL(baseURL)
	if err != nil {
		return nil, err
	}

	b := base{
		target:        Target{Identity: identity, Credentials: creds},
		exec:          rt.exec,
		auth:          rt.auth,
		transports:    f.transports,
		healthTimeout: f.cfg.HealthTimeout,
	}

	switch flavor {
	case FlavorTXUI:
		return &txuiClient{base: b}, nil
	default:
		return &xuiClient{base: b}, nil
	}
}

// Cache returns the credential cache of flavor, or nil.
func (f *Factory) Cache(flavor Flavor) *CredentialCache {
	if rt, ok := f.flavors[flavor]; ok {
		return rt.cache
	}
	return nil
}

// Transports returns the shared transport pool.
func (f *Factory) Transports() *TransportPool { return f.transports }

// Sweep drops expired sessions of every flavor and idle pooled transports.
func (f *Factory) Sweep(now time.Time) (sessions, transports int) {
	for _, rt := range f.flavors {
		sessions += rt.cache.Sweep(now)
	}
	return sessions, f.transports.Sweep(now)
}

// Close releases pooled connections.
func (f *Factory) Close() {
	f.transports.Close()
}
