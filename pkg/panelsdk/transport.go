package panelsdk

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"
)

// Transport defaults.
const (
	DefaultRequestTimeout   = 30 * time.Second
	DefaultHealthTimeout    = 5 * time.Second
	DefaultTransportIdleTTL = 10 * time.Minute
)

// TransportOptions configures a TransportPool.
type TransportOptions struct {
	// Timeout is the hard upper bound of one HTTP exchange.
	Timeout time.Duration

	// IdleTTL is how long an unused client stays pooled. It is unrelated to
	// the lifetime of auth sessions.
	IdleTTL time.Duration

	// InsecureSkipVerify accepts self-signed panel certificates.
	InsecureSkipVerify bool
}

type pooledClient struct {
	hc       *http.Client
	lastUsed time.Time
}

// TransportPool keeps one http.Client, and so one connection pool, per panel
// identity. Clients carry no cookie jar; sessions are attached per request.
type TransportPool struct {
	opts TransportOptions
	now  func() time.Time

	mu      sync.Mutex
	clients map[string]*pooledClient
}

// NewTransportPool returns an empty pool, filling zero options with defaults.
func NewTransportPool(opts TransportOptions) *TransportPool {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultTransportIdleTTL
	}

	return &TransportPool{
		opts:    opts,
		now:     time.Now,
		clients: make(map[string]*pooledClient),
	}
}

// Client returns the pooled client for identity, creating it on first use.
func (p *TransportPool) Client(identity string) *http.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	pc, ok := p.clients[identity]
	if !ok {
		pc = &pooledClient{hc: p.newClient(p.opts.Timeout)}
		p.clients[identity] = pc
	}
	pc.lastUsed = p.now()

	return pc.hc
}

// Ephemeral returns a client that is never pooled. Health probes use it so
// they share nothing with regular traffic.
func (p *TransportPool) Ephemeral(timeout time.Duration) *http.Client {
	return p.newClient(timeout)
}

// Sweep closes and drops clients idle for longer than the idle TTL.
func (p *TransportPool) Sweep(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for id, pc := range p.clients {
		if now.Sub(pc.lastUsed) >= p.opts.IdleTTL {
			pc.hc.CloseIdleConnections()
			delete(p.clients, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of pooled clients.
func (p *TransportPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// Close releases every pooled connection.
func (p *TransportPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, pc := range p.clients {
		pc.hc.CloseIdleConnections()
		delete(p.clients, id)
	}
}

func (p *TransportPool) newClient(timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if p.opts.InsecureSkipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 - opt-in for self-signed panels
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
	}
}
