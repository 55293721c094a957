package panelsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// Default session lifetimes per flavor.
const (
	DefaultSessionTTL3XUI = 3500 * time.Second
	DefaultSessionTTLTXUI = 300 * time.Second

	defaultLoginTimeout = 15 * time.Second
)

// Authenticator performs the login exchange of one flavor and returns the
// cookies that make up the session.
type Authenticator interface {
	Login(ctx context.Context, hc *http.Client, identity string, creds Credentials) ([]*http.Cookie, error)
}

// CacheStats are counters for observability and tests.
type CacheStats struct {
	Hits     int64
	Logins   int64
	Failures int64
	Entries  int
}

// CredentialCache holds at most one Session per panel identity and makes sure
// only one login per identity is in flight at any time.
type CredentialCache struct {
	auth         Authenticator
	ttl          time.Duration
	loginTimeout time.Duration
	transports   *TransportPool
	now          func() time.Time

	mu      sync.RWMutex
	entries map[string]*Session
	group   singleflight.Group

	hits     atomic.Int64
	logins   atomic.Int64
	failures atomic.Int64
}

// CacheOption configures a CredentialCache.
type CacheOption func(*CredentialCache)

// WithClock replaces time.Now, used by tests to age sessions.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CredentialCache) { c.now = now }
}

// WithTransports makes logins use the pooled client of each identity.
func WithTransports(p *TransportPool) CacheOption {
	return func(c *CredentialCache) { c.transports = p }
}

// WithLoginTimeout bounds a single login exchange.
func WithLoginTimeout(d time.Duration) CacheOption {
	return func(c *CredentialCache) {
		if d > 0 {
			c.loginTimeout = d
		}
	}
}

// NewCredentialCache returns an empty cache whose sessions live for ttl.
func NewCredentialCache(auth Authenticator, ttl time.Duration, opts ...CacheOption) *CredentialCache {
	c := &CredentialCache{
		auth:         auth,
		ttl:          ttl,
		loginTimeout: defaultLoginTimeout,
		now:          time.Now,
		entries:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transports == nil {
		c.transports = NewTransportPool(TransportOptions{})
	}
	return c
}

// TTL returns the lifetime given to new sessions.
func (c *CredentialCache) TTL() time.Duration { return c.ttl }

// GetOrRefresh returns the cached session for identity when force is false
// and the session is still valid for creds.Username. Otherwise it logs in,
// replaces the entry and returns the new session.
func (c *CredentialCache) GetOrRefresh(ctx context.Context, identity string, creds Credentials, force bool) (*Session, error) {
	if force {
		return c.refresh(ctx, identity, creds, func() *Session { return nil })
	}

	if s := c.Peek(identity, creds.Username); s != nil {
		c.hits.Add(1)
		return s, nil
	}
	return c.refresh(ctx, identity, creds, func() *Session {
		// Someone may have finished a login while we waited for the flight.
		return c.Peek(identity, creds.Username)
	})
}

// Renew replaces rejected, the session a panel just refused. When another
// caller already replaced it, the newer cached session is returned and no
// login happens, so one expiry costs one login however many requests saw it.
// A nil rejected means the request went out without a session.
func (c *CredentialCache) Renew(ctx context.Context, identity string, creds Credentials, rejected *Session) (*Session, error) {
	newer := func() *Session {
		s := c.Peek(identity, creds.Username)
		if s == nil || s == rejected {
			return nil
		}
		if rejected != nil && s.AcquiredAt.Before(rejected.AcquiredAt) {
			return nil
		}
		return s
	}

	if s := newer(); s != nil {
		c.hits.Add(1)
		return s, nil
	}
	return c.refresh(ctx, identity, creds, newer)
}

// refresh logs in through the single flight of identity unless reuse, checked
// again inside the flight, yields a session.
func (c *CredentialCache) refresh(ctx context.Context, identity string, creds Credentials, reuse func() *Session) (*Session, error) {
	ch := c.group.DoChan(identity+"\x00"+creds.Username, func() (any, error) {
		if s := reuse(); s != nil {
			return s, nil
		}
		return c.login(ctx, identity, creds)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Session), nil
	}
}

// Peek returns the valid session for identity and username without logging in.
func (c *CredentialCache) Peek(identity, username string) *Session {
	c.mu.RLock()
	s := c.entries[identity]
	c.mu.RUnlock()

	if !s.Valid(c.now(), identity, username) {
		return nil
	}
	return s
}

// Invalidate drops the entry of identity.
func (c *CredentialCache) Invalidate(identity string) {
	c.mu.Lock()
	delete(c.entries, identity)
	c.mu.Unlock()
}

// Sweep drops every expired entry and returns how many were removed.
func (c *CredentialCache) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, s := range c.entries {
		if !now.Before(s.ExpiresAt()) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the cache counters.
func (c *CredentialCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Hits:     c.hits.Load(),
		Logins:   c.logins.Load(),
		Failures: c.failures.Load(),
		Entries:  n,
	}
}

// login runs detached from the caller's cancellation so that other callers
// waiting on the same flight still get a result.
func (c *CredentialCache) login(ctx context.Context, identity string, creds Credentials) (*Session, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loginTimeout)
	defer cancel()

	log := slogx.FromContext(ctx)
	c.logins.Add(1)

	cookies, err := c.auth.Login(ctx, c.transports.Client(identity), identity, creds)
	if err != nil {
		c.failures.Add(1)
		c.Invalidate(identity)

		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			err = &AuthenticationError{Identity: identity, Err: err}
		}
		log.Warn("panel login failed", "panel", identity, "username", creds.Username, "error", err)
		return nil, err
	}

	s := &Session{
		Identity:   identity,
		Username:   creds.Username,
		AcquiredAt: c.now(),
		TTL:        c.ttl,
		Cookies:    cookies,
	}

	c.mu.Lock()
	c.entries[identity] = s
	c.mu.Unlock()

	log.Debug("panel session acquired", "panel", identity, "username", creds.Username, "ttl", c.ttl)
	return s, nil
}
