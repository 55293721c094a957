package panelsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeAuth struct {
	calls   atomic.Int64
	err     error
	release chan struct{}
}

func (a *fakeAuth) Login(ctx context.Context, _ *http.Client, _ string, creds Credentials) ([]*http.Cookie, error) {
	a.calls.Add(1)
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.err != nil {
		return nil, a.err
	}
	return []*http.Cookie{{Name: "3x-ui", Value: creds.Username + "-cookie"}}, nil
}

const testIdentity = "https://panel.example.com/"

var testCreds = Credentials{Username: "admin", Password: "secret"}

func TestCredentialCache_GetOrRefresh(t *testing.T) {
	t.Parallel()

	t.Run("reuses a valid session", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour, WithClock(newFakeClock().Now))

		first, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)
		second, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		require.Same(t, first, second)
		require.EqualValues(t, 1, auth.calls.Load())
		require.EqualValues(t, 1, cache.Stats().Hits)
	})

	t.Run("logs in again once the ttl has passed", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		clock := newFakeClock()
		cache := NewCredentialCache(auth, 300*time.Second, WithClock(clock.Now))

		_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		clock.Advance(299 * time.Second)
		_, err = cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)
		require.EqualValues(t, 1, auth.calls.Load())

		clock.Advance(time.Second)
		s, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)
		require.EqualValues(t, 2, auth.calls.Load())
		require.Equal(t, clock.Now(), s.AcquiredAt)
	})

	t.Run("force always logs in", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)
		_, err = cache.GetOrRefresh(t.Context(), testIdentity, testCreds, true)
		require.NoError(t, err)

		require.EqualValues(t, 2, auth.calls.Load())
	})

	t.Run("a different username is a miss", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		other := Credentials{Username: "operator", Password: "secret"}
		s, err := cache.GetOrRefresh(t.Context(), testIdentity, other, false)
		require.NoError(t, err)
		require.Equal(t, "operator", s.Username)
		require.EqualValues(t, 2, auth.calls.Load())
		require.Nil(t, cache.Peek(testIdentity, "admin"))
	})

	t.Run("failed login leaves no entry", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		auth.err = &AuthenticationError{Identity: testIdentity, StatusCode: http.StatusOK, Msg: "wrong password"}
		_, err = cache.GetOrRefresh(t.Context(), testIdentity, testCreds, true)

		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "wrong password", authErr.Msg)
		require.Nil(t, cache.Peek(testIdentity, testCreds.Username))
		require.EqualValues(t, 1, cache.Stats().Failures)
	})

	t.Run("other login errors are wrapped", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("connection refused")
		cache := NewCredentialCache(&fakeAuth{err: boom}, time.Hour)

		_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)

		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.ErrorIs(t, err, boom)
		require.Equal(t, testIdentity, authErr.Identity)
	})
}

func TestCredentialCache_SingleFlight(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{release: make(chan struct{})}
	cache := NewCredentialCache(auth, time.Hour)

	const callers = 16
	var wg sync.WaitGroup
	sessions := make([]*Session, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = cache.GetOrRefresh(context.Background(), testIdentity, testCreds, false)
		}(i)
	}

	require.Eventually(t, func() bool { return auth.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(auth.release)
	wg.Wait()

	require.EqualValues(t, 1, auth.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		require.Same(t, sessions[0], sessions[i])
	}
}

func TestCredentialCache_Renew(t *testing.T) {
	t.Parallel()

	t.Run("replaces the rejected session", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		rejected, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		renewed, err := cache.Renew(t.Context(), testIdentity, testCreds, rejected)
		require.NoError(t, err)
		require.NotSame(t, rejected, renewed)
		require.EqualValues(t, 2, auth.calls.Load())
	})

	t.Run("reuses a session acquired after the rejected one", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		clock := newFakeClock()
		cache := NewCredentialCache(auth, time.Hour, WithClock(clock.Now))

		rejected, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		clock.Advance(time.Second)
		first, err := cache.Renew(t.Context(), testIdentity, testCreds, rejected)
		require.NoError(t, err)

		// A late caller still holding the old session gets the new one.
		second, err := cache.Renew(t.Context(), testIdentity, testCreds, rejected)
		require.NoError(t, err)
		require.Same(t, first, second)
		require.EqualValues(t, 2, auth.calls.Load())
	})

	t.Run("logs in when nothing was sent", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		s, err := cache.Renew(t.Context(), testIdentity, testCreds, nil)
		require.NoError(t, err)
		require.NotNil(t, s)
		require.EqualValues(t, 1, auth.calls.Load())
	})

	t.Run("concurrent renewals of one session log in once", func(t *testing.T) {
		t.Parallel()
		auth := &fakeAuth{}
		cache := NewCredentialCache(auth, time.Hour)

		rejected, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
		require.NoError(t, err)

		const callers = 20
		var wg sync.WaitGroup
		sessions := make([]*Session, callers)
		errs := make([]error, callers)
		for i := range callers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sessions[i], errs[i] = cache.Renew(context.Background(), testIdentity, testCreds, rejected)
			}(i)
		}
		wg.Wait()

		require.EqualValues(t, 2, auth.calls.Load())
		for i := range callers {
			require.NoError(t, errs[i])
			require.Same(t, sessions[0], sessions[i])
		}
	})
}

func TestCredentialCache_CallerCancellation(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{release: make(chan struct{})}
	cache := NewCredentialCache(auth, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.GetOrRefresh(ctx, testIdentity, testCreds, false)
		done <- err
	}()

	require.Eventually(t, func() bool { return auth.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The login keeps running for anyone else and still lands in the cache.
	close(auth.release)
	require.Eventually(t, func() bool {
		return cache.Peek(testIdentity, testCreds.Username) != nil
	}, time.Second, time.Millisecond)
}

func TestCredentialCache_Sweep(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := NewCredentialCache(&fakeAuth{}, time.Minute, WithClock(clock.Now))

	_, err := cache.GetOrRefresh(t.Context(), testIdentity, testCreds, false)
	require.NoError(t, err)
	_, err = cache.GetOrRefresh(t.Context(), "https://other.example.com/", testCreds, false)
	require.NoError(t, err)

	require.Equal(t, 0, cache.Sweep(clock.Now()))
	require.Equal(t, 2, cache.Stats().Entries)

	clock.Advance(time.Minute)
	require.Equal(t, 2, cache.Sweep(clock.Now()))
	require.Equal(t, 0, cache.Stats().Entries)
}

func TestSession_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{Identity: testIdentity, Username: "admin", AcquiredAt: now, TTL: time.Minute}

	tests := []struct {
		name     string
		session  *Session
		at       time.Time
		identity string
		username string
		want     bool
	}{
		{"fresh session", s, now.Add(59 * time.Second), testIdentity, "admin", true},
		{"exactly at ttl", s, now.Add(time.Minute), testIdentity, "admin", false},
		{"other url", s, now, "https://other.example.com/", "admin", false},
		{"other username", s, now, testIdentity, "root", false},
		{"nil session", nil, now, testIdentity, "admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.session.Valid(tt.at, tt.identity, tt.username))
		})
	}
}

func TestTwoFactorCode(t *testing.T) {
	t.Parallel()

	code, err := twoFactorCode(Credentials{TwoFactorSecret: "JBSWY3DPEHPK3PXP"})
	require.NoError(t, err)
	require.Len(t, code, 6)

	code, err = twoFactorCode(Credentials{})
	require.NoError(t, err)
	require.Empty(t, code)
}

func TestTransportPool_Sweep(t *testing.T) {
	t.Parallel()

	pool := NewTransportPool(TransportOptions{IdleTTL: time.Minute})
	start := time.Now()
	pool.now = func() time.Time { return start }

	a := pool.Client(testIdentity)
	require.Same(t, a, pool.Client(testIdentity))
	require.NotSame(t, a, pool.Client("https://other.example.com/"))
	require.Equal(t, 2, pool.Len())

	require.Equal(t, 0, pool.Sweep(start.Add(30*time.Second)))
	require.Equal(t, 2, pool.Sweep(start.Add(time.Minute)))
	require.Equal(t, 0, pool.Len())
}
