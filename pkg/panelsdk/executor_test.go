package panelsdk_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk/panelsdktest"
)

const pathList = "panel/api/inbounds/list"

func newClient(t *testing.T, flavor panelsdk.Flavor, opts ...panelsdk.CacheOption) (*panelsdktest.Panel, panelsdk.PanelClient, *panelsdk.Factory) {
	t.Helper()

	panel := panelsdktest.New(t, flavor)
	panel.AddInbound(7, "main")

	factory := panelsdk.NewFactory(panelsdk.DefaultFactoryConfig(), opts...)
	t.Cleanup(factory.Close)

	client, err := factory.Client(flavor, panel.Server.URL, panel.Credentials())
	require.NoError(t, err)

	return panel, client, factory
}

func TestExecutor_SessionReuse(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, factory := newClient(t, flavor)

			for range 5 {
				_, err := client.ListInbounds(t.Context())
				require.NoError(t, err)
			}

			require.Equal(t, 1, panel.Logins())
			require.Equal(t, 5, panel.Requests(pathList))
			require.EqualValues(t, 4, factory.Cache(flavor).Stats().Hits)
		})
	}
}

func TestExecutor_SharedAcrossClients(t *testing.T) {
	t.Parallel()

	panel, first, factory := newClient(t, panelsdk.Flavor3XUI)
	second, err := factory.Client(panelsdk.Flavor3XUI, panel.URL(), panel.Credentials())
	require.NoError(t, err)
	require.Equal(t, first.Identity(), second.Identity())

	clients := []panelsdk.PanelClient{first, second, first, second}
	errs := make([]error, len(clients))

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.ListInbounds(t.Context())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, panel.Logins())
}

func TestExecutor_ExpiredSessionLogsInOnce(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		now = time.Now()
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	panel, client, _ := newClient(t, panelsdk.FlavorTXUI, panelsdk.WithClock(clock))

	_, err := client.ListInbounds(t.Context())
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(panelsdk.DefaultSessionTTLTXUI)
	mu.Unlock()

	_, err = client.ListInbounds(t.Context())
	require.NoError(t, err)

	require.Equal(t, 2, panel.Logins())
	require.Equal(t, 2, panel.Requests(pathList))
}

func TestExecutor_ConcurrentRejectionsLogInOnce(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, flavor)

			_, err := client.ListInbounds(t.Context())
			require.NoError(t, err)
			panel.ExpireSessions()

			const callers = 20
			var wg sync.WaitGroup
			errs := make([]error, callers)
			for i := range callers {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = client.ListInbounds(t.Context())
				}(i)
			}
			wg.Wait()

			for _, err := range errs {
				require.NoError(t, err)
			}
			require.Equal(t, 2, panel.Logins())
		})
	}
}

func TestExecutor_Retry(t *testing.T) {
	t.Parallel()

	t.Run("recovers after the panel drops its sessions", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.Flavor3XUI)

		_, err := client.ListInbounds(t.Context())
		require.NoError(t, err)

		panel.ExpireSessions()
		inbounds, err := client.ListInbounds(t.Context())
		require.NoError(t, err)
		require.Len(t, inbounds, 1)

		require.Equal(t, 2, panel.Logins())
		require.Equal(t, 3, panel.Requests(pathList))
	})

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		t.Run("retries once on "+http.StatusText(status), func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, panelsdk.FlavorTXUI)
			panel.FailNext(pathList, status)

			_, err := client.ListInbounds(t.Context())
			require.NoError(t, err)

			require.Equal(t, 2, panel.Requests(pathList))
			require.Equal(t, 2, panel.Logins())
		})
	}

	t.Run("second rejection is a hard error", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.Flavor3XUI)
		panel.RejectSessions(true)

		_, err := client.ListInbounds(t.Context())

		var remoteErr *panelsdk.RemoteOperationError
		require.ErrorAs(t, err, &remoteErr)
		require.True(t, remoteErr.IsAuthClass())
		require.Equal(t, http.StatusNotFound, remoteErr.StatusCode)
		require.Equal(t, 2, panel.Requests(pathList))
	})

	t.Run("other statuses are not retried", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.FlavorTXUI)
		panel.FailNext(pathList, http.StatusInternalServerError)

		_, err := client.ListInbounds(t.Context())

		var remoteErr *panelsdk.RemoteOperationError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
		require.Contains(t, remoteErr.Body, "forced failure")
		require.False(t, remoteErr.IsAuthClass())
		require.Equal(t, 1, panel.Requests(pathList))
		require.Equal(t, 1, panel.Logins())
	})
}

func TestExecutor_MalformedBodyIsEmpty(t *testing.T) {
	t.Parallel()

	panel, client, _ := newClient(t, panelsdk.FlavorTXUI)
	panel.Malformed(pathList)

	inbounds, err := client.ListInbounds(t.Context())
	require.NoError(t, err)
	require.Empty(t, inbounds)
	require.NotNil(t, inbounds)
}

func TestExecutor_LoginFailure(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel := panelsdktest.New(t, flavor)
			factory := panelsdk.NewFactory(panelsdk.DefaultFactoryConfig())
			t.Cleanup(factory.Close)

			client, err := factory.Client(flavor, panel.URL(), panelsdk.Credentials{Username: "admin", Password: "nope"})
			require.NoError(t, err)

			_, err = client.ListInbounds(t.Context())

			var authErr *panelsdk.AuthenticationError
			require.ErrorAs(t, err, &authErr)
			require.Equal(t, "wrong username or password", authErr.Msg)
			require.Equal(t, 0, panel.Requests(pathList))
			require.Equal(t, 0, factory.Cache(flavor).Stats().Entries)
		})
	}
}

func TestExecutor_OnlineClientsLogin(t *testing.T) {
	t.Parallel()

	const pathOnlines = "panel/api/inbounds/onlines"

	t.Run("3x-ui sends the cached session without ensuring a login", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.Flavor3XUI)
		panel.SetOnline("a@x.com")

		emails, err := client.ListOnlineClients(t.Context())
		require.NoError(t, err)
		require.Equal(t, []string{"a@x.com"}, emails)

		// First attempt goes out bare and is rejected, the retry logs in.
		require.Equal(t, 2, panel.Requests(pathOnlines))
		require.Equal(t, 1, panel.Logins())

		_, err = client.ListOnlineClients(t.Context())
		require.NoError(t, err)
		require.Equal(t, 3, panel.Requests(pathOnlines))
	})

	t.Run("tx-ui ensures a login first", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.FlavorTXUI)

		emails, err := client.ListOnlineClients(t.Context())
		require.NoError(t, err)
		require.Empty(t, emails)
		require.Equal(t, 1, panel.Requests(pathOnlines))
		require.Equal(t, 1, panel.Logins())
	})
}

func TestHealthCheck_DoesNotTouchCache(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, factory := newClient(t, flavor)

			status, err := client.HealthCheck(t.Context())
			require.NoError(t, err)
			require.True(t, status.Online)
			require.Equal(t, "1.8.24", status.XrayVersion)
			require.EqualValues(t, 2048, status.MemTotal)

			stats := factory.Cache(flavor).Stats()
			require.Zero(t, stats.Logins)
			require.Zero(t, stats.Entries)
			require.Equal(t, 1, panel.Logins())
			require.Zero(t, factory.Transports().Len())
		})
	}
}

func TestHealthCheck_BadCredentials(t *testing.T) {
	t.Parallel()

	panel := panelsdktest.New(t, panelsdk.Flavor3XUI)
	factory := panelsdk.NewFactory(panelsdk.DefaultFactoryConfig())
	t.Cleanup(factory.Close)

	client, err := factory.Client(panelsdk.Flavor3XUI, panel.URL(), panelsdk.Credentials{Username: "x", Password: "y"})
	require.NoError(t, err)

	_, err = client.HealthCheck(t.Context())
	var authErr *panelsdk.AuthenticationError
	require.ErrorAs(t, err, &authErr)
}
