package panelsdk_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
	"github.com/aussiebroadwan/xpanel/pkg/panelsdk/panelsdktest"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

func TestPanelClient_Lifecycle(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, flavor)
			ctx := t.Context()
			require.Equal(t, flavor, client.Flavor())

			ok, err := client.AddClient(ctx, 7, "", panelsdk.ClientDraft{
				ID:     "uuid-1",
				Email:  "a@x.com",
				Enable: true,
				SubID:  "sub-a",
			})
			require.NoError(t, err)
			require.True(t, ok)

			got, err := client.GetClientByEmail(ctx, "a@x.com")
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, "uuid-1", got.ID)
			require.Equal(t, 7, got.InboundID)
			require.True(t, got.Enable)

			panel.SetTraffic("a@x.com", 100, 200)
			ok, err = client.ResetClientUsage(ctx, 7, "a@x.com")
			require.NoError(t, err)
			require.True(t, ok)
			stored, found := panel.Client("a@x.com")
			require.True(t, found)
			require.Zero(t, stored.Up)
			require.Zero(t, stored.Down)

			ok, err = client.DeleteClient(ctx, 7, "uuid-1")
			require.NoError(t, err)
			require.True(t, ok)

			got, err = client.GetClientByEmail(ctx, "a@x.com")
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestPanelClient_DeleteMissingReportsPanelFlag(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			_, client, _ := newClient(t, flavor)

			ok, err := client.DeleteClient(t.Context(), 7, "does-not-exist")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestPanelClient_FlowOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		override string
		own      string
		want     string
	}{
		{"override wins", "xtls-rprx-vision", "none", "xtls-rprx-vision"},
		{"own flow without override", "", "xtls-rprx-vision-udp443", "xtls-rprx-vision-udp443"},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, panelsdk.Flavor3XUI)

			ok, err := client.AddClient(t.Context(), 7, tt.override, panelsdk.ClientDraft{ID: "u", Email: "f@x.com", Flow: tt.own})
			require.NoError(t, err)
			require.True(t, ok)

			stored, found := panel.Client("f@x.com")
			require.True(t, found)
			require.Equal(t, tt.want, stored.Flow)
		})
	}
}

func TestPanelClient_UpdateKeepsUUID(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, flavor)
			panel.SeedClient(7, panelsdktest.Client{ID: "uuid-1", Email: "a@x.com", Enable: true})

			ok, err := client.UpdateClient(t.Context(), "uuid-1", 7, "xtls-rprx-vision", panelsdk.ClientDraft{
				ID:         "some-other-id",
				Email:      "a@x.com",
				Enable:     false,
				ExpiryTime: 1735689600000,
				Total:      50,
			})
			require.NoError(t, err)
			require.True(t, ok)

			payload := panel.LastClientPayload()
			require.Equal(t, "uuid-1", payload["id"])

			stored, found := panel.Client("a@x.com")
			require.True(t, found)
			require.Equal(t, "uuid-1", stored.ID)
			require.False(t, stored.Enable)
			require.EqualValues(t, 50, stored.TotalGB)
			require.Equal(t, "xtls-rprx-vision", stored.Flow)
		})
	}
}

func TestPanelClient_PayloadShape(t *testing.T) {
	t.Parallel()

	t.Run("tx-ui add carries reset, limitIp and comment", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.FlavorTXUI)

		_, err := client.AddClient(t.Context(), 7, "", panelsdk.ClientDraft{ID: "u1", Email: "t@x.com"})
		require.NoError(t, err)

		payload := panel.LastClientPayload()
		require.Contains(t, payload, "comment")
		require.Contains(t, payload, "limitIp")
		require.Contains(t, payload, "reset")
		require.NotContains(t, payload, "tgId")
	})

	t.Run("tx-ui update leaves reset, limitIp and comment out", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.FlavorTXUI)
		panel.SeedClient(7, panelsdktest.Client{ID: "u1", Email: "t@x.com"})

		_, err := client.UpdateClient(t.Context(), "u1", 7, "", panelsdk.ClientDraft{Email: "t@x.com"})
		require.NoError(t, err)

		payload := panel.LastClientPayload()
		require.NotContains(t, payload, "comment")
		require.NotContains(t, payload, "limitIp")
		require.NotContains(t, payload, "reset")
	})

	t.Run("3x-ui update carries the inbound id", func(t *testing.T) {
		t.Parallel()
		panel, client, _ := newClient(t, panelsdk.Flavor3XUI)
		panel.SeedClient(7, panelsdktest.Client{ID: "u1", Email: "s@x.com"})

		_, err := client.UpdateClient(t.Context(), "u1", 7, "", panelsdk.ClientDraft{Email: "s@x.com"})
		require.NoError(t, err)

		payload := panel.LastClientPayload()
		require.EqualValues(t, 7, payload["inboundId"])
		require.Contains(t, payload, "tgId")
	})
}

func TestPanelClient_ListInbounds(t *testing.T) {
	t.Parallel()

	panel, client, _ := newClient(t, panelsdk.FlavorTXUI)
	panel.AddInbound(9, "backup")
	panel.SeedClient(7, panelsdktest.Client{ID: "uuid-1", Email: "a@x.com", Flow: "xtls-rprx-vision", SubID: "s1", Up: 10})
	panel.SeedClient(9, panelsdktest.Client{ID: "uuid-2", Email: "b@x.com"})

	inbounds, err := client.ListInbounds(t.Context())
	require.NoError(t, err)
	require.Len(t, inbounds, 2)

	require.Equal(t, 7, inbounds[0].ID)
	require.Equal(t, "main", inbounds[0].Remark)
	require.Len(t, inbounds[0].Clients, 1)

	c := inbounds[0].Clients[0]
	require.Equal(t, "uuid-1", c.ID)
	require.Equal(t, "xtls-rprx-vision", c.Flow)
	require.Equal(t, "s1", c.SubID)
	require.EqualValues(t, 10, c.Up)
	require.Equal(t, 7, c.InboundID)
}

func TestPanelClient_GetClientByEmailResolvesUUID(t *testing.T) {
	t.Parallel()

	panel, client, _ := newClient(t, panelsdk.Flavor3XUI)
	panel.OmitTrafficUUID()
	panel.SeedClient(7, panelsdktest.Client{ID: "uuid-9", Email: "old@x.com", Flow: "xtls-rprx-vision", SubID: "sub9"})

	got, err := client.GetClientByEmail(t.Context(), "old@x.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "uuid-9", got.ID)
	require.Equal(t, "sub9", got.SubID)
	require.Equal(t, "xtls-rprx-vision", got.Flow)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	factory := panelsdk.NewFactory(panelsdk.FactoryConfig{})
	t.Cleanup(factory.Close)

	t.Run("flavor ttls", func(t *testing.T) {
		require.Equal(t, panelsdk.DefaultSessionTTL3XUI, factory.Cache(panelsdk.Flavor3XUI).TTL())
		require.Equal(t, panelsdk.DefaultSessionTTLTXUI, factory.Cache(panelsdk.FlavorTXUI).TTL())
	})

	t.Run("unknown flavor", func(t *testing.T) {
		_, err := factory.Client("marzban", "https://panel.example.com", panelsdk.Credentials{})
		require.ErrorIs(t, err, panelsdk.ErrUnsupportedFlavor)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := factory.Client(panelsdk.Flavor3XUI, "panel.example.com", panelsdk.Credentials{})
		require.ErrorIs(t, err, panelsdk.ErrInvalidURL)
	})
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://panel.example.com", "https://panel.example.com/", false},
		{"https://panel.example.com/", "https://panel.example.com/", false},
		{" http://10.0.0.1:2053/secret ", "http://10.0.0.1:2053/secret/", false},
		{"https://panel.example.com/base/?x=1#frag", "https://panel.example.com/base/", false},
		{"", "", true},
		{"ftp://panel.example.com", "", true},
		{"/relative/path", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := panelsdk.NormalizeURL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, panelsdk.ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlavor(t *testing.T) {
	t.Parallel()

	f, err := panelsdk.ParseFlavor("")
	require.NoError(t, err)
	require.Equal(t, panelsdk.Flavor3XUI, f)

	f, err = panelsdk.ParseFlavor(" TX-UI ")
	require.NoError(t, err)
	require.Equal(t, panelsdk.FlavorTXUI, f)

	_, err = panelsdk.ParseFlavor("marzban")
	require.ErrorIs(t, err, panelsdk.ErrUnsupportedFlavor)
}

func TestPanelClient_UnparseableSettingsAreLogged(t *testing.T) {
	t.Parallel()

	for _, flavor := range panelsdk.Flavors {
		t.Run(string(flavor), func(t *testing.T) {
			t.Parallel()
			panel, client, _ := newClient(t, flavor)
			panel.SeedClient(7, panelsdktest.Client{ID: "uuid-1", Email: "a@x.com", Enable: true, Flow: "xtls-rprx-vision"})
			panel.OmitTrafficUUID()
			panel.CorruptSettings()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
			ctx := slogx.WithContext(t.Context(), logger)

			inbounds, err := client.ListInbounds(ctx)
			require.NoError(t, err)
			require.Len(t, inbounds, 1)

			// The counters survive, the settings-only fields do not.
			require.Len(t, inbounds[0].Clients, 1)
			require.Equal(t, "a@x.com", inbounds[0].Clients[0].Email)
			require.Empty(t, inbounds[0].Clients[0].Flow)

			out := buf.String()
			require.Contains(t, out, "level=WARN")
			require.Contains(t, out, "ignoring unparseable inbound settings")
			require.Contains(t, out, "inbound_id=7")
			require.Contains(t, out, pathList)
		})
	}
}
