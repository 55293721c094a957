/*
Package panelsdk is the session layer and client for 3x-ui and tx-ui proxy panels.

# Overview

Panels authenticate with a cookie obtained from a login exchange. Logging in on every
call is slow and noisy, and cookies expire behind the caller's back. This package keeps
one session per panel, renews it when it ages out, and recovers once when the panel
rejects it mid-request.

The package is organized in layers, leaves first:

  - CredentialCache: at most one Session per panel URL, single-flight login
  - TransportPool: one http.Client (and connection pool) per panel URL
  - Executor: runs one Operation, ensuring a session and retrying once
  - PanelClient: the operation contract, implemented once per Flavor
  - Factory: builds PanelClients sharing caches and transports

# Getting a client

	factory := panelsdk.NewFactory(panelsdk.DefaultFactoryConfig())
	defer factory.Close()

	client, err := factory.Client(panelsdk.Flavor3XUI, "https://panel.example.com:2053/path", panelsdk.Credentials{
		Username: "admin",
		Password: "secret",
	})

	inbounds, err := client.ListInbounds(ctx)
	ok, err := client.AddClient(ctx, 7, "xtls-rprx-vision", panelsdk.ClientDraft{ID: id, Email: "a@x.com", Enable: true})

Two clients built for the same URL by the same Factory share one session.

# Sessions and retries

Each Flavor has its own CredentialCache. 3x-ui sessions are reused for 3500 seconds,
tx-ui sessions for 300. A session is only reused for the exact URL and username it was
issued for.

When a panel answers 401, 403 or 404, the session is treated as gone. The Executor forces a
fresh login and resends the request once. A second rejection surfaces as a
*RemoteOperationError, so a panel with wrong credentials or a dead API is never hammered.

HealthCheck works differently. It logs in on a throwaway http.Client with a short
timeout and never reads or writes the cache.

# Errors

  - *AuthenticationError: the login exchange failed
  - *RemoteOperationError: the panel answered with a non-success status
  - *MalformedResponseError: logged only; the call returns an empty result

Mutations return the panel's own success flag next to the error. A panel saying
success=false is not an error at this layer.
*/
package panelsdk
