package panelsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// Panel API paths, relative to the panel identity.
const (
	pathLogin          = "login"
	pathInboundList    = "panel/api/inbounds/list"
	pathAddClient      = "panel/api/inbounds/addClient"
	pathUpdateClient   = "panel/api/inbounds/updateClient/"
	pathOnlines        = "panel/api/inbounds/onlines"
	pathClientTraffics = "panel/api/inbounds/getClientTraffics/"
	pathServerStatus   = "panel/api/server/status"
)

func pathDelClient(inboundID int, uuid string) string {
	return "panel/api/inbounds/" + strconv.Itoa(inboundID) + "/delClient/" + url.PathEscape(uuid)
}

func pathResetTraffic(inboundID int, email string) string {
	return "panel/api/inbounds/" + strconv.Itoa(inboundID) + "/resetClientTraffic/" + url.PathEscape(email)
}

// base holds what both flavors share: the target, the executor of the
// flavor and the pieces needed for uncached health probes.
type base struct {
	target        Target
	exec          *Executor
	auth          Authenticator
	transports    *TransportPool
	healthTimeout time.Duration
}

func (b *base) Identity() string { return b.target.Identity }

func (b *base) call(ctx context.Context, op Operation) (*Response, error) {
	return b.exec.Execute(ctx, b.target, op)
}

func (b *base) ListInbounds(ctx context.Context) ([]Inbound, error) {
	resp, err := b.call(ctx, Operation{Method: http.MethodGet, Path: pathInboundList})
	if err != nil {
		return nil, err
	}

	var wire []wireInbound
	if !b.decodeObj(ctx, resp, pathInboundList, &wire) {
		return []Inbound{}, nil
	}

	out := make([]Inbound, 0, len(wire))
	for _, w := range wire {
		in, err := w.inbound()
		if err != nil {
			slogx.FromContext(ctx).Warn("ignoring unparseable inbound settings",
				"panel", b.target.Identity,
				"inbound_id", w.ID,
				"error", &MalformedResponseError{Path: pathInboundList, Err: err},
			)
		}
		out = append(out, in)
	}
	return out, nil
}

func (b *base) onlines(ctx context.Context, skipEnsureLogin bool) ([]string, error) {
	resp, err := b.call(ctx, Operation{
		Method:          http.MethodPost,
		Path:            pathOnlines,
		SkipEnsureLogin: skipEnsureLogin,
	})
	if err != nil {
		return nil, err
	}

	emails := []string{}
	if !b.decodeObj(ctx, resp, pathOnlines, &emails) || emails == nil {
		return []string{}, nil
	}
	return emails, nil
}

func (b *base) DeleteClient(ctx context.Context, inboundID int, uuid string) (bool, error) {
	resp, err := b.call(ctx, Operation{Method: http.MethodPost, Path: pathDelClient(inboundID, uuid)})
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (b *base) ResetClientUsage(ctx context.Context, inboundID int, email string) (bool, error) {
	resp, err := b.call(ctx, Operation{Method: http.MethodPost, Path: pathResetTraffic(inboundID, email)})
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (b *base) GetClientByEmail(ctx context.Context, email string) (*Client, error) {
	path := pathClientTraffics + url.PathEscape(email)
	resp, err := b.call(ctx, Operation{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, nil
	}

	var t wireTraffic
	if !b.decodeObj(ctx, resp, path, &t) || t.Email == "" {
		return nil, nil
	}
	c := t.client()

	// Older panels leave uuid out of traffic records; settings still have it.
	if c.ID == "" {
		b.fillFromInbounds(ctx, &c)
	}
	return &c, nil
}

func (b *base) fillFromInbounds(ctx context.Context, c *Client) {
	inbounds, err := b.ListInbounds(ctx)
	if err != nil {
		slogx.FromContext(ctx).Debug("could not resolve client settings", "panel", b.target.Identity, "email", c.Email, "error", err)
		return
	}

	for _, in := range inbounds {
		for _, known := range in.Clients {
			if known.Email != c.Email {
				continue
			}
			if c.ID == "" {
				c.ID = known.ID
			}
			if c.SubID == "" {
				c.SubID = known.SubID
			}
			c.Flow = known.Flow
			return
		}
	}
}

// postClient sends the {id, settings} body add and update use. settings is
// a JSON string holding a single-element clients array.
func (b *base) postClient(ctx context.Context, path string, inboundID int, client any) (bool, error) {
	settings, err := json.Marshal(map[string]any{"clients": []any{client}})
	if err != nil {
		return false, fmt.Errorf("panelsdk: encode client settings: %w", err)
	}

	resp, err := b.call(ctx, Operation{
		Method: http.MethodPost,
		Path:   path,
		JSON: map[string]any{
			"id":       inboundID,
			"settings": string(settings),
		},
	})
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// probe logs in on a throwaway client and reads server status with that
// session. Nothing is read from or written to the cache.
func (b *base) probe(ctx context.Context) (*ServerStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, b.healthTimeout)
	defer cancel()

	hc := b.transports.Ephemeral(b.healthTimeout)
	defer hc.CloseIdleConnections()

	cookies, err := b.auth.Login(ctx, hc, b.target.Identity, b.target.Credentials)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		Identity:   b.target.Identity,
		Username:   b.target.Credentials.Username,
		AcquiredAt: time.Now(),
		Cookies:    cookies,
	}

	op := Operation{Method: http.MethodGet, Path: pathServerStatus}
	resp, err := send(ctx, hc, b.target.Identity, sess, op)
	if err != nil {
		var expired *sessionExpiredError
		if errors.As(err, &expired) {
			return nil, &RemoteOperationError{Method: op.Method, Path: op.Path, StatusCode: expired.status, Body: expired.body}
		}
		return nil, err
	}

	var wire wireServerStatus
	b.decodeObj(ctx, resp, pathServerStatus, &wire)
	return wire.status(resp.Success), nil
}

// decodeObj unmarshals the envelope payload into v. It returns false when
// there is nothing usable; undecodable payloads are logged, not returned.
func (b *base) decodeObj(ctx context.Context, resp *Response, path string, v any) bool {
	if resp.Malformed || !resp.HasObj() {
		return false
	}
	if err := json.Unmarshal(resp.Obj, v); err != nil {
		slogx.FromContext(ctx).Warn("ignoring unparseable panel payload",
			"panel", b.target.Identity,
			"error", &MalformedResponseError{Path: path, Err: err},
		)
		return false
	}
	return true
}

func pickFlow(override, own string) string {
	if override != "" {
		return override
	}
	return own
}
