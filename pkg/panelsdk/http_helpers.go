package panelsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// maxBody caps how much of a panel response is read into memory.
const maxBody = 8 << 20

// setDefaultHeaders sets the headers every panel request carries.
func setDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")
}

// newRequest builds the HTTP request for op against identity.
func newRequest(ctx context.Context, identity string, op Operation) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch {
	case op.Form != nil:
		body = strings.NewReader(op.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case op.JSON != nil:
		b, err := json.Marshal(op.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, identity+op.Path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	setDefaultHeaders(req)

	return req, nil
}

// send performs one attempt of op with sess attached. An auth-class status
// comes back as *sessionExpiredError, any other non-2xx as
// *RemoteOperationError. A 2xx body that is not an envelope is logged and
// turned into an empty, Malformed response.
func send(ctx context.Context, hc *http.Client, identity string, sess *Session, op Operation) (*Response, error) {
	req, err := newRequest(ctx, identity, op)
	if err != nil {
		return nil, err
	}
	sess.attach(req)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("panelsdk: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("panelsdk: read response body: %w", err)
	}

	if isAuthClass(resp.StatusCode) {
		return nil, &sessionExpiredError{status: resp.StatusCode, body: clip(raw)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteOperationError{
			Method:     op.Method,
			Path:       op.Path,
			StatusCode: resp.StatusCode,
			Body:       clip(raw),
		}
	}

	out := &Response{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, &out.Envelope); err != nil {
		slogx.FromContext(ctx).Warn("ignoring unparseable panel response",
			"panel", identity,
			"error", &MalformedResponseError{Path: op.Path, Err: err},
		)
		return &Response{StatusCode: resp.StatusCode, Malformed: true}, nil
	}

	return out, nil
}
