package panelsdk

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/aussiebroadwan/xpanel/pkg/slogx"
)

// Target names the panel an operation runs against.
type Target struct {
	Identity    string
	Credentials Credentials
}

// Operation is one remote call.
type Operation struct {
	Method string
	Path   string // relative to the panel identity, no leading slash

	// Form and JSON are mutually exclusive request bodies.
	Form url.Values
	JSON any

	// SkipEnsureLogin sends the cached session if there is one instead of
	// logging in first. An auth-class answer still triggers the retry.
	SkipEnsureLogin bool
}

// Response is a decoded panel answer.
type Response struct {
	StatusCode int
	Envelope

	// Malformed is set when the 2xx body was not an envelope. Envelope is
	// then zero.
	Malformed bool
}

// Executor runs operations with session establishment and a single retry on
// an auth-class failure.
type Executor struct {
	cache      *CredentialCache
	transports *TransportPool
	timeout    time.Duration
}

// NewExecutor returns an executor that takes sessions from cache and
// connections from transports. timeout applies when the caller set none.
func NewExecutor(cache *CredentialCache, transports *TransportPool, timeout time.Duration) *Executor {
	if transports == nil {
		transports = cache.transports
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Executor{cache: cache, transports: transports, timeout: timeout}
}

// Execute performs op against t. At most two attempts are made: the second
// one only after the first was rejected as unauthenticated and the rejected
// session was renewed.
func (e *Executor) Execute(ctx context.Context, t Target, op Operation) (*Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var sess *Session
	if op.SkipEnsureLogin {
		sess = e.cache.Peek(t.Identity, t.Credentials.Username)
	} else {
		var err error
		sess, err = e.cache.GetOrRefresh(ctx, t.Identity, t.Credentials, false)
		if err != nil {
			return nil, err
		}
	}

	hc := e.transports.Client(t.Identity)
	resp, err := send(ctx, hc, t.Identity, sess, op)

	var expired *sessionExpiredError
	if !errors.As(err, &expired) {
		return resp, err
	}

	slogx.FromContext(ctx).Info("panel session rejected, logging in again",
		"panel", t.Identity,
		"path", op.Path,
		"status", expired.status,
	)

	sess, err = e.cache.Renew(ctx, t.Identity, t.Credentials, sess)
	if err != nil {
		return nil, err
	}

	resp, err = send(ctx, hc, t.Identity, sess, op)
	if errors.As(err, &expired) {
		return nil, &RemoteOperationError{
			Method:     op.Method,
			Path:       op.Path,
			StatusCode: expired.status,
			Body:       expired.body,
		}
	}

	return resp, err
}
