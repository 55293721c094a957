package panelsdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnsupportedFlavor is returned for a panel type no client exists for.
	ErrUnsupportedFlavor = errors.New("panelsdk: unsupported panel flavor")

	// ErrInvalidURL is returned when a panel URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("panelsdk: invalid panel url")

	// ErrNoSessionCookie is returned when a login answered 200 without a cookie.
	ErrNoSessionCookie = errors.New("panelsdk: login returned no session cookie")
)

// maxErrorBody caps how much of a failed response is kept on an error.
const maxErrorBody = 512

// ============================================================================
// AuthenticationError
// ============================================================================

// AuthenticationError reports a failed login exchange. The cache never keeps
// a session for the identity after one of these.
type AuthenticationError struct {
	// Identity is the normalized panel URL.
	Identity string

	// StatusCode is the HTTP status of the login response, 0 on network errors.
	StatusCode int

	// Msg is the panel's own message when it rejected the credentials.
	Msg string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("panelsdk: login to %s failed: %v", e.Identity, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("panelsdk: login to %s rejected: %s", e.Identity, e.Msg)
	default:
		return fmt.Sprintf("panelsdk: login to %s failed with status %d", e.Identity, e.StatusCode)
	}
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ============================================================================
// RemoteOperationError
// ============================================================================

// RemoteOperationError reports a non-success status from a panel call after
// the session retry was spent.
type RemoteOperationError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("panelsdk: %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsAuthClass reports whether the panel kept rejecting the session.
func (e *RemoteOperationError) IsAuthClass() bool {
	return isAuthClass(e.StatusCode)
}

// ============================================================================
// MalformedResponseError
// ============================================================================

// MalformedResponseError describes a 2xx body that was not a JSON envelope.
// The executor only logs it; callers see an empty Response instead.
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("panelsdk: malformed response from %s: %v", e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ============================================================================
// sessionExpiredError
// ============================================================================

// sessionExpiredError marks a response that rejected the attached session. It
// drives the single retry in Execute and never leaves this package.
type sessionExpiredError struct {
	status int
	body   string
}

func (e *sessionExpiredError) Error() string {
	return fmt.Sprintf("panelsdk: session rejected with status %d", e.status)
}

// isAuthClass treats 401, 403 and 404 alike. Panels answer 404 for API routes
// when the cookie is gone.
func isAuthClass(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}

func clip(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
