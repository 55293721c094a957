package panelsdk

import (
	"net/http"
	"time"
)

// Session is the proof of a successful login against one panel. It is owned
// by a CredentialCache and treated as immutable once stored.
type Session struct {
	Identity   string
	Username   string
	AcquiredAt time.Time
	TTL        time.Duration
	Cookies    []*http.Cookie
}

// Valid reports whether the session may be reused at now for identity and
// username. A session issued for another URL or account is never valid.
func (s *Session) Valid(now time.Time, identity, username string) bool {
	if s == nil {
		return false
	}
	if s.Identity != identity || s.Username != username {
		return false
	}
	return now.Sub(s.AcquiredAt) < s.TTL
}

// ExpiresAt returns the moment the session stops being valid.
func (s *Session) ExpiresAt() time.Time {
	return s.AcquiredAt.Add(s.TTL)
}

// attach copies the session cookies onto req. A nil session attaches nothing.
func (s *Session) attach(req *http.Request) {
	if s == nil {
		return
	}
	for _, c := range s.Cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}
