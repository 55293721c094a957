// Package idx generates the sortable identifiers used for stored records and
// request correlation.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID string, optionally behind a short kind prefix ("pnl_...").
type ID string

// Zero represents the zero value ID, don't use this unless its a placeholder.
const Zero ID = ""

// Record kind prefixes.
const (
	KindAdmin = "adm"
	KindPanel = "pnl"
)

// ErrInvalid reports a malformed ID string.
var ErrInvalid = errors.New("idx: invalid id")

var (
	globalOnce sync.Once
	global     *generator
)

// generator hands out ULIDs from a monotonic source so IDs minted within
// the same millisecond still sort in creation order.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) at(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

func gen() *generator {
	globalOnce.Do(func() {
		global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
	})
	return global
}

// New returns a bare ULID for the current time in UTC.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt returns a bare ULID stamped with t, useful in tests.
func NewAt(t time.Time) ID {
	return ID(gen().at(t).String())
}

// NewKind returns a ULID behind kind, e.g. "adm_01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV".
func NewKind(kind string) ID {
	return ID(kind + "_" + gen().at(time.Now().UTC()).String())
}

// Parse validates s, with or without a kind prefix.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if _, err := ulid.ParseStrict(ulidPart(s)); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

// MustParse parses or panics. Useful for hard-coded IDs in tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Kind returns the prefix of id, or "" for a bare ULID.
func (id ID) Kind() string {
	if i := strings.IndexByte(string(id), '_'); i > 0 {
		return string(id[:i])
	}
	return ""
}

// Time extracts the embedded UTC timestamp, or the zero time for invalid IDs.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(ulidPart(string(id)))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

func ulidPart(s string) string {
	if i := strings.LastIndexByte(s, '_'); i >= 0 {
		return s[i+1:]
	}
	return s
}
