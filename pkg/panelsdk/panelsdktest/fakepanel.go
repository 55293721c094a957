// Package panelsdktest provides an in-memory panel server speaking both the
// 3x-ui and tx-ui dialects, for tests of code built on panelsdk.
package panelsdktest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aussiebroadwan/xpanel/pkg/panelsdk"
)

// Default credentials accepted by a new Panel.
const (
	Username = "admin"
	Password = "admin-pass"
)

// Client is the panel-side view of one client.
type Client struct {
	ID         string
	Email      string
	Enable     bool
	ExpiryTime int64
	TotalGB    int64
	Flow       string
	SubID      string
	Up         int64
	Down       int64
}

type inbound struct {
	id       int
	remark   string
	protocol string
	port     int
	clients  []*Client
}

// Panel is a fake panel backed by httptest.Server.
type Panel struct {
	Server   *httptest.Server
	Flavor   panelsdk.Flavor
	Username string
	Password string

	mu          sync.Mutex
	sessions    map[string]bool
	inbounds    map[int]*inbound
	online      []string
	logins      int
	requests    map[string]int
	failNext    map[string][]int
	malformed   map[string]bool
	rejectAll   bool
	lastClient  map[string]any
	omitUUID    bool
	badSettings bool
}

// New starts a fake panel of flavor and closes it when t ends.
func New(t testing.TB, flavor panelsdk.Flavor) *Panel {
	t.Helper()

	p := &Panel{
		Flavor:    flavor,
		Username:  Username,
		Password:  Password,
		sessions:  make(map[string]bool),
		inbounds:  make(map[int]*inbound),
		requests:  make(map[string]int),
		failNext:  make(map[string][]int),
		malformed: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", p.handleLogin)
	mux.HandleFunc("GET /panel/api/inbounds/list", p.handleList)
	mux.HandleFunc("POST /panel/api/inbounds/addClient", p.handleAdd)
	mux.HandleFunc("POST /panel/api/inbounds/updateClient/{uuid}", p.handleUpdate)
	mux.HandleFunc("POST /panel/api/inbounds/{id}/delClient/{uuid}", p.handleDelete)
	mux.HandleFunc("POST /panel/api/inbounds/{id}/resetClientTraffic/{email}", p.handleReset)
	mux.HandleFunc("POST /panel/api/inbounds/onlines", p.handleOnlines)
	mux.HandleFunc("GET /panel/api/inbounds/getClientTraffics/{email}", p.handleTraffic)
	mux.HandleFunc("GET /panel/api/server/status", p.handleStatus)

	p.Server = httptest.NewServer(p.intercept(mux))
	t.Cleanup(p.Server.Close)

	return p
}

// URL returns the panel base URL with its trailing slash.
func (p *Panel) URL() string { return p.Server.URL + "/" }

// Credentials returns credentials the panel accepts.
func (p *Panel) Credentials() panelsdk.Credentials {
	return panelsdk.Credentials{Username: p.Username, Password: p.Password}
}

// CookieName is the session cookie the flavor sets.
func (p *Panel) CookieName() string {
	if p.Flavor == panelsdk.FlavorTXUI {
		return "session"
	}
	return "3x-ui"
}

// AddInbound registers an empty inbound.
func (p *Panel) AddInbound(id int, remark string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inbounds[id] = &inbound{id: id, remark: remark, protocol: "vless", port: 40000 + id}
}

// SeedClient puts c under inbound id without going through the API.
func (p *Panel) SeedClient(id int, c Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if in, ok := p.inbounds[id]; ok {
		cc := c
		in.clients = append(in.clients, &cc)
	}
}

// SetOnline replaces the online email list.
func (p *Panel) SetOnline(emails ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = append([]string(nil), emails...)
}

// ExpireSessions forgets every issued cookie, like a panel restart.
func (p *Panel) ExpireSessions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = make(map[string]bool)
}

// RejectSessions makes every authenticated route fail even with a fresh cookie.
func (p *Panel) RejectSessions(reject bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejectAll = reject
}

// FailNext queues statuses returned, one per request, for path. path has no
// leading slash, e.g. "panel/api/inbounds/list".
func (p *Panel) FailNext(path string, statuses ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext[path] = append(p.failNext[path], statuses...)
}

// Malformed makes path answer 200 with a body that is not JSON.
func (p *Panel) Malformed(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.malformed[path] = true
}

// OmitTrafficUUID drops uuid and subId from traffic records, as older
// panel releases do.
func (p *Panel) OmitTrafficUUID() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.omitUUID = true
}

// CorruptSettings makes the inbound list carry a settings string that is not
// JSON, while clientStats stay intact.
func (p *Panel) CorruptSettings() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.badSettings = true
}

// Logins returns how many successful login exchanges happened.
func (p *Panel) Logins() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logins
}

// Requests returns how many requests reached path, failed ones included.
func (p *Panel) Requests(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[path]
}

// LastClientPayload returns the client object of the last add or update.
func (p *Panel) LastClientPayload() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastClient
}

// Client looks a client up by email.
func (p *Panel) Client(email string) (Client, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, c := p.find(email); c != nil {
		return *c, true
	}
	return Client{}, false
}

// SetTraffic sets the counters of email.
func (p *Panel) SetTraffic(email string, up, down int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, c := p.find(email); c != nil {
		c.Up, c.Down = up, down
	}
}

// ============================================================================
// Handlers
// ============================================================================

type envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

func (p *Panel) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")

		p.mu.Lock()
		p.requests[path]++
		var forced int
		if q := p.failNext[path]; len(q) > 0 {
			forced, p.failNext[path] = q[0], q[1:]
		}
		authed := path == "login" || p.authorized(r)
		broken := p.malformed[path]
		p.mu.Unlock()

		switch {
		case forced != 0:
			http.Error(w, "forced failure", forced)
		case !authed:
			// 3x-ui hides API routes behind 404 when the cookie is bad.
			if p.Flavor == panelsdk.FlavorTXUI {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			} else {
				http.NotFound(w, r)
			}
		case broken:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>login</html>"))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (p *Panel) authorized(r *http.Request) bool {
	if p.rejectAll {
		return false
	}
	c, err := r.Cookie(p.CookieName())
	return err == nil && p.sessions[c.Value]
}

func (p *Panel) handleLogin(w http.ResponseWriter, r *http.Request) {
	var username, password string
	if p.Flavor == panelsdk.FlavorTXUI {
		if err := r.ParseForm(); err == nil {
			username, password = r.PostForm.Get("username"), r.PostForm.Get("password")
		}
	} else {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			username, password = body.Username, body.Password
		}
	}

	if username != p.Username || password != p.Password {
		writeJSON(w, envelope{Success: false, Msg: "wrong username or password"})
		return
	}

	var b [16]byte
	_, _ = rand.Read(b[:])
	token := hex.EncodeToString(b[:])

	p.mu.Lock()
	p.sessions[token] = true
	p.logins++
	p.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: p.CookieName(), Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, envelope{Success: true, Msg: "login successfully"})
}

type wireClient struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Enable     bool   `json:"enable"`
	ExpiryTime int64  `json:"expiryTime"`
	TotalGB    int64  `json:"totalGB"`
	Flow       string `json:"flow"`
	SubID      string `json:"subId"`
}

func (p *Panel) handleList(w http.ResponseWriter, _ *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]int, 0, len(p.inbounds))
	for id := range p.inbounds {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		in := p.inbounds[id]
		settings := struct {
			Clients []wireClient `json:"clients"`
		}{Clients: []wireClient{}}
		stats := make([]map[string]any, 0, len(in.clients))
		for _, c := range in.clients {
			settings.Clients = append(settings.Clients, wireClient{
				ID: c.ID, Email: c.Email, Enable: c.Enable, ExpiryTime: c.ExpiryTime,
				TotalGB: c.TotalGB, Flow: c.Flow, SubID: c.SubID,
			})
			stats = append(stats, p.traffic(in.id, c))
		}
		raw, _ := json.Marshal(settings)
		if p.badSettings {
			raw = []byte("{not json")
		}
		out = append(out, map[string]any{
			"id":          in.id,
			"remark":      in.remark,
			"protocol":    in.protocol,
			"port":        in.port,
			"enable":      true,
			"settings":    string(raw),
			"clientStats": stats,
		})
	}

	writeJSON(w, envelope{Success: true, Obj: out})
}

func (p *Panel) traffic(inboundID int, c *Client) map[string]any {
	t := map[string]any{
		"id":         len(c.Email),
		"inboundId":  inboundID,
		"enable":     c.Enable,
		"email":      c.Email,
		"up":         c.Up,
		"down":       c.Down,
		"expiryTime": c.ExpiryTime,
		"total":      c.TotalGB,
		"reset":      0,
	}
	if !p.omitUUID {
		t["uuid"] = c.ID
		t["subId"] = c.SubID
	}
	return t
}

type clientBody struct {
	ID       int    `json:"id"`
	Settings string `json:"settings"`
}

func (p *Panel) decodeClient(r *http.Request) (int, wireClient, bool) {
	var body clientBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return 0, wireClient{}, false
	}

	var settings struct {
		Clients []map[string]any `json:"clients"`
	}
	if err := json.Unmarshal([]byte(body.Settings), &settings); err != nil || len(settings.Clients) != 1 {
		return 0, wireClient{}, false
	}

	raw, _ := json.Marshal(settings.Clients[0])
	var c wireClient
	if err := json.Unmarshal(raw, &c); err != nil {
		return 0, wireClient{}, false
	}

	p.mu.Lock()
	p.lastClient = settings.Clients[0]
	p.mu.Unlock()

	return body.ID, c, true
}

func (p *Panel) handleAdd(w http.ResponseWriter, r *http.Request) {
	inboundID, c, ok := p.decodeClient(r)
	if !ok {
		writeJSON(w, envelope{Success: false, Msg: "invalid request"})
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	in, ok := p.inbounds[inboundID]
	if !ok {
		writeJSON(w, envelope{Success: false, Msg: "inbound not found"})
		return
	}
	if _, dup := p.find(c.Email); dup != nil {
		writeJSON(w, envelope{Success: false, Msg: "duplicate email: " + c.Email})
		return
	}

	in.clients = append(in.clients, &Client{
		ID: c.ID, Email: c.Email, Enable: c.Enable, ExpiryTime: c.ExpiryTime,
		TotalGB: c.TotalGB, Flow: c.Flow, SubID: c.SubID,
	})
	writeJSON(w, envelope{Success: true, Msg: "client added"})
}

func (p *Panel) handleUpdate(w http.ResponseWriter, r *http.Request) {
	inboundID, c, ok := p.decodeClient(r)
	if !ok {
		writeJSON(w, envelope{Success: false, Msg: "invalid request"})
		return
	}
	uuid := r.PathValue("uuid")

	p.mu.Lock()
	defer p.mu.Unlock()

	in, ok := p.inbounds[inboundID]
	if !ok {
		writeJSON(w, envelope{Success: false, Msg: "inbound not found"})
		return
	}
	for _, existing := range in.clients {
		if existing.ID != uuid {
			continue
		}
		existing.Email = c.Email
		existing.Enable = c.Enable
		existing.ExpiryTime = c.ExpiryTime
		existing.TotalGB = c.TotalGB
		existing.Flow = c.Flow
		existing.SubID = c.SubID
		writeJSON(w, envelope{Success: true, Msg: "client updated"})
		return
	}
	writeJSON(w, envelope{Success: false, Msg: "client not found"})
}

func (p *Panel) handleDelete(w http.ResponseWriter, r *http.Request) {
	inboundID, _ := strconv.Atoi(r.PathValue("id"))
	uuid := r.PathValue("uuid")

	p.mu.Lock()
	defer p.mu.Unlock()

	in, ok := p.inbounds[inboundID]
	if !ok {
		writeJSON(w, envelope{Success: false, Msg: "inbound not found"})
		return
	}
	for i, c := range in.clients {
		if c.ID == uuid {
			in.clients = append(in.clients[:i], in.clients[i+1:]...)
			writeJSON(w, envelope{Success: true, Msg: "client deleted"})
			return
		}
	}
	writeJSON(w, envelope{Success: false, Msg: "client not found"})
}

func (p *Panel) handleReset(w http.ResponseWriter, r *http.Request) {
	inboundID, _ := strconv.Atoi(r.PathValue("id"))
	email := r.PathValue("email")

	p.mu.Lock()
	defer p.mu.Unlock()

	if in, ok := p.inbounds[inboundID]; ok {
		for _, c := range in.clients {
			if c.Email == email {
				c.Up, c.Down = 0, 0
				writeJSON(w, envelope{Success: true, Msg: "traffic reset"})
				return
			}
		}
	}
	writeJSON(w, envelope{Success: false, Msg: "client not found"})
}

func (p *Panel) handleOnlines(w http.ResponseWriter, _ *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var obj any
	if len(p.online) > 0 {
		obj = p.online
	}
	writeJSON(w, envelope{Success: true, Obj: obj})
}

func (p *Panel) handleTraffic(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	p.mu.Lock()
	defer p.mu.Unlock()

	in, c := p.find(email)
	if c == nil {
		writeJSON(w, envelope{Success: true, Obj: nil})
		return
	}
	writeJSON(w, envelope{Success: true, Obj: p.traffic(in.id, c)})
}

func (p *Panel) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, envelope{Success: true, Obj: map[string]any{
		"cpu":    12.5,
		"mem":    map[string]any{"current": 512, "total": 2048},
		"uptime": 3600,
		"xray":   map[string]any{"state": "running", "version": "1.8.24"},
	}})
}

// find must be called with mu held.
func (p *Panel) find(email string) (*inbound, *Client) {
	for _, in := range p.inbounds {
		for _, c := range in.clients {
			if c.Email == email {
				return in, c
			}
		}
	}
	return nil, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
