package panelsdk

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Flavor selects which panel dialect a PanelClient speaks.
type Flavor string

const (
	// Flavor3XUI is the MHSanaei 3x-ui panel. Sessions last about an hour.
	Flavor3XUI Flavor = "3x-ui"

	// FlavorTXUI is the tx-ui panel. Its cookies are short lived.
	FlavorTXUI Flavor = "tx-ui"
)

// Flavors lists every supported flavor.
var Flavors = []Flavor{Flavor3XUI, FlavorTXUI}

// ParseFlavor returns the Flavor for s. An empty string means 3x-ui.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case "", Flavor3XUI:
		return Flavor3XUI, nil
	case FlavorTXUI:
		return FlavorTXUI, nil
	default:
		return "", ErrUnsupportedFlavor
	}
}

// Credentials are what the login exchange sends to a panel.
type Credentials struct {
	Username string
	Password string

	// TwoFactorSecret is the base32 TOTP secret of the panel account. When
	// set, a fresh code is sent as twoFactorCode on every login.
	TwoFactorSecret string
}

// NormalizeURL validates raw and returns it with a trailing slash. The result
// is the panel identity used as cache and transport key.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}

	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	return u.String(), nil
}

// ============================================================================
// Domain types returned by PanelClient
// ============================================================================

// Inbound is a listener on the panel together with its clients.
type Inbound struct {
	ID         int      `json:"id"`
	Remark     string   `json:"remark"`
	Protocol   string   `json:"protocol"`
	Port       int      `json:"port"`
	Enable     bool     `json:"enable"`
	Up         int64    `json:"up"`
	Down       int64    `json:"down"`
	Total      int64    `json:"total"`
	ExpiryTime int64    `json:"expiry_time"`
	Clients    []Client `json:"clients"`
}

// Client is one proxy account under an inbound.
type Client struct {
	ID         string `json:"id"` // UUID, the stable key for update and delete
	Email      string `json:"email"`
	Enable     bool   `json:"enable"`
	ExpiryTime int64  `json:"expiry_time"` // unix millis, 0 = never
	Total      int64  `json:"total"`       // quota as stored by the panel, 0 = unlimited
	Flow       string `json:"flow"`
	SubID      string `json:"sub_id"`
	InboundID  int    `json:"inbound_id"`
	Up         int64  `json:"up"`
	Down       int64  `json:"down"`
	LastOnline int64  `json:"last_online,omitempty"`
}

// ClientDraft is the input for add and update calls.
type ClientDraft struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Enable     bool   `json:"enable"`
	ExpiryTime int64  `json:"expiry_time"`
	Total      int64  `json:"total"`
	Flow       string `json:"flow"`
	SubID      string `json:"sub_id"`
}

// ServerStatus is the answer of a health probe.
type ServerStatus struct {
	Online      bool    `json:"online"`
	CPU         float64 `json:"cpu"`
	MemCurrent  uint64  `json:"mem_current"`
	MemTotal    uint64  `json:"mem_total"`
	Uptime      uint64  `json:"uptime"`
	XrayState   string  `json:"xray_state,omitempty"`
	XrayVersion string  `json:"xray_version,omitempty"`
}

// ============================================================================
// Wire types
// ============================================================================

// Envelope is the JSON wrapper every panel response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Obj     json.RawMessage `json:"obj"`
}

// HasObj reports whether the envelope carries a non-null payload.
func (e Envelope) HasObj() bool {
	o := strings.TrimSpace(string(e.Obj))
	return o != "" && o != "null"
}

type wireInbound struct {
	ID          int           `json:"id"`
	Remark      string        `json:"remark"`
	Protocol    string        `json:"protocol"`
	Port        int           `json:"port"`
	Enable      bool          `json:"enable"`
	Up          int64         `json:"up"`
	Down        int64         `json:"down"`
	Total       int64         `json:"total"`
	ExpiryTime  int64         `json:"expiryTime"`
	Settings    string        `json:"settings"`
	ClientStats []wireTraffic `json:"clientStats"`
}

type wireTraffic struct {
	ID         int    `json:"id"`
	InboundID  int    `json:"inboundId"`
	Enable     bool   `json:"enable"`
	Email      string `json:"email"`
	UUID       string `json:"uuid"`
	SubID      string `json:"subId"`
	Up         int64  `json:"up"`
	Down       int64  `json:"down"`
	ExpiryTime int64  `json:"expiryTime"`
	Total      int64  `json:"total"`
	Reset      int    `json:"reset"`
	LastOnline int64  `json:"lastOnline"`
}

// wireClient is a client entry inside an inbound's settings string.
type wireClient struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Enable     bool   `json:"enable"`
	ExpiryTime int64  `json:"expiryTime"`
	TotalGB    int64  `json:"totalGB"`
	Flow       string `json:"flow"`
	SubID      string `json:"subId"`
}

type wireSettings struct {
	Clients []wireClient `json:"clients"`
}

type wireServerStatus struct {
	CPU float64 `json:"cpu"`
	Mem struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime uint64 `json:"uptime"`
	Xray   struct {
		State   string `json:"state"`
		Version string `json:"version"`
	} `json:"xray"`
}

func (t wireTraffic) client() Client {
	return Client{
		ID:         t.UUID,
		Email:      t.Email,
		Enable:     t.Enable,
		ExpiryTime: t.ExpiryTime,
		Total:      t.Total,
		SubID:      t.SubID,
		InboundID:  t.InboundID,
		Up:         t.Up,
		Down:       t.Down,
		LastOnline: t.LastOnline,
	}
}

// inbound joins the traffic records with the client settings by email. Stats
// carry the counters, settings carry uuid, flow and subId. An unparseable
// settings string still yields the inbound, without those fields, plus the
// parse error.
func (w wireInbound) inbound() (Inbound, error) {
	in := Inbound{
		ID:         w.ID,
		Remark:     w.Remark,
		Protocol:   w.Protocol,
		Port:       w.Port,
		Enable:     w.Enable,
		Up:         w.Up,
		Down:       w.Down,
		Total:      w.Total,
		ExpiryTime: w.ExpiryTime,
		Clients:    make([]Client, 0, len(w.ClientStats)),
	}

	var (
		settings    wireSettings
		settingsErr error
	)
	if w.Settings != "" {
		settingsErr = json.Unmarshal([]byte(w.Settings), &settings)
	}
	byEmail := make(map[string]wireClient, len(settings.Clients))
	for _, c := range settings.Clients {
		byEmail[c.Email] = c
	}

	for _, t := range w.ClientStats {
		c := t.client()
		if c.InboundID == 0 {
			c.InboundID = w.ID
		}
		if s, ok := byEmail[t.Email]; ok {
			if c.ID == "" {
				c.ID = s.ID
			}
			if c.SubID == "" {
				c.SubID = s.SubID
			}
			c.Flow = s.Flow
		}
		in.Clients = append(in.Clients, c)
	}

	return in, settingsErr
}

func (w wireServerStatus) status(online bool) *ServerStatus {
	return &ServerStatus{
		Online:      online,
		CPU:         w.CPU,
		MemCurrent:  w.Mem.Current,
		MemTotal:    w.Mem.Total,
		Uptime:      w.Uptime,
		XrayState:   w.Xray.State,
		XrayVersion: w.Xray.Version,
	}
}
