package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/xpanel/internal/panel/domain"
	"github.com/aussiebroadwan/xpanel/internal/panel/service"
	"github.com/aussiebroadwan/xpanel/internal/panel/store"
	"github.com/aussiebroadwan/xpanel/pkg/httpx"
	"github.com/aussiebroadwan/xpanel/pkg/jwtx"
	"github.com/aussiebroadwan/xpanel/pkg/slogx"

	_ "github.com/aussiebroadwan/xpanel/api/panel" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	Directory     service.Directory
	Clients       service.ClientFactory
	AdminService  *service.AdminService
	PanelService  *service.PanelService
	TokenService  *service.TokenService
	SystemService *service.SystemService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerPanels()
	r.registerAdmins()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						xpanel API
//	@version					0.1.0
//	@description				Multi-admin control plane for 3x-ui and tx-ui panels. Each admin manages the clients of one inbound on one panel.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/xpanel
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token from /v1/auth/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with token verification, a scope check and a per-admin
// rate limit.
func (r *Router) secured(h http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scope),
		httpx.RateLimitByAdmin(limit),
	)
}

func (r *Router) registerAuth() {
	h := &LoginHandler{AdminService: r.AdminService, TokenService: r.TokenService}

	// POST /login - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Directory: r.Directory, Clients: r.Clients}

	r.Mux.Handle("GET /v1/users", r.secured(h.HandleList, domain.ScopeUsersRead, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/users/{email}", r.secured(h.HandleGet, domain.ScopeUsersRead, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/users", r.secured(h.HandleCreate, domain.ScopeUsersWrite, httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/users/{uuid}", r.secured(h.HandleUpdate, domain.ScopeUsersWrite, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/users/{uuid}", r.secured(h.HandleDelete, domain.ScopeUsersWrite, httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/users/{email}/reset", r.secured(h.HandleReset, domain.ScopeUsersWrite, httpx.ModerateLimit))
}

func (r *Router) registerPanels() {
	h := &PanelsHandler{PanelService: r.PanelService}

	r.Mux.Handle("POST /v1/panels", r.secured(h.HandleCreate, domain.ScopePanelsWrite, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/panels", r.secured(h.HandleList, domain.ScopePanelsWrite, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/panels/{name}", r.secured(h.HandleDelete, domain.ScopePanelsWrite, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/panels/{name}/health", r.secured(h.HandleHealth, domain.ScopePanelsWrite, httpx.ModerateLimit))
}

func (r *Router) registerAdmins() {
	h := &AdminsHandler{AdminService: r.AdminService}

	r.Mux.Handle("POST /v1/admins", r.secured(h.HandleCreate, domain.ScopeAdminsWrite, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admins", r.secured(h.HandleList, domain.ScopeAdminsWrite, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admins/{username}", r.secured(h.HandleDelete, domain.ScopeAdminsWrite, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	h := &SystemHandler{SystemService: r.SystemService}
	r.Mux.Handle("GET /v1/system", r.secured(h.ServeHTTP, domain.ScopePanelsWrite, httpx.ModerateLimit))
}
