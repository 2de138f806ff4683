package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/service"
	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
	"github.com/aussiebroadwan/oauthcore/pkg/httpx"
	"github.com/aussiebroadwan/oauthcore/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	ClientService *service.ClientService
	TokenService  *service.TokenService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
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
	r.registerTokens()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerTokens() {
	h := &TokenHandler{
		ClientService: r.ClientService,
		TokenService:  r.TokenService,
	}

	// GET /v1/tokens/{id} - moderate rate limit by IP and client (brute force of secrets)
	r.Mux.Handle("GET /v1/tokens/{id}",
		httpx.Chain(h,
			httpx.RateLimitByClient(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
