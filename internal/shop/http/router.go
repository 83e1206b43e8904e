package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taxc/storefront/internal/shop/service"
	"github.com/taxc/storefront/internal/shop/store"
	"github.com/taxc/storefront/pkg/httpx"
	"github.com/taxc/storefront/pkg/jwtx"
	"github.com/taxc/storefront/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	sessionTTL   time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store              store.Store
	IdentityService    *service.IdentityService
	EntitlementService *service.EntitlementService
	PurchaseService    *service.PurchaseService
	DeliveryService    *service.DeliveryService
}

func NewRouter(
	verifier jwtx.Verifier,
	sessionTTL time.Duration,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		sessionTTL:   sessionTTL,
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
	r.registerIdentity()
	r.registerCatalog()
	r.registerPurchases()
	r.registerDelivery()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerIdentity() {
	registerHandler := &RegisterHandler{
		IdentityService: r.IdentityService,
		SessionTTL:      r.sessionTTL,
	}
	loginHandler := &LoginHandler{
		IdentityService: r.IdentityService,
		SessionTTL:      r.sessionTTL,
	}

	// POST /register and /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - authenticated, lenient rate limit by user
	meHandler := &MeHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(meHandler,
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /logout - clears the cookie; works with or without a valid session
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(LogoutHandler(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerCatalog() {
	// GET /items - public catalog, high limit
	itemsHandler := &ItemsHandler{Store: r.store}
	r.Mux.Handle("GET /v1/items",
		httpx.Chain(itemsHandler,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerPurchases() {
	// GET /purchased?item= - authenticated ownership query
	purchasedHandler := &PurchasedHandler{EntitlementService: r.EntitlementService}
	r.Mux.Handle("GET /v1/purchased",
		httpx.Chain(purchasedHandler,
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /library - authenticated, everything owned
	libraryHandler := &LibraryHandler{
		EntitlementService: r.EntitlementService,
		Store:              r.store,
	}
	r.Mux.Handle("GET /v1/library",
		httpx.Chain(libraryHandler,
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /purchase/verify - authenticated, moderate rate limit by user.
	// Each call hits the payment processor, so keep the ceiling low.
	verifyHandler := &PurchaseVerifyHandler{PurchaseService: r.PurchaseService}
	r.Mux.Handle("POST /v1/purchase/verify",
		httpx.Chain(verifyHandler,
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerDelivery() {
	// POST /download - authenticated, moderate rate limit by user (each call
	// mints a fresh signed link)
	downloadHandler := &DownloadHandler{DeliveryService: r.DeliveryService}
	r.Mux.Handle("POST /v1/download",
		httpx.Chain(downloadHandler,
			httpx.SessionMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
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
