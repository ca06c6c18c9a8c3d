package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kevalmehta17/EclipseStore/internal/auth"
	"github.com/kevalmehta17/EclipseStore/internal/service"
	"github.com/kevalmehta17/EclipseStore/pkg/health"
	"github.com/kevalmehta17/EclipseStore/pkg/middleware"
)

// Handler holds the services and session plumbing the routes need.
type Handler struct {
	authSvc    *service.AuthService
	productSvc *service.ProductService
	cartSvc    *service.CartService
	tokens     *auth.Manager
	cookies    *cookieManager
	logger     *slog.Logger
}

// Options configures a Handler.
type Options struct {
	AuthService    *service.AuthService
	ProductService *service.ProductService
	CartService    *service.CartService
	Tokens         *auth.Manager
	SecureCookies  bool
	Logger         *slog.Logger
}

// NewHandler builds the API handler.
func NewHandler(opts Options) *Handler {
	return &Handler{
		authSvc:    opts.AuthService,
		productSvc: opts.ProductService,
		cartSvc:    opts.CartService,
		tokens:     opts.Tokens,
		cookies:    newCookieManager(opts.SecureCookies, opts.Tokens.AccessTTL(), opts.Tokens.RefreshTTL()),
		logger:     opts.Logger,
	}
}

// RouterOptions carries the cross-cutting pieces mounted on the router.
type RouterOptions struct {
	ServiceName    string
	AllowedOrigins []string
	Health         *health.Handler
	Logger         *slog.Logger
}

// Routes mounts the full API surface.
func (h *Handler) Routes(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestLogging(opts.Logger))
	r.Use(middleware.Tracing(opts.ServiceName))
	r.Use(middleware.PrometheusMetrics(opts.ServiceName))
	r.Use(CORS(opts.AllowedOrigins))

	r.Get("/healthz", opts.Health.LivenessHandler())
	r.Get("/readyz", opts.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Post("/refresh", h.Refresh)
			r.With(h.Protect).Get("/profile", h.Profile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/featured", h.FeaturedProducts)
			r.Get("/recommended", h.RecommendedProducts)
			r.Get("/category/{category}", h.ProductsByCategory)
			r.Get("/{id}", h.GetProduct)

			// The unfiltered listing is a back-office view.
			r.Group(func(r chi.Router) {
				r.Use(h.Protect, h.AdminOnly)
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Patch("/{id}", h.ToggleFeaturedProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.Protect)
			r.Get("/", h.GetCart)
			r.Post("/", h.AddCartItem)
			r.Delete("/", h.ClearCart)
			r.Put("/{productID}", h.UpdateCartItem)
			r.Delete("/{productID}", h.RemoveCartItem)
		})
	})

	return r
}

// Server builds an http.Server with sane timeouts around the router.
func Server(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
