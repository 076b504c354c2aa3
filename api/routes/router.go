package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/wishlist-backend/api/controllers"
	"github.com/angelmondragon/wishlist-backend/api/middleware"
	"github.com/angelmondragon/wishlist-backend/internal/auth"
	product "github.com/angelmondragon/wishlist-backend/internal/products"
	"github.com/angelmondragon/wishlist-backend/internal/users"
	"github.com/angelmondragon/wishlist-backend/internal/wishlist"
	"github.com/angelmondragon/wishlist-backend/pkg/config"
	"github.com/angelmondragon/wishlist-backend/pkg/logger"
	"github.com/angelmondragon/wishlist-backend/pkg/metrics"
)

// RateLimiter backs the login and sign-up throttles.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params bundles everything the HTTP surface depends on.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Limiter  RateLimiter
	Gateway  middleware.Authenticator
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	AuthService     auth.Service
	UserService     users.Service
	ProductService  product.Service
	WishlistService wishlist.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		p.Metrics.Middleware,
		chimiddleware.StripSlashes,
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimit := middleware.AuthRateLimit(loginPolicy, p.Limiter, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, p.Limiter, logg)
	authenticated := middleware.Auth(p.Gateway, logg)
	adminOnly := middleware.RequireAdmin(logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Gatherer))
	}

	r.Route("/users", func(r chi.Router) {
		r.With(registerLimit).Post("/", controllers.CreateUser(p.UserService, logg))
		r.With(registerLimit).Post("/create", controllers.CreateUser(p.UserService, logg))
		r.With(loginLimit).Post("/token", controllers.Token(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/logout", controllers.Logout(p.AuthService, logg))
			r.Get("/me", controllers.Me(p.UserService, logg))
			r.Patch("/me", controllers.UpdateMe(p.UserService, logg))
			r.Delete("/remove", controllers.RemoveUser(p.UserService, p.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/list", controllers.ListUsers(p.UserService, logg))
				r.Post("/create-superuser", controllers.CreateSuperuser(p.UserService, logg))
			})
		})
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/", controllers.AddWishlistItem(p.WishlistService, logg))
		r.Get("/", controllers.ListWishlistItems(p.WishlistService, logg))
		r.Get("/{itemID}", controllers.GetWishlistItem(p.WishlistService, logg))
		r.Delete("/{itemID}", controllers.RemoveWishlistItem(p.WishlistService, logg))
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/{productID}", controllers.GetProduct(p.ProductService, logg))
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", controllers.CreateProduct(p.ProductService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(p.ProductService, logg))
		})
	})

	return r
}
