package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/chakulahub/chakula-api/internal/api/auth"
	"github.com/chakulahub/chakula-api/internal/api/catalog"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler    *auth.AuthHandler
	CatalogHandler *catalog.CatalogHandler

	// AuthenticateMiddleware is the mandatory gate; OptionalAuthMiddleware
	// attaches an identity when one can be resolved but never rejects.
	AuthenticateMiddleware func(http.Handler) http.Handler
	OptionalAuthMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://chakula.example.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Karibu Chakula API"))
	})

	// Heartbeat for load balancers.
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Public auth routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		// Protected routes behind the mandatory gate.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/profile", cfg.AuthHandler.GetProfile)
			r.Put("/auth/profile", cfg.AuthHandler.UpdateProfile)
			r.Put("/auth/change-password", cfg.AuthHandler.ChangePassword)
		})

		// Storefront browse data: works anonymous, adapts when a valid
		// token is presented.
		r.Group(func(r chi.Router) {
			r.Use(cfg.OptionalAuthMiddleware)

			r.Get("/catalog/categories", cfg.CatalogHandler.ListCategories)
		})
	})

	return r
}
