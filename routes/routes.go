package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/resource-api/app"
	"github.com/upb/resource-api/middleware"
	"github.com/upb/resource-api/utils"
)

// SetupRoutes configures all application routes and middleware.
//
// Order matters: disallowed origins are rejected before CORS handling, CORS
// answers preflights before authentication, and the cookie bridge runs before
// the guard so a cookie credential is seen as a bearer header.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Cross-origin policy
	corsCfg := deps.Config.CORS
	r.Use(middleware.OriginFilter(corsCfg.AllowedOrigins, deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	// Authentication
	r.Use(middleware.CookieTokenBridge)
	r.Use(deps.AuthMiddleware.Guard)

	// Monitoring endpoints (public)
	r.Route("/actuator", func(r chi.Router) {
		r.Get("/health", deps.HealthHandler.HandleActuatorHealth)
		r.Get("/info", deps.HealthHandler.HandleActuatorInfo)
	})

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/health", deps.HealthHandler.HandleAPIHealth)

		// Authenticated by the route policy
		r.Get("/user", deps.UserHandler.HandleUserInfo)
		r.Get("/profile", deps.UserHandler.HandleProfile)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w, "")
	})

	return r
}
