package api

import (
	"net/http"
	"time"

	"fiscalchat-backend/internal/auth"
	"fiscalchat-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup.
type RouterDependencies struct {
	AuthHandler *handlers.AuthHandler
	ChatHandler *handlers.ChatHandler
	Tokens      *auth.TokenStore
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// A hung provider call should only ever block its own request.
	r.Use(middleware.Timeout(90 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public: the password gate itself.
		r.Post("/auth/validate", deps.AuthHandler.HandleValidatePassword)

		// Token-gated chat surface.
		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(deps.Tokens))
			r.Post("/chat", deps.ChatHandler.HandleChat)
			r.Get("/messages", deps.ChatHandler.HandleListMessages)
		})
	})

	return r
}
