package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptlover/promptlover-be/internal/api/handlers"
	"github.com/promptlover/promptlover-be/internal/assets"
	"github.com/promptlover/promptlover-be/internal/auth"
	"github.com/promptlover/promptlover-be/internal/monitoring"
	"github.com/promptlover/promptlover-be/internal/services"
	"github.com/promptlover/promptlover-be/internal/websocket"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Sessions *auth.Sessions
	Users    services.UserServiceProvider
	Prompts  services.PromptServiceProvider
	Events   services.EventServiceProvider
	Uploader assets.Uploader
	Hub      *websocket.Hub
	Stats    *monitoring.StatsUpdater

	// UploadsDir, when set, is served at /uploads/ for the local asset store.
	UploadsDir string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the browser frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Sessions)
	promptHandler := handlers.NewPromptHandler(deps.Prompts, deps.Uploader, deps.Hub)
	eventHandler := handlers.NewEventHandler(deps.Events)

	requireSession := deps.Sessions.Middleware()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		// The login route doubles as the session endpoint: POST logs in,
		// GET answers "who am I", DELETE logs out.
		r.Post("/login", authHandler.Login)
		r.Get("/login", authHandler.Whoami)
		r.Delete("/login", authHandler.Logout)
	})

	r.Route("/prompts", func(r chi.Router) {
		r.Get("/", promptHandler.GetAll)
		r.With(requireSession).Post("/", promptHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.With(requireSession).Get("/", promptHandler.Get)
			// Counters-only update path, intentionally unauthenticated.
			r.Put("/", promptHandler.Update)
			r.With(requireSession).Delete("/", promptHandler.Delete)
		})
	})

	r.Get("/events", eventHandler.GetRecent)

	if deps.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(deps.Hub)
		r.Get("/ws", wsHandler.Serve)
	}

	if deps.Stats != nil {
		statusHandler := handlers.NewStatusHandler(deps.Stats)
		r.Get("/status", statusHandler.Get)
	}

	if deps.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
