package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/thisisamish/cashcard-api/internal/api/handlers"
	"github.com/thisisamish/cashcard-api/internal/api/httpx"
	"github.com/thisisamish/cashcard-api/internal/auth"
	"github.com/thisisamish/cashcard-api/internal/config"
	"github.com/thisisamish/cashcard-api/internal/metrics"
	"github.com/thisisamish/cashcard-api/internal/middleware"
	"github.com/thisisamish/cashcard-api/internal/models"
	"github.com/thisisamish/cashcard-api/internal/services"
)

type Deps struct {
	Cfg     config.Config
	TM      *auth.TokenManager
	CardSvc *services.CardService
	UserSvc *services.UserService
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	authH := handlers.NewAuthHandler(d.UserSvc, d.TM)
	cardH := handlers.NewCardHandler(d.CardSvc)
	userH := handlers.NewUserHandler(d.UserSvc)
	authn := middleware.NewAuthMiddleware(d.TM)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.Post("/refresh", authH.Refresh)
	})

	r.Route("/cashcards", func(r chi.Router) {
		r.Use(authn.Auth)
		r.Post("/", cardH.Create)
		r.Get("/", cardH.List)
		r.Get("/{id}", cardH.Get)
		r.Put("/{id}", cardH.Update)
		r.Delete("/{id}", cardH.Delete)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn.Auth, middleware.RequireRole(models.RoleAdmin))
		r.Get("/", userH.List)
	})

	// Unmatched routes get the same JSON envelope as everything else.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "no such endpoint", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})

	return r
}
