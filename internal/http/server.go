// Package http exposes the REST API: chi routing, bearer-token auth,
// per-resource handlers and the uniform JSON error surface.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"fintrack/internal/config"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// Server carries the route handlers and their service dependencies.
type Server struct {
	http.Server

	tokens *tokenIssuer
	cfg    *config.Config

	auth       *services.AuthService
	accounts   *services.AccountService
	categories *services.CategoryService
	ledger     *services.LedgerService
	importer   *services.ImporterService
	budgets    *services.BudgetService
	analytics  *services.AnalyticsService
	ready      func() error
}

// Services groups the handler dependencies for NewServer.
type Services struct {
	Auth       *services.AuthService
	Accounts   *services.AccountService
	Categories *services.CategoryService
	Ledger     *services.LedgerService
	Importer   *services.ImporterService
	Budgets    *services.BudgetService
	Analytics  *services.AnalyticsService
}

// NewServer configures the router and returns a ready-to-run server.
// ready is probed by /readyz, typically the database ping.
func NewServer(cfg *config.Config, svcs Services, ready func() error) *Server {
	s := &Server{
		tokens:     newTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		cfg:        cfg,
		auth:       svcs.Auth,
		accounts:   svcs.Accounts,
		categories: svcs.Categories,
		ledger:     svcs.Ledger,
		importer:   svcs.Importer,
		budgets:    svcs.Budgets,
		analytics:  svcs.Analytics,
		ready:      ready,
	}

	mux := chi.NewRouter()
	mux.Use(requestLogger)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	mux.Get("/", s.handleIndex)
	mux.Get("/healthz", s.handleHealth)
	mux.Get("/readyz", s.handleReady)

	mux.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.handleRegister)
		api.Post("/auth/login", s.handleLogin)

		api.Group(func(private chi.Router) {
			private.Use(s.authenticate)

			private.Get("/auth/me", s.handleMe)

			private.Route("/accounts", func(r chi.Router) {
				r.Get("/", s.handleListAccounts)
				r.Post("/", s.handleCreateAccount)
				r.Get("/{id}", s.handleGetAccount)
				r.Put("/{id}", s.handleUpdateAccount)
				r.Delete("/{id}", s.handleDeleteAccount)
				r.Get("/{id}/history", s.handleAccountHistory)
			})

			private.Route("/categories", func(r chi.Router) {
				r.Get("/", s.handleListCategories)
				r.Post("/", s.handleCreateCategory)
				r.Get("/{id}", s.handleGetCategory)
				r.Put("/{id}", s.handleUpdateCategory)
				r.Delete("/{id}", s.handleDeleteCategory)
			})

			private.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Post("/import", s.handleImportTransactions)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})

			private.Route("/budgets", func(r chi.Router) {
				r.Get("/", s.handleListBudgets)
				r.Post("/", s.handleCreateBudget)
				r.Get("/{id}", s.handleGetBudget)
				r.Put("/{id}", s.handleUpdateBudget)
				r.Delete("/{id}", s.handleDeleteBudget)
			})

			private.Get("/analytics/breakdown", s.handleBreakdown)
			private.Get("/analytics/trend", s.handleTrend)
			private.Get("/analytics/health", s.handleHealthScore)

			private.Post("/upload", s.handleUpload)
		})
	})

	s.Server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}
	return s
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(appweb.LoginPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(); err != nil {
			writeError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
