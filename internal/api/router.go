// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"caseledger/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Ledger API routes
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Post("/transactions", ledgerHandler.AddTransaction)
		r.Get("/stats", ledgerHandler.GetUserStats)
		r.Get("/history", ledgerHandler.GetUserHistory)
		r.Delete("/", ledgerHandler.ResetUser)
	})

	// Snapshot export is a top-level endpoint: it covers the whole store,
	// not a single user.
	r.Get("/export", ledgerHandler.ExportSnapshot)

	return r
}
