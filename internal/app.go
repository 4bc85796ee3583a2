// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	router "caseledger/internal/api"
	"caseledger/internal/api/handler"
	"caseledger/internal/config"
	"caseledger/internal/repository"
	"caseledger/internal/repository/sqlite"
	"caseledger/internal/service"
	"caseledger/internal/util"
	"caseledger/pkg/db"
)

// Application holds all the initialized components of the application.
// The ledger store handle is constructed once here and injected into every
// collaborator; there is no process-wide singleton.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	TransactionRepository repository.TransactionRepository
	SummaryRepository     repository.SummaryRepository

	// Services
	LedgerService service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	util.InitLogger()
	app.Logger = util.GetLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	database, err := db.NewSQLiteDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}
	app.DB = database
	app.Logger.Info("Ledger store opened.", "path", app.Config.DB.Path)

	app.TransactionRepository = sqlite.NewTransactionRepository(app.DB)
	app.SummaryRepository = sqlite.NewSummaryRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.TransactionRepository,
		app.SummaryRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	ledgerHandler := handler.NewLedgerHandler(
		app.LedgerService,
		app.Logger,
		app.Config.HistoryLimit,
		filepath.Base(app.Config.DB.Path),
	)
	app.HTTPHandler = router.NewRouter(ledgerHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close ledger store", "error", err)
			return fmt.Errorf("failed to close ledger store: %w", err)
		}
		app.Logger.Info("Ledger store closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
