package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loanlens/internal/common"
	"github.com/ternarybob/loanlens/internal/handlers"
	"github.com/ternarybob/loanlens/internal/interfaces"
	"github.com/ternarybob/loanlens/internal/services/analyzer"
	"github.com/ternarybob/loanlens/internal/services/mailer"
	"github.com/ternarybob/loanlens/internal/services/parser"
	"github.com/ternarybob/loanlens/internal/services/scheduler"
	"github.com/ternarybob/loanlens/internal/services/valuation"
	"github.com/ternarybob/loanlens/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Pipeline services
	ParserService    interfaces.DocumentParser
	ValuationService interfaces.ValuationService
	MailerService    *mailer.Service
	AnalyzerService  *analyzer.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler          *handlers.APIHandler
	DocumentHandler     *handlers.DocumentHandler
	AnalysisHandler     *handlers.AnalysisHandler
	ValuationHandler    *handlers.ValuationHandler
	NotificationHandler *handlers.NotificationHandler
}

// New initializes the application with all dependencies
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if cfg.FollowUp.Enabled {
		if err := app.SchedulerService.Start(); err != nil {
			return nil, fmt.Errorf("failed to start follow-up scheduler: %w", err)
		}
		logger.Info().
			Str("schedule", cfg.FollowUp.Schedule).
			Str("min_age", cfg.FollowUp.MinAge).
			Msg("Follow-up scheduler started")
	}

	logger.Info().
		Str("parser", cfg.Parser.Provider).
		Bool("valuation_configured", cfg.Valuation.APIKey != "").
		Bool("mailer_configured", app.MailerService.IsConfigured()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", a.Config.Storage.Type).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes the pipeline services in dependency order:
// parser and valuation feed the analyzer, the mailer serves both the
// analyzer and the follow-up scheduler.
func (a *App) initServices(ctx context.Context) error {
	parserService, err := parser.New(ctx, a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize document parser: %w", err)
	}
	a.ParserService = parserService
	a.Logger.Debug().Str("provider", a.Config.Parser.Provider).Msg("Document parser initialized")

	a.ValuationService = valuation.NewService(a.Config, a.Logger)
	if a.Config.Valuation.APIKey == "" {
		a.Logger.Warn().Msg("RentCast API key not set, analyses will run without property valuation")
	}

	a.MailerService = mailer.NewService(a.Config, a.Logger)
	if !a.MailerService.IsConfigured() {
		a.Logger.Warn().Msg("SMTP not configured, borrower notifications will be recorded as failed")
	}

	a.AnalyzerService = analyzer.NewService(
		a.ParserService,
		a.ValuationService,
		a.MailerService,
		a.StorageManager.AnalysisStorage(),
		a.StorageManager.NotificationStorage(),
		a.Config.Criteria,
		a.Logger,
	)

	a.SchedulerService = scheduler.NewService(
		a.Config,
		a.AnalyzerService,
		a.StorageManager.AnalysisStorage(),
		a.StorageManager.NotificationStorage(),
		a.Logger,
	)

	return nil
}

// initHandlers initializes the HTTP handlers over the services.
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.AnalyzerService, a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.AnalyzerService, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.StorageManager.AnalysisStorage(), a.Logger)
	a.ValuationHandler = handlers.NewValuationHandler(a.ValuationService, a.Logger)
	a.NotificationHandler = handlers.NewNotificationHandler(
		a.AnalyzerService,
		a.StorageManager.NotificationStorage(),
		a.Logger,
	)
}

// Close shuts down the application components in reverse dependency order.
func (a *App) Close() error {
	if a.SchedulerService != nil {
		a.SchedulerService.Stop()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
