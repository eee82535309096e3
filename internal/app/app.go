package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/handlers"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/services/analysis"
	"github.com/maadv/parecer/internal/services/janitor"
	"github.com/maadv/parecer/internal/services/llm"
	"github.com/maadv/parecer/internal/services/media"
	"github.com/maadv/parecer/internal/services/pdf"
	"github.com/maadv/parecer/internal/services/render"
	"github.com/maadv/parecer/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	JobStore interfaces.JobStore

	// Services
	ProviderFactory *llm.Factory
	PDFExtractor    interfaces.PDFExtractor
	MediaNormalizer interfaces.MediaNormalizer
	AnalysisService interfaces.AnalysisService
	RenderService   interfaces.DocumentRenderer
	JanitorService  *janitor.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	PageHandler     *handlers.PageHandler
	AnalysisHandler *handlers.AnalysisHandler
	StatusHandler   *handlers.StatusHandler
	DocumentHandler *handlers.DocumentHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	store, err := storage.NewJobStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize job storage: %w", err)
	}
	app.JobStore = store
	logger.Debug().
		Str("storage", cfg.Storage.Type).
		Msg("Job storage initialized")

	app.ProviderFactory = llm.NewFactory(cfg, logger)
	app.PDFExtractor = pdf.NewExtractor(logger)
	app.MediaNormalizer = media.NewNormalizer(&cfg.Media, cfg.Upload.TempDir, logger)
	app.RenderService = render.NewService(logger)

	app.AnalysisService = analysis.NewService(
		cfg,
		app.JobStore,
		app.ProviderFactory,
		app.MediaNormalizer,
		app.PDFExtractor,
		logger,
	)

	sweeper, err := janitor.NewService(&cfg.Retention, app.JobStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retention sweeper: %w", err)
	}
	app.JanitorService = sweeper
	if err := sweeper.Start(); err != nil {
		return nil, fmt.Errorf("failed to start retention sweeper: %w", err)
	}

	app.APIHandler = handlers.NewAPIHandler()
	app.PageHandler = handlers.NewPageHandler()
	app.AnalysisHandler = handlers.NewAnalysisHandler(cfg, app.AnalysisService)
	app.StatusHandler = handlers.NewStatusHandler(app.AnalysisService)
	app.DocumentHandler = handlers.NewDocumentHandler(app.RenderService)

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Str("storage", cfg.Storage.Type).
		Int("workers", cfg.Workers.Concurrency).
		Msg("Application initialization complete")

	return app, nil
}

// Shutdown stops background work and releases resources. Services
// stop before storage so no worker writes to a closed store.
func (a *App) Shutdown(ctx context.Context) error {
	a.JanitorService.Stop()

	if err := a.AnalysisService.Shutdown(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Analysis service shutdown failed")
	}

	if err := a.JobStore.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Job storage close failed")
		return err
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
