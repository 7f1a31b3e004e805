package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nexusboard/nexus-api/internal/config"
	"github.com/nexusboard/nexus-api/internal/events"
	"github.com/nexusboard/nexus-api/internal/generation"
	"github.com/nexusboard/nexus-api/internal/platform/gemini"
	"github.com/nexusboard/nexus-api/internal/platform/logger"
	"github.com/nexusboard/nexus-api/internal/platform/openai"
	"github.com/nexusboard/nexus-api/internal/platform/postgres"
	"github.com/nexusboard/nexus-api/internal/service"
	"github.com/nexusboard/nexus-api/internal/service/analysis"
	"github.com/nexusboard/nexus-api/internal/task"
)

// application holds the composed dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	boardService     *service.BoardService
	knowledgeService *service.KnowledgeService
	runner           *task.Runner
}

// newApplication loads configuration and wires every component of the
// server: database and migrations, the content provider, the in-memory
// board with its backing store, the knowledge intake service, and the
// background enrichment pipeline. The enrichment runner is started and
// the board is hydrated from the store before returning.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := postgres.MigrateUp(db); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	taskStore := postgres.NewPostgresTaskStore(db, appLogger)
	knowledgeStore := postgres.NewPostgresKnowledgeStore(db, appLogger)

	provider, err := setupContentProvider(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEmitter(appLogger)

	boardService, err := service.NewBoardService(taskStore, db, provider, emitter, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create board service: %w", err)
	}

	knowledgeService, err := service.NewKnowledgeService(
		knowledgeStore, provider, appLogger,
		service.WithPlaceholderFallback(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge service: %w", err)
	}

	aggregator, err := analysis.NewAggregator(provider, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis aggregator: %w", err)
	}

	factory, err := task.NewEnrichmentTaskFactory(boardService, aggregator, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment task factory: %w", err)
	}

	runner := task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Runner.WorkerCount,
		QueueSize:   cfg.Runner.QueueSize,
	}, appLogger)

	emitter.RegisterHandler(task.NewEnrichmentEventHandler(factory, runner, appLogger))
	runner.Start()

	if err := boardService.Resync(ctx); err != nil {
		runner.Stop()
		return nil, fmt.Errorf("failed to load board from store: %w", err)
	}

	appLogger.Info("Application initialized",
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Int("enrichment_workers", cfg.Runner.WorkerCount))

	return &application{
		config:           cfg,
		logger:           appLogger,
		db:               db,
		boardService:     boardService,
		knowledgeService: knowledgeService,
		runner:           runner,
	}, nil
}

// setupContentProvider selects the generative backend from configuration.
func setupContentProvider(
	ctx context.Context,
	cfg *config.Config,
	appLogger *slog.Logger,
) (generation.ContentProvider, error) {
	switch cfg.LLM.Provider {
	case "gemini":
		provider, err := gemini.NewProvider(ctx, appLogger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		return provider, nil
	case "openai":
		provider, err := openai.NewProvider(appLogger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// cleanup releases resources in reverse initialization order. The runner
// is stopped first so no enrichment result races the closing database.
func (app *application) cleanup() {
	app.runner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}
