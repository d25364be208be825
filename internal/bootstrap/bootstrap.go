package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/avocato-app/docpilot/internal/config"
	"github.com/avocato-app/docpilot/internal/core/ports"
	"github.com/avocato-app/docpilot/internal/core/usecase"
	"github.com/avocato-app/docpilot/internal/infrastructure/extractor/plaintext"
	"github.com/avocato-app/docpilot/internal/infrastructure/llm/ollama"
	"github.com/avocato-app/docpilot/internal/infrastructure/queue/nats"
	"github.com/avocato-app/docpilot/internal/infrastructure/repository/postgres"
	"github.com/avocato-app/docpilot/internal/infrastructure/resilience"
	"github.com/avocato-app/docpilot/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	AnalyzeUC ports.DocumentAnalyzer
	TodoUC    ports.TodoService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	todoRepo := postgres.NewTodoRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := ollama.New(
		cfg.OllamaURL,
		cfg.OllamaGenModel,
		time.Duration(cfg.OllamaTimeoutSeconds)*time.Second,
		cfg.ExtractMaxPromptChars,
	)
	fields := ollama.NewFieldExtractor(ollamaClient)
	extractor := plaintext.NewExtractor(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(repo, extractor, fields, todoRepo, notificationRepo)
	todoUC := usecase.NewTodoUseCase(todoRepo, notificationRepo)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		AnalyzeUC: analyzeUC,
		TodoUC:    todoUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
