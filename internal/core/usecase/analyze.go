package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/core/ports"
)

// AnalyzeDocumentUseCase drives a stored document through the pipeline:
// read text, extract a structured record (model with rule fallback),
// derive the todo and its reminder schedule, persist everything.
type AnalyzeDocumentUseCase struct {
	repo          ports.DocumentRepository
	source        ports.TextExtractor
	model         ports.FieldExtractor
	todos         ports.TodoRepository
	notifications ports.NotificationRepository

	// now is read once per run so the whole pipeline computes against
	// a single calendar date.
	now func() time.Time
}

func NewAnalyzeDocumentUseCase(
	repo ports.DocumentRepository,
	source ports.TextExtractor,
	model ports.FieldExtractor,
	todos ports.TodoRepository,
	notifications ports.NotificationRepository,
) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{
		repo:          repo,
		source:        source,
		model:         model,
		todos:         todos,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (uc *AnalyzeDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusAnalyzing, ""); err != nil {
		return fmt.Errorf("set status=analyzing: %w", err)
	}

	result, err := uc.analyzePipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persistResult(ctx, documentID, result); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusAnalyzed, ""); err != nil {
		return fmt.Errorf("set status=analyzed: %w", err)
	}
	return nil
}

// Preview runs the pure pipeline on raw text against an explicit date,
// persisting nothing. It backs the synchronous analyze endpoint and
// makes the pipeline testable without wall-clock mocking.
func (uc *AnalyzeDocumentUseCase) Preview(ctx context.Context, text string, today domain.Date) (*domain.AnalysisResult, error) {
	if today.IsZero() {
		today = domain.DateOf(uc.now())
	}
	return uc.analyzeText(ctx, text, today, "")
}

func (uc *AnalyzeDocumentUseCase) analyzePipeline(ctx context.Context, documentID string) (*domain.AnalysisResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.source.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	return uc.analyzeText(ctx, text, domain.DateOf(uc.now()), doc.ID)
}

func (uc *AnalyzeDocumentUseCase) analyzeText(ctx context.Context, text string, today domain.Date, documentID string) (*domain.AnalysisResult, error) {
	out, err := extractRecord(ctx, uc.model, text, today)
	if err != nil {
		return nil, err
	}

	todo, notifications, err := buildSchedule(out.record, today, documentID, uc.now())
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisResult{
		Record:         out.record,
		Source:         out.source,
		FallbackReason: out.fallbackReason,
		Todo:           todo,
		Notifications:  notifications,
	}, nil
}

func (uc *AnalyzeDocumentUseCase) persistResult(ctx context.Context, documentID string, result *domain.AnalysisResult) error {
	if err := uc.repo.SaveExtraction(ctx, documentID, result.Record, result.Source); err != nil {
		return fmt.Errorf("save extraction record: %w", err)
	}
	if err := uc.todos.Create(ctx, &result.Todo); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	if err := uc.notifications.CreateBatch(ctx, result.Notifications); err != nil {
		return fmt.Errorf("create notifications: %w", err)
	}
	return nil
}

func (uc *AnalyzeDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *AnalyzeDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
