package ports

import (
	"context"
	"io"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentAnalyzer is the inbound contract for the analysis pipeline.
// ProcessByID runs asynchronously behind the queue; Preview runs the
// pure pipeline without persisting anything.
type DocumentAnalyzer interface {
	ProcessByID(ctx context.Context, documentID string) error
	Preview(ctx context.Context, text string, today domain.Date) (*domain.AnalysisResult, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// TodoService is the inbound contract for task reads and status transitions.
type TodoService interface {
	GetByDocumentID(ctx context.Context, documentID string) (*domain.TodoItem, []domain.Notification, error)
	List(ctx context.Context, status domain.TodoStatus) ([]domain.TodoItem, error)
	Transition(ctx context.Context, todoID string, to domain.TodoStatus) (*domain.TodoItem, error)
}
