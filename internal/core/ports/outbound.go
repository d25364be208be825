package ports

import (
	"context"
	"io"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, rec domain.ExtractionRecord, source domain.ExtractionSource) error
}

// TodoRepository persists derived tasks. Todos are never deleted;
// they only move through explicit status transitions.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.TodoItem) error
	GetByID(ctx context.Context, id string) (*domain.TodoItem, error)
	GetByDocumentID(ctx context.Context, documentID string) (*domain.TodoItem, error)
	List(ctx context.Context, status domain.TodoStatus) ([]domain.TodoItem, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.TodoStatus) error
}

// NotificationRepository persists scheduled reminders for a downstream
// delivery collaborator. Actual sending is out of scope.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []domain.Notification) error
	ListByTodoID(ctx context.Context, todoID string) ([]domain.Notification, error)
	ListDue(ctx context.Context, today domain.Date) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id string) error
}

// ObjectStorage stores raw source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes analysis requests.
type MessageQueue interface {
	PublishDocumentReceived(ctx context.Context, documentID string) error
	SubscribeDocumentReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns a stored document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// FieldExtractor asks the model endpoint for a structured record.
// Any error is treated by the caller as "model unavailable" and
// silently degraded to the rule-based path.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (domain.ExtractionRecord, error)
}
