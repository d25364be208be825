package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avocato-app/docpilot/internal/config"
	"github.com/avocato-app/docpilot/internal/core/domain"
)

type ingestFake struct {
	doc *domain.Document
	err error
}

func (f ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	doc := *f.doc
	doc.Filename = filename
	doc.MimeType = mimeType
	return &doc, nil
}

type analyzerFake struct {
	result *domain.AnalysisResult
	err    error
}

func (f analyzerFake) ProcessByID(context.Context, string) error { return f.err }

func (f analyzerFake) Preview(context.Context, string, domain.Date) (*domain.AnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type todoServiceFake struct {
	todo          *domain.TodoItem
	notifications []domain.Notification
	err           error
}

func (f todoServiceFake) GetByDocumentID(context.Context, string) (*domain.TodoItem, []domain.Notification, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.todo, f.notifications, nil
}

func (f todoServiceFake) List(context.Context, domain.TodoStatus) ([]domain.TodoItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.todo == nil {
		return []domain.TodoItem{}, nil
	}
	return []domain.TodoItem{*f.todo}, nil
}

func (f todoServiceFake) Transition(_ context.Context, _ string, to domain.TodoStatus) (*domain.TodoItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	todo := *f.todo
	todo.Status = to
	return &todo, nil
}

type docReaderFake struct {
	doc *domain.Document
	err error
}

func (f docReaderFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type routerFakes struct {
	ingest  ingestFake
	analyze analyzerFake
	todos   todoServiceFake
	docs    docReaderFake
}

func newTestHandler(cfg config.Config, fakes routerFakes) http.Handler {
	return NewRouter(cfg, fakes.ingest, fakes.analyze, fakes.todos, fakes.docs, nil).Handler()
}

func TestAnalyzeMapsEmptyInputTo422(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		analyze: analyzerFake{err: domain.WrapError(domain.ErrEmptyInput, "extract record", errors.New("too short"))},
	})

	payload, _ := json.Marshal(map[string]string{"text": "court"})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		docs: docReaderFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestTransitionTodoMapsInvalidTransitionTo409(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		todos: todoServiceFake{err: domain.WrapError(domain.ErrInvalidTransition, "transition todo", errors.New("completed -> cancelled"))},
	})

	payload, _ := json.Marshal(map[string]string{"status": "cancelled"})
	req := httptest.NewRequest(http.MethodPatch, "/v1/todos/t-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", res.Code)
	}
}

func TestAnalyzeMapsTemporaryTo503(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		analyze: analyzerFake{err: domain.WrapError(domain.ErrTemporary, "persist", errors.New("db down"))},
	})

	payload, _ := json.Marshal(map[string]string{"text": "Facture n° 2024-042 à payer avant le 15/03/2024"})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}
