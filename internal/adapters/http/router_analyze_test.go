package httpadapter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avocato-app/docpilot/internal/config"
	"github.com/avocato-app/docpilot/internal/core/domain"
)

func sampleAnalysisResult() *domain.AnalysisResult {
	due := domain.NewDate(2024, 3, 15)
	return &domain.AnalysisResult{
		Record: domain.ExtractionRecord{
			DocumentType:       domain.TypeInvoice,
			DocumentNumber:     "2024-042",
			DueDate:            &due,
			ResponseWindowDays: 30,
			UrgencyLevel:       domain.UrgencyHigh,
			RequiredActions:    []string{"Payer la facture"},
		},
		Source:         domain.SourceRules,
		FallbackReason: "model not configured",
		Todo: domain.TodoItem{
			ID:         "t-1",
			DocumentID: "",
			Title:      "Payer facture 2024-042",
			DueDate:    due,
			Priority:   3,
			Status:     domain.TodoStatusPending,
		},
		Notifications: []domain.Notification{
			{ID: "n-1", TodoID: "t-1", ScheduledAt: due.AddDays(-1), OffsetDays: -1, Channel: domain.ChannelPush, Status: domain.NotificationStatusPending},
			{ID: "n-2", TodoID: "t-1", ScheduledAt: due, OffsetDays: 0, Channel: domain.ChannelPush, Status: domain.NotificationStatusPending},
		},
	}
}

func TestAnalyzeReturnsRecordAndSchedule(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		analyze: analyzerFake{result: sampleAnalysisResult()},
	})

	payload, _ := json.Marshal(map[string]string{
		"text":  "Facture n° 2024-042, montant TTC : 1200€, échéance 15/03/2024",
		"today": "2024-03-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var resp struct {
		Record struct {
			DocumentType string `json:"document_type"`
		} `json:"record"`
		Source        string `json:"source"`
		Notifications []any  `json:"notifications"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Record.DocumentType != "invoice" || resp.Source != "rules" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(resp.Notifications))
	}
}

func TestAnalyzeRejectsMalformedToday(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{
		analyze: analyzerFake{result: sampleAnalysisResult()},
	})

	payload, _ := json.Marshal(map[string]string{"text": "Facture", "today": "15/03/2024"})
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetDocumentTodoReturnsNotifications(t *testing.T) {
	result := sampleAnalysisResult()
	handler := newTestHandler(config.Config{}, routerFakes{
		todos: todoServiceFake{todo: &result.Todo, notifications: result.Notifications},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/todo", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var resp struct {
		Todo struct {
			ID string `json:"id"`
		} `json:"todo"`
		Notifications []any `json:"notifications"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Todo.ID != "t-1" || len(resp.Notifications) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListTodosRejectsUnknownStatus(t *testing.T) {
	handler := newTestHandler(config.Config{}, routerFakes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/todos?status=archived", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestTransitionTodoReturnsUpdatedStatus(t *testing.T) {
	result := sampleAnalysisResult()
	handler := newTestHandler(config.Config{}, routerFakes{
		todos: todoServiceFake{todo: &result.Todo},
	})

	payload, _ := json.Marshal(map[string]string{"status": "completed"})
	req := httptest.NewRequest(http.MethodPatch, "/v1/todos/t-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var todo struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&todo); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if todo.Status != "completed" {
		t.Fatalf("expected completed, got %s", todo.Status)
	}
}
