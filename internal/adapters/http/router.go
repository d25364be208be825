package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/avocato-app/docpilot/internal/config"
	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/core/ports"
	"github.com/avocato-app/docpilot/internal/observability/metrics"
)

// The synchronous analyze endpoint holds a model call for up to a
// minute, so its concurrency is capped instead of letting requests
// pile up behind the LLM.
const (
	maxConcurrentAnalyses = 8
	analyzeSlotWait       = 200 * time.Millisecond
)

type Router struct {
	cfg       config.Config
	ingestUC  ports.DocumentIngestor
	analyzeUC ports.DocumentAnalyzer
	todoUC    ports.TodoService
	repo      ports.DocumentReader
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingestUC ports.DocumentIngestor,
	analyzeUC ports.DocumentAnalyzer,
	todoUC ports.TodoService,
	repo ports.DocumentReader,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		ingestUC:  ingestUC,
		analyzeUC: analyzeUC,
		todoUC:    todoUC,
		repo:      repo,
		metrics:   serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.documentSubtree)
	mux.Handle("/v1/analyze", backpressureMiddleware(http.HandlerFunc(rt.analyzeText), maxConcurrentAnalyses, analyzeSlotWait))
	mux.HandleFunc("/v1/todos", rt.listTodos)
	mux.HandleFunc("/v1/todos/", rt.transitionTodo)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	handler := http.Handler(mux)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) documentSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/todo"); ok {
		rt.getDocumentTodo(w, r, id)
		return
	}
	rt.getDocumentByID(w, r, rest)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) getDocumentTodo(w http.ResponseWriter, r *http.Request, documentID string) {
	todo, notifications, err := rt.todoUC.GetByDocumentID(r.Context(), documentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"todo":          todo,
		"notifications": notifications,
	})
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text  string `json:"text"`
		Today string `json:"today"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	var today domain.Date
	if strings.TrimSpace(req.Today) != "" {
		parsed, err := domain.ParseDate(req.Today)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "today must be YYYY-MM-DD"})
			return
		}
		today = parsed
	}

	start := time.Now()
	result, err := rt.analyzeUC.Preview(r.Context(), req.Text, today)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordAnalysis("api", result.Source, result.FallbackReason != "", time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) listTodos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	status := domain.TodoStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown todo status"})
		return
	}

	todos, err := rt.todoUC.List(r.Context(), status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (rt *Router) transitionTodo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/todos/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "todo id is required"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	todo, err := rt.todoUC.Transition(r.Context(), id, domain.TodoStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
