package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/infrastructure/resilience"
)

type Client struct {
	baseURL        string
	genModel       string
	maxPromptChars int
	httpClient     *http.Client
	executor       *resilience.Executor
}

func New(baseURL, genModel string, timeout time.Duration, maxPromptChars int) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxPromptChars <= 0 {
		maxPromptChars = 2000
	}
	cfg := resilience.DefaultConfig()
	// Single attempt: on any model failure the caller degrades to the
	// rule-based extractor instead of retrying. The breaker still counts
	// failures so a dead endpoint stops being probed on every document.
	cfg.RetryMaxAttempts = 1
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		genModel:       genModel,
		maxPromptChars: maxPromptChars,
		httpClient:     &http.Client{Timeout: timeout},
		executor:       resilience.NewExecutor(cfg),
	}
}

// FieldExtractor asks the generation endpoint for a structured record.
type FieldExtractor struct {
	client *Client
}

func NewFieldExtractor(client *Client) *FieldExtractor {
	return &FieldExtractor{client: client}
}

func (e *FieldExtractor) ExtractFields(ctx context.Context, text string) (domain.ExtractionRecord, error) {
	respText, err := e.client.generateJSON(ctx, buildExtractionPrompt(text, e.client.maxPromptChars))
	if err != nil {
		return domain.ExtractionRecord{}, err
	}

	var record domain.ExtractionRecord
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &record); err != nil {
		return domain.ExtractionRecord{}, fmt.Errorf("parse extraction json: %w", err)
	}
	if err := validateRecord(record); err != nil {
		return domain.ExtractionRecord{}, err
	}
	if record.RequiredActions == nil {
		record.RequiredActions = []string{}
	}
	return record, nil
}

// validateRecord rejects schema-shaped JSON whose enum fields drifted.
// A rejected record triggers the same fallback as a transport failure.
func validateRecord(record domain.ExtractionRecord) error {
	if !record.DocumentType.Valid() {
		return fmt.Errorf("model returned unknown document_type %q", record.DocumentType)
	}
	if !record.UrgencyLevel.Valid() {
		return fmt.Errorf("model returned unknown urgency_level %q", record.UrgencyLevel)
	}
	return nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	err := c.executor.Execute(ctx, "ollama_generate", func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, "generate")
	}, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama generate", err)
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
