package domain

import "time"

type DocumentStatus string

const (
	StatusReceived  DocumentStatus = "received"
	StatusAnalyzing DocumentStatus = "analyzing"
	StatusAnalyzed  DocumentStatus = "analyzed"
	StatusFailed    DocumentStatus = "failed"
)

// Document is an uploaded source text awaiting or carrying the result
// of analysis. The raw bytes live in object storage under StoragePath;
// turning PDF/image bytes into text is an upstream collaborator's job.
type Document struct {
	ID               string            `json:"id"`
	Filename         string            `json:"filename"`
	MimeType         string            `json:"mime_type"`
	StoragePath      string            `json:"storage_path"`
	Status           DocumentStatus    `json:"status"`
	Error            string            `json:"error,omitempty"`
	ExtractionSource ExtractionSource  `json:"extraction_source,omitempty"`
	Record           *ExtractionRecord `json:"record,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
