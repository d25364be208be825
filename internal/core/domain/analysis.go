package domain

// AnalysisResult bundles everything one pipeline run produces for a
// single document: the structured record, which path produced it, and
// the schedule derived from it.
type AnalysisResult struct {
	Record         ExtractionRecord `json:"record"`
	Source         ExtractionSource `json:"source"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Todo           TodoItem         `json:"todo"`
	Notifications  []Notification   `json:"notifications"`
}
