package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/core/ports"
)

const minTextLength = 10

// extraction is the tagged outcome of the layered strategy: either the
// model produced the record, or the rule path did and FallbackReason
// says why. The degradation is deliberate and never an error.
type extraction struct {
	record         domain.ExtractionRecord
	source         domain.ExtractionSource
	fallbackReason string
}

// extractRecord runs the layered extraction: model first, rules on any
// model failure. The returned record is normalized and escalated, so
// its invariants hold no matter which path produced it.
func extractRecord(ctx context.Context, model ports.FieldExtractor, text string, today domain.Date) (extraction, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minTextLength {
		return extraction{}, domain.WrapError(domain.ErrEmptyInput, "extract record",
			fmt.Errorf("text shorter than %d characters", minTextLength))
	}

	out := runLayeredExtraction(ctx, model, trimmed)
	normalizeRecord(&out.record)
	escalateUrgency(&out.record, today)
	return out, nil
}

func runLayeredExtraction(ctx context.Context, model ports.FieldExtractor, text string) extraction {
	if model == nil {
		return extraction{record: extractWithRules(text), source: domain.SourceRules, fallbackReason: "model not configured"}
	}

	record, err := model.ExtractFields(ctx, text)
	if err == nil {
		return extraction{record: record, source: domain.SourceModel}
	}

	slog.Warn("model_extraction_fallback", "error", err)
	return extraction{
		record:         extractWithRules(text),
		source:         domain.SourceRules,
		fallbackReason: err.Error(),
	}
}
