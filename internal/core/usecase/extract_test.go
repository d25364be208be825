package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

type fieldExtractorFake struct {
	rec domain.ExtractionRecord
	err error
}

func (f *fieldExtractorFake) ExtractFields(context.Context, string) (domain.ExtractionRecord, error) {
	if f.err != nil {
		return domain.ExtractionRecord{}, f.err
	}
	return f.rec, nil
}

func TestExtractRecordEmptyInput(t *testing.T) {
	today := domain.NewDate(2024, time.June, 1)
	for _, text := range []string{"", "   ", "trop"} {
		_, err := extractRecord(context.Background(), &fieldExtractorFake{}, text, today)
		if err == nil {
			t.Fatalf("expected error for input %q", text)
		}
		if !domain.IsKind(err, domain.ErrEmptyInput) {
			t.Fatalf("expected ErrEmptyInput, got %v", err)
		}
	}
}

func TestExtractRecordModelPath(t *testing.T) {
	model := &fieldExtractorFake{rec: domain.ExtractionRecord{
		DocumentType:       domain.TypeQuote,
		DocumentNumber:     "D-12",
		ResponseWindowDays: 15,
		UrgencyLevel:       domain.UrgencyLow,
		RequiredActions:    []string{"Valider le devis"},
	}}
	today := domain.NewDate(2024, time.June, 1)

	out, err := extractRecord(context.Background(), model, "Devis n° D-12 pour la refonte du site", today)
	if err != nil {
		t.Fatalf("extractRecord() error = %v", err)
	}
	if out.source != domain.SourceModel {
		t.Fatalf("expected model source, got %s", out.source)
	}
	if out.fallbackReason != "" {
		t.Fatalf("unexpected fallback reason %q", out.fallbackReason)
	}
	// low urgency is reachable through the model path only.
	if out.record.UrgencyLevel != domain.UrgencyLow {
		t.Fatalf("expected low urgency preserved, got %s", out.record.UrgencyLevel)
	}
}

func TestExtractRecordFallsBackOnModelError(t *testing.T) {
	model := &fieldExtractorFake{err: errors.New("connection refused")}
	today := domain.NewDate(2024, time.June, 1)

	out, err := extractRecord(context.Background(), model, "Facture n° 2024-042, montant TTC: 1200€", today)
	if err != nil {
		t.Fatalf("fallback must not surface the model error, got %v", err)
	}
	if out.source != domain.SourceRules {
		t.Fatalf("expected rules source, got %s", out.source)
	}
	if out.fallbackReason == "" {
		t.Fatalf("expected fallback reason to be recorded")
	}
	if out.record.DocumentType != domain.TypeInvoice {
		t.Fatalf("expected rule extraction to run, got type %s", out.record.DocumentType)
	}
}

func TestExtractRecordNormalizesModelOutput(t *testing.T) {
	// Model honored the JSON shape but not the invariants.
	model := &fieldExtractorFake{rec: domain.ExtractionRecord{
		DocumentType: domain.TypeInvoice,
		UrgencyLevel: domain.UrgencyMedium,
	}}
	today := domain.NewDate(2024, time.June, 1)

	out, err := extractRecord(context.Background(), model, "Facture de prestations diverses", today)
	if err != nil {
		t.Fatalf("extractRecord() error = %v", err)
	}
	if out.record.ResponseWindowDays != 30 {
		t.Fatalf("expected invoice default window, got %d", out.record.ResponseWindowDays)
	}
	if len(out.record.RequiredActions) == 0 {
		t.Fatalf("expected default required action")
	}
}

func TestExtractRecordEscalatesBothPaths(t *testing.T) {
	today := domain.NewDate(2024, time.March, 14)
	due := domain.NewDate(2024, time.March, 15)
	model := &fieldExtractorFake{rec: domain.ExtractionRecord{
		DocumentType:       domain.TypeInvoice,
		DueDate:            &due,
		ResponseWindowDays: 30,
		UrgencyLevel:       domain.UrgencyMedium,
		RequiredActions:    []string{"Effectuer le paiement"},
	}}

	out, err := extractRecord(context.Background(), model, "Facture à régler rapidement svp", today)
	if err != nil {
		t.Fatalf("extractRecord() error = %v", err)
	}
	if out.record.UrgencyLevel != domain.UrgencyCritical {
		t.Fatalf("expected escalation to critical on model path, got %s", out.record.UrgencyLevel)
	}

	rules, err := extractRecord(context.Background(), nil, "Facture échéance 15/03/2024 à régler", today)
	if err != nil {
		t.Fatalf("extractRecord() error = %v", err)
	}
	if rules.record.UrgencyLevel != domain.UrgencyCritical {
		t.Fatalf("expected escalation to critical on rule path, got %s", rules.record.UrgencyLevel)
	}
}
