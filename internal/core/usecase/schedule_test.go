package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

func float64Ptr(v float64) *float64 { return &v }

func baseRecord() domain.ExtractionRecord {
	return domain.ExtractionRecord{
		DocumentType:       domain.TypeInvoice,
		DocumentNumber:     "2024-042",
		AmountInclTax:      float64Ptr(1200),
		ResponseWindowDays: 30,
		UrgencyLevel:       domain.UrgencyMedium,
		RequiredActions:    []string{"Effectuer le paiement"},
	}
}

func TestBuildScheduleDueDateFromIssueDatePlusWindow(t *testing.T) {
	rec := domain.ExtractionRecord{
		DocumentType:       domain.TypeInvoice,
		IssueDate:          datePtr(2024, time.January, 1),
		ResponseWindowDays: 30,
		UrgencyLevel:       domain.UrgencyMedium,
		RequiredActions:    []string{"Traiter le document"},
	}
	today := domain.NewDate(2024, time.January, 2)

	todo, _, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	if todo.DueDate.String() != "2024-01-31" {
		t.Fatalf("expected due 2024-01-31, got %s", todo.DueDate)
	}
}

func TestBuildScheduleDueDateFromTodayWhenNoDates(t *testing.T) {
	rec := baseRecord()
	rec.ResponseWindowDays = 7
	today := domain.NewDate(2024, time.June, 1)

	todo, _, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	if todo.DueDate.String() != "2024-06-08" {
		t.Fatalf("expected due 2024-06-08, got %s", todo.DueDate)
	}
}

func TestBuildScheduleMissingWindowIsFatal(t *testing.T) {
	rec := baseRecord()
	rec.ResponseWindowDays = 0
	today := domain.NewDate(2024, time.June, 1)

	_, _, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrMissingScheduleInput) {
		t.Fatalf("expected ErrMissingScheduleInput, got %v", err)
	}
}

func TestBuildScheduleTitles(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.ExtractionRecord)
		want   string
	}{
		{"invoice with amount", func(r *domain.ExtractionRecord) {}, "Payer facture 2024-042 - 1200€"},
		{"invoice without amount", func(r *domain.ExtractionRecord) { r.AmountInclTax = nil }, "Traiter facture 2024-042"},
		{"quote", func(r *domain.ExtractionRecord) { r.DocumentType = domain.TypeQuote; r.DocumentNumber = "D-7" }, "Valider devis D-7"},
		{"contract", func(r *domain.ExtractionRecord) { r.DocumentType = domain.TypeContract; r.DocumentNumber = "C-9" }, "Signer contrat C-9"},
		{"email", func(r *domain.ExtractionRecord) { r.DocumentType = domain.TypeEmail; r.Sender = "Me Dupont" }, "Répondre email de Me Dupont"},
		{"letter", func(r *domain.ExtractionRecord) { r.DocumentType = domain.TypeLetter; r.Sender = "Préfecture" }, "Traiter courrier de Préfecture"},
		{"other without number", func(r *domain.ExtractionRecord) { r.DocumentType = domain.TypeOther; r.DocumentNumber = "" }, "Traiter document"},
	}

	for _, tc := range cases {
		rec := baseRecord()
		tc.mutate(&rec)
		if got := buildTitle(rec); got != tc.want {
			t.Fatalf("%s: expected title %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestBuildScheduleCriticalOffsets(t *testing.T) {
	rec := baseRecord()
	rec.UrgencyLevel = domain.UrgencyCritical
	rec.DueDate = datePtr(2024, time.June, 20)
	today := domain.NewDate(2024, time.June, 1)

	_, notifications, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected exactly 2 notifications for critical, got %d", len(notifications))
	}
	if notifications[0].OffsetDays != -1 || notifications[1].OffsetDays != 0 {
		t.Fatalf("expected offsets [-1 0], got [%d %d]", notifications[0].OffsetDays, notifications[1].OffsetDays)
	}
	if notifications[1].Channel != domain.ChannelSMS {
		t.Fatalf("expected sms for critical day-of, got %s", notifications[1].Channel)
	}
	if notifications[0].Channel != domain.ChannelPush {
		t.Fatalf("expected push for day-before, got %s", notifications[0].Channel)
	}
}

func TestBuildScheduleMediumOffsetsAndChannels(t *testing.T) {
	rec := baseRecord()
	rec.DueDate = datePtr(2024, time.June, 20)
	today := domain.NewDate(2024, time.June, 1)

	_, notifications, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	wantOffsets := []int{-7, -3, -1, 0}
	wantChannels := []domain.NotificationChannel{domain.ChannelEmail, domain.ChannelEmail, domain.ChannelPush, domain.ChannelPush}
	if len(notifications) != len(wantOffsets) {
		t.Fatalf("expected %d notifications, got %d", len(wantOffsets), len(notifications))
	}
	for i := range notifications {
		if notifications[i].OffsetDays != wantOffsets[i] {
			t.Fatalf("notification %d: expected offset %d, got %d", i, wantOffsets[i], notifications[i].OffsetDays)
		}
		if notifications[i].Channel != wantChannels[i] {
			t.Fatalf("notification %d: expected channel %s, got %s", i, wantChannels[i], notifications[i].Channel)
		}
	}
}

func TestBuildScheduleFiltersPastNotifications(t *testing.T) {
	rec := baseRecord()
	rec.DueDate = datePtr(2024, time.June, 3)
	today := domain.NewDate(2024, time.June, 1)

	_, notifications, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	cutoff := today.AddDays(-1)
	for _, n := range notifications {
		if n.ScheduledAt.Before(cutoff) {
			t.Fatalf("notification scheduled in the past: %s", n.ScheduledAt)
		}
	}
	// -7 falls before the cutoff; -3 lands exactly on today-1 and survives.
	if len(notifications) != 3 {
		t.Fatalf("expected 3 surviving notifications, got %d", len(notifications))
	}
}

func TestBuildScheduleMessages(t *testing.T) {
	rec := baseRecord()
	rec.DueDate = datePtr(2024, time.June, 20)
	today := domain.NewDate(2024, time.June, 1)

	_, notifications, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	wantPrefixes := []string{"Dans 7 jours:", "Dans 3 jours:", "DEMAIN:", "AUJOURD'HUI:"}
	for i, n := range notifications {
		if !strings.HasPrefix(n.Message, wantPrefixes[i]) {
			t.Fatalf("notification %d: expected prefix %q, got %q", i, wantPrefixes[i], n.Message)
		}
		if !strings.Contains(n.Message, "Payer facture 2024-042") {
			t.Fatalf("message must reference the title, got %q", n.Message)
		}
	}
}

func TestBuildScheduleDeterministicApartFromIDs(t *testing.T) {
	rec := baseRecord()
	rec.DueDate = datePtr(2024, time.June, 20)
	rec.Sender = "Cabinet Durand"
	today := domain.NewDate(2024, time.June, 1)
	now := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)

	todoA, notifsA, err := buildSchedule(rec, today, "doc-1", now)
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	todoB, notifsB, err := buildSchedule(rec, today, "doc-1", now)
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}

	if todoA.Title != todoB.Title || todoA.Description != todoB.Description ||
		!todoA.DueDate.Equal(todoB.DueDate) || todoA.Priority != todoB.Priority {
		t.Fatalf("todo not deterministic: %+v vs %+v", todoA, todoB)
	}
	if len(notifsA) != len(notifsB) {
		t.Fatalf("notification counts differ: %d vs %d", len(notifsA), len(notifsB))
	}
	for i := range notifsA {
		if notifsA[i].Message != notifsB[i].Message ||
			!notifsA[i].ScheduledAt.Equal(notifsB[i].ScheduledAt) ||
			notifsA[i].Channel != notifsB[i].Channel {
			t.Fatalf("notification %d not deterministic", i)
		}
	}
}

func TestBuildScheduleDescriptionContent(t *testing.T) {
	rec := baseRecord()
	rec.Sender = "Cabinet Durand"
	rec.Recipient = "Société Martin"
	rec.IssueDate = datePtr(2024, time.June, 1)
	rec.DueDate = datePtr(2024, time.June, 20)
	rec.AmountExclTax = float64Ptr(1000)
	rec.Keywords = []string{"facture", "paiement"}
	today := domain.NewDate(2024, time.June, 10)

	todo, _, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	for _, want := range []string{
		"Expéditeur: Cabinet Durand",
		"Destinataire: Société Martin",
		"Date d'émission: 2024-06-01",
		"Échéance: 2024-06-20",
		"Montant HT: 1000€",
		"Montant TTC: 1200€",
		"Jours restants: 10",
		"Actions requises: Effectuer le paiement",
		"Mots-clés: facture, paiement",
	} {
		if !strings.Contains(todo.Description, want) {
			t.Fatalf("description missing %q:\n%s", want, todo.Description)
		}
	}
}

func TestBuildScheduleDefaultActionInDescription(t *testing.T) {
	rec := baseRecord()
	rec.RequiredActions = []string{"Traiter le document"}
	today := domain.NewDate(2024, time.June, 1)

	todo, _, err := buildSchedule(rec, today, "doc-1", time.Now())
	if err != nil {
		t.Fatalf("buildSchedule() error = %v", err)
	}
	if !strings.Contains(todo.Description, "Actions requises: Traiter le document") {
		t.Fatalf("expected default action line, got:\n%s", todo.Description)
	}
}

func TestBuildSchedulePriorityMapping(t *testing.T) {
	cases := map[domain.UrgencyLevel]int{
		domain.UrgencyLow:      1,
		domain.UrgencyMedium:   2,
		domain.UrgencyHigh:     3,
		domain.UrgencyCritical: 4,
	}
	today := domain.NewDate(2024, time.June, 1)
	for urgency, want := range cases {
		rec := baseRecord()
		rec.UrgencyLevel = urgency
		rec.DueDate = datePtr(2024, time.June, 20)
		todo, _, err := buildSchedule(rec, today, "doc-1", time.Now())
		if err != nil {
			t.Fatalf("buildSchedule() error = %v", err)
		}
		if todo.Priority != want {
			t.Fatalf("urgency %s: expected priority %d, got %d", urgency, want, todo.Priority)
		}
	}
}
