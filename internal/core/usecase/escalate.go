package usecase

import "github.com/avocato-app/docpilot/internal/core/domain"

// normalizeRecord enforces the record invariants regardless of which
// path produced it: the response window is always set, there is always
// at least one required action, and enum fields hold known values.
func normalizeRecord(rec *domain.ExtractionRecord) {
	if !rec.DocumentType.Valid() {
		rec.DocumentType = domain.TypeOther
	}
	if !rec.UrgencyLevel.Valid() {
		rec.UrgencyLevel = domain.UrgencyMedium
	}
	if rec.ResponseWindowDays <= 0 {
		rec.ResponseWindowDays = rec.DocumentType.DefaultResponseWindowDays()
	}
	if len(rec.RequiredActions) == 0 {
		rec.RequiredActions = []string{defaultAction}
	}
	if len(rec.Keywords) > maxKeywords {
		rec.Keywords = rec.Keywords[:maxKeywords]
	}
	rec.Sender = truncate(rec.Sender, maxPartyLength)
	rec.Recipient = truncate(rec.Recipient, maxPartyLength)
	if rec.IssueDate != nil && rec.IssueDate.IsZero() {
		rec.IssueDate = nil
	}
	if rec.DueDate != nil && rec.DueDate.IsZero() {
		rec.DueDate = nil
	}
}

// escalateUrgency raises the urgency when the due date is close.
// Running it twice yields the same level as running it once.
//
// The <=3 rule only escalates from medium: a document classified low
// stays low until the day-before cutoff makes it critical.
func escalateUrgency(rec *domain.ExtractionRecord, today domain.Date) {
	if rec.DueDate == nil {
		return
	}
	daysRemaining := today.DaysUntil(*rec.DueDate)
	switch {
	case daysRemaining <= 1 && rec.UrgencyLevel != domain.UrgencyCritical:
		rec.UrgencyLevel = domain.UrgencyCritical
	case daysRemaining <= 3 && rec.UrgencyLevel == domain.UrgencyMedium:
		rec.UrgencyLevel = domain.UrgencyHigh
	}
}
