package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

// Reminder offsets in days relative to the due date, by urgency.
// Denser schedules for calmer documents: a critical item has no time
// for week-ahead reminders.
var reminderOffsets = map[domain.UrgencyLevel][]int{
	domain.UrgencyCritical: {-1, 0},
	domain.UrgencyHigh:     {-3, -1, 0},
	domain.UrgencyMedium:   {-7, -3, -1, 0},
	domain.UrgencyLow:      {-7, -3, -1, 0},
}

// buildSchedule derives the todo and its reminder notifications from a
// normalized extraction record. It is a pure function of (record,
// today) apart from generated IDs and timestamps.
func buildSchedule(rec domain.ExtractionRecord, today domain.Date, documentID string, now time.Time) (domain.TodoItem, []domain.Notification, error) {
	dueDate, err := resolveDueDate(rec, today)
	if err != nil {
		return domain.TodoItem{}, nil, err
	}

	title := buildTitle(rec)
	todo := domain.TodoItem{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		Title:       title,
		Description: buildDescription(rec, dueDate, today),
		DueDate:     dueDate,
		Priority:    rec.UrgencyLevel.Priority(),
		Status:      domain.TodoStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	notifications := buildNotifications(rec.UrgencyLevel, dueDate, today, todo, now)
	return todo, notifications, nil
}

// resolveDueDate picks the explicit due date, else counts the response
// window from the issue date, else from today. A missing window here
// means the extractor broke its invariant.
func resolveDueDate(rec domain.ExtractionRecord, today domain.Date) (domain.Date, error) {
	if rec.DueDate != nil && !rec.DueDate.IsZero() {
		return *rec.DueDate, nil
	}
	if rec.ResponseWindowDays <= 0 {
		return domain.Date{}, domain.WrapError(
			domain.ErrMissingScheduleInput,
			"resolve due date",
			errors.New("response_window_days is not set"),
		)
	}
	if rec.IssueDate != nil && !rec.IssueDate.IsZero() {
		return rec.IssueDate.AddDays(rec.ResponseWindowDays), nil
	}
	return today.AddDays(rec.ResponseWindowDays), nil
}

func buildTitle(rec domain.ExtractionRecord) string {
	var title string
	switch rec.DocumentType {
	case domain.TypeInvoice:
		if rec.AmountInclTax != nil {
			title = fmt.Sprintf("Payer facture %s - %s€", rec.DocumentNumber, formatAmount(*rec.AmountInclTax))
		} else {
			title = fmt.Sprintf("Traiter facture %s", rec.DocumentNumber)
		}
	case domain.TypeQuote:
		title = fmt.Sprintf("Valider devis %s", rec.DocumentNumber)
	case domain.TypeContract:
		title = fmt.Sprintf("Signer contrat %s", rec.DocumentNumber)
	case domain.TypeEmail:
		title = fmt.Sprintf("Répondre email de %s", rec.Sender)
	case domain.TypeLetter:
		title = fmt.Sprintf("Traiter courrier de %s", rec.Sender)
	case domain.TypeOther:
		title = fmt.Sprintf("Traiter document %s", rec.DocumentNumber)
	default:
		title = fmt.Sprintf("Traiter document %s", rec.DocumentNumber)
	}
	// Collapse the hole left by an empty number or sender.
	return strings.Join(strings.Fields(title), " ")
}

func buildDescription(rec domain.ExtractionRecord, dueDate, today domain.Date) string {
	lines := make([]string, 0, 9)
	if rec.Sender != "" {
		lines = append(lines, "Expéditeur: "+rec.Sender)
	}
	if rec.Recipient != "" {
		lines = append(lines, "Destinataire: "+rec.Recipient)
	}
	if rec.IssueDate != nil && !rec.IssueDate.IsZero() {
		lines = append(lines, "Date d'émission: "+rec.IssueDate.String())
	}
	lines = append(lines, "Échéance: "+dueDate.String())
	if rec.AmountExclTax != nil {
		lines = append(lines, "Montant HT: "+formatAmount(*rec.AmountExclTax)+"€")
	}
	if rec.AmountInclTax != nil {
		lines = append(lines, "Montant TTC: "+formatAmount(*rec.AmountInclTax)+"€")
	}
	lines = append(lines, "Jours restants: "+strconv.Itoa(today.DaysUntil(dueDate)))
	if len(rec.RequiredActions) > 0 {
		lines = append(lines, "Actions requises: "+strings.Join(rec.RequiredActions, ", "))
	}
	if len(rec.Keywords) > 0 {
		lines = append(lines, "Mots-clés: "+strings.Join(rec.Keywords, ", "))
	}
	return strings.Join(lines, "\n")
}

func buildNotifications(urgency domain.UrgencyLevel, dueDate, today domain.Date, todo domain.TodoItem, now time.Time) []domain.Notification {
	offsets, ok := reminderOffsets[urgency]
	if !ok {
		offsets = reminderOffsets[domain.UrgencyMedium]
	}

	cutoff := today.AddDays(-1)
	notifications := make([]domain.Notification, 0, len(offsets))
	for _, offset := range offsets {
		scheduledAt := dueDate.AddDays(offset)
		if scheduledAt.Before(cutoff) {
			continue
		}
		notifications = append(notifications, domain.Notification{
			ID:          uuid.NewString(),
			TodoID:      todo.ID,
			DocumentID:  todo.DocumentID,
			ScheduledAt: scheduledAt,
			OffsetDays:  offset,
			Channel:     pickChannel(offset, urgency),
			Message:     buildMessage(offset, todo.Title),
			Status:      domain.NotificationStatusPending,
			CreatedAt:   now,
		})
	}
	return notifications
}

// pickChannel escalates intrusiveness as the deadline closes in:
// email for early reminders, push the day before and the day of,
// SMS only for a critical item on the day itself.
func pickChannel(offset int, urgency domain.UrgencyLevel) domain.NotificationChannel {
	switch {
	case offset == 0 && urgency == domain.UrgencyCritical:
		return domain.ChannelSMS
	case offset >= -1:
		return domain.ChannelPush
	default:
		return domain.ChannelEmail
	}
}

func buildMessage(offset int, title string) string {
	switch offset {
	case 0:
		return "AUJOURD'HUI: " + title
	case -1:
		return "DEMAIN: " + title
	case -3:
		return "Dans 3 jours: " + title
	case -7:
		return "Dans 7 jours: " + title
	default:
		return fmt.Sprintf("Dans %d jours: %s", -offset, title)
	}
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
