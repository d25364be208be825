package domain

import "time"

type TodoStatus string

const (
	TodoStatusPending   TodoStatus = "pending"
	TodoStatusCompleted TodoStatus = "completed"
	TodoStatusCancelled TodoStatus = "cancelled"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusPending, TodoStatusCompleted, TodoStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a status change is a legal lifecycle move.
// A todo is created pending and only leaves that state once.
func (s TodoStatus) CanTransitionTo(next TodoStatus) bool {
	return s == TodoStatusPending && (next == TodoStatusCompleted || next == TodoStatusCancelled)
}

type TodoItem struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"document_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     Date       `json:"due_date"`
	Priority    int        `json:"priority"`
	Status      TodoStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelPush  NotificationChannel = "push"
	ChannelSMS   NotificationChannel = "sms"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
)

// Notification is a scheduled reminder derived from a todo's due date.
// OffsetDays is the signed day count relative to the due date (0 = day-of).
type Notification struct {
	ID          string              `json:"id"`
	TodoID      string              `json:"todo_id"`
	DocumentID  string              `json:"document_id"`
	ScheduledAt Date                `json:"scheduled_at"`
	OffsetDays  int                 `json:"offset_days"`
	Channel     NotificationChannel `json:"channel"`
	Message     string              `json:"message"`
	Status      NotificationStatus  `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}
