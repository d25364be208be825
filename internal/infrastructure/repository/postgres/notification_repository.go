package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin notifications tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO notifications (id, todo_id, document_id, scheduled_at, offset_days, channel, message, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`)
	if err != nil {
		return fmt.Errorf("prepare notification insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		_, err := stmt.ExecContext(ctx,
			n.ID, n.TodoID, n.DocumentID, n.ScheduledAt.Time(), n.OffsetDays,
			string(n.Channel), n.Message, string(n.Status), n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notifications tx: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByTodoID(ctx context.Context, todoID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, todo_id, document_id, scheduled_at, offset_days, channel, message, status, created_at
FROM notifications
WHERE todo_id = $1
ORDER BY scheduled_at ASC
`, todoID)
	if err != nil {
		return nil, fmt.Errorf("list notifications by todo: %w", err)
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *NotificationRepository) ListDue(ctx context.Context, today domain.Date) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, todo_id, document_id, scheduled_at, offset_days, channel, message, status, created_at
FROM notifications
WHERE status = $1 AND scheduled_at <= $2
ORDER BY scheduled_at ASC
`, string(domain.NotificationStatusPending), today.Time())
	if err != nil {
		return nil, fmt.Errorf("list due notifications: %w", err)
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE notifications
SET status = $2
WHERE id = $1 AND status = $3
`, id, string(domain.NotificationStatusSent), string(domain.NotificationStatusPending))
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification sent rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("notification not pending: id=%s", id)
	}
	return nil
}

func collectNotifications(rows *sql.Rows) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		var scheduledAt time.Time
		var channel, status string
		err := rows.Scan(
			&n.ID,
			&n.TodoID,
			&n.DocumentID,
			&scheduledAt,
			&n.OffsetDays,
			&channel,
			&n.Message,
			&status,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.ScheduledAt = domain.DateOf(scheduledAt)
		n.Channel = domain.NotificationChannel(channel)
		n.Status = domain.NotificationStatus(status)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}
