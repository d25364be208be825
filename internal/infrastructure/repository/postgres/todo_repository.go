package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.TodoItem) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO todos (id, document_id, title, description, due_date, priority, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, todo.ID, todo.DocumentID, todo.Title, todo.Description, todo.DueDate.Time(), todo.Priority,
		string(todo.Status), todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, id string) (*domain.TodoItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, document_id, title, description, due_date, priority, status, created_at, updated_at
FROM todos
WHERE id = $1
`, id)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTodoNotFound, "get todo", err)
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.TodoItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, document_id, title, description, due_date, priority, status, created_at, updated_at
FROM todos
WHERE document_id = $1
ORDER BY created_at DESC
LIMIT 1
`, documentID)

	todo, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrTodoNotFound, "get todo by document", err)
		}
		return nil, fmt.Errorf("get todo by document id: %w", err)
	}
	return &todo, nil
}

func (r *TodoRepository) List(ctx context.Context, status domain.TodoStatus) ([]domain.TodoItem, error) {
	query := `
SELECT id, document_id, title, description, due_date, priority, status, created_at, updated_at
FROM todos
`
	args := []any{}
	if status != "" {
		query += "WHERE status = $1\n"
		args = append(args, string(status))
	}
	query += "ORDER BY due_date ASC, priority DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TodoItem, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return out, nil
}

// UpdateStatus moves a todo from one explicit status to another. The
// `from` guard in the WHERE clause makes concurrent transitions lose
// cleanly instead of overwriting each other.
func (r *TodoRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TodoStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE todos
SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2
`, id, string(from), string(to), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update todo status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update todo status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrInvalidTransition, "update todo status",
			fmt.Errorf("todo %s is not %s", id, from))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodo(row rowScanner) (domain.TodoItem, error) {
	var todo domain.TodoItem
	var status string
	var dueDate time.Time
	err := row.Scan(
		&todo.ID,
		&todo.DocumentID,
		&todo.Title,
		&todo.Description,
		&dueDate,
		&todo.Priority,
		&status,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return domain.TodoItem{}, err
	}
	todo.DueDate = domain.DateOf(dueDate)
	todo.Status = domain.TodoStatus(status)
	return todo, nil
}
