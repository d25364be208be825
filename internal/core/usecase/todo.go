package usecase

import (
	"context"
	"fmt"

	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/core/ports"
)

// TodoUseCase serves task reads and the explicit status transitions
// that are the only way a todo ever changes after creation.
type TodoUseCase struct {
	todos         ports.TodoRepository
	notifications ports.NotificationRepository
}

func NewTodoUseCase(todos ports.TodoRepository, notifications ports.NotificationRepository) *TodoUseCase {
	return &TodoUseCase{
		todos:         todos,
		notifications: notifications,
	}
}

func (uc *TodoUseCase) GetByDocumentID(ctx context.Context, documentID string) (*domain.TodoItem, []domain.Notification, error) {
	todo, err := uc.todos.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch todo by document: %w", err)
	}

	notifications, err := uc.notifications.ListByTodoID(ctx, todo.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list notifications: %w", err)
	}
	return todo, notifications, nil
}

func (uc *TodoUseCase) List(ctx context.Context, status domain.TodoStatus) ([]domain.TodoItem, error) {
	todos, err := uc.todos.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (uc *TodoUseCase) Transition(ctx context.Context, todoID string, to domain.TodoStatus) (*domain.TodoItem, error) {
	if !to.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "transition todo",
			fmt.Errorf("unknown status %q", to))
	}

	todo, err := uc.todos.GetByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("fetch todo: %w", err)
	}
	if !todo.Status.CanTransitionTo(to) {
		return nil, domain.WrapError(domain.ErrInvalidTransition, "transition todo",
			fmt.Errorf("%s -> %s", todo.Status, to))
	}

	if err := uc.todos.UpdateStatus(ctx, todoID, todo.Status, to); err != nil {
		return nil, fmt.Errorf("update todo status: %w", err)
	}
	todo.Status = to
	return todo, nil
}
