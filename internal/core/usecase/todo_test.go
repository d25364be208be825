package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/avocato-app/docpilot/internal/core/domain"
)

func pendingTodo() *domain.TodoItem {
	return &domain.TodoItem{
		ID:         "todo-1",
		DocumentID: "doc-1",
		Title:      "Payer facture 2024-042 - 1200€",
		DueDate:    domain.NewDate(2024, time.July, 1),
		Priority:   2,
		Status:     domain.TodoStatusPending,
	}
}

func TestTransitionPendingToCompleted(t *testing.T) {
	todos := &todoRepoFake{todo: pendingTodo()}
	uc := NewTodoUseCase(todos, &notificationRepoFake{})

	updated, err := uc.Transition(context.Background(), "todo-1", domain.TodoStatusCompleted)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if updated.Status != domain.TodoStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if todos.updatedTo != domain.TodoStatusCompleted {
		t.Fatalf("expected repository update to completed, got %s", todos.updatedTo)
	}
}

func TestTransitionRejectsCompletedToCancelled(t *testing.T) {
	done := pendingTodo()
	done.Status = domain.TodoStatusCompleted
	uc := NewTodoUseCase(&todoRepoFake{todo: done}, &notificationRepoFake{})

	_, err := uc.Transition(context.Background(), "todo-1", domain.TodoStatusCancelled)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	uc := NewTodoUseCase(&todoRepoFake{todo: pendingTodo()}, &notificationRepoFake{})

	_, err := uc.Transition(context.Background(), "todo-1", domain.TodoStatus("archived"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTransitionRejectsBackToPending(t *testing.T) {
	uc := NewTodoUseCase(&todoRepoFake{todo: pendingTodo()}, &notificationRepoFake{})

	_, err := uc.Transition(context.Background(), "todo-1", domain.TodoStatusPending)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
