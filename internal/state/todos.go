package state

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/models"
)

// LoadTodos replaces the cached checklist from the server, mapping the
// server's completed boolean onto the pending/done status.
func (s *State) LoadTodos() error {
	records, err := s.client.ListTodos()
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}

	items := make([]models.TodoItem, 0, len(records))
	for _, r := range records {
		items = append(items, todoFromRecord(r))
	}

	s.mu.Lock()
	s.todos = items
	s.mu.Unlock()
	return nil
}

func todoFromRecord(r api.TodoRecord) models.TodoItem {
	status := models.TodoPending
	if r.Completed {
		status = models.TodoDone
	}
	return models.TodoItem{ID: r.ID, Text: r.Title, Status: status}
}

// ToggleTodo flips a checklist item between pending and done,
// optimistically, and reverts to the prior status on failure. Unknown ids
// no-op.
func (s *State) ToggleTodo(id int64) error {
	prev, ok := s.setTodoStatusToggled(id)
	if !ok {
		return nil
	}

	if _, err := s.client.UpdateTodo(id, prev != models.TodoDone); err != nil {
		s.setTodoStatus(id, prev)
		s.log.Warn("todo toggle failed", zap.Int64("todo", id), zap.Error(err))
		return fmt.Errorf("toggle todo: %w", err)
	}
	return nil
}

// AddTodo prepends a pending item with a temporary negative id, then
// creates it server-side. On success the temporary item is replaced by
// the server row; on failure it is removed entirely.
func (s *State) AddTodo(title, description string) error {
	tempID := -time.Now().UnixNano()
	item := models.TodoItem{ID: tempID, Text: title, Status: models.TodoPending}

	s.mu.Lock()
	s.todos = append([]models.TodoItem{item}, s.todos...)
	s.mu.Unlock()

	rec, err := s.client.CreateTodo(&api.CreateTodoRequest{Title: title, Description: description})
	if err != nil {
		s.removeTodo(tempID)
		s.log.Warn("todo create failed", zap.String("title", title), zap.Error(err))
		return fmt.Errorf("add todo: %w", err)
	}

	s.mu.Lock()
	for i := range s.todos {
		if s.todos[i].ID == tempID {
			s.todos[i] = todoFromRecord(*rec)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// setTodoStatusToggled flips pending<->done and returns the prior status.
func (s *State) setTodoStatusToggled(id int64) (models.TodoStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			prev := s.todos[i].Status
			if prev == models.TodoDone {
				s.todos[i].Status = models.TodoPending
			} else {
				s.todos[i].Status = models.TodoDone
			}
			return prev, true
		}
	}
	return "", false
}

func (s *State) setTodoStatus(id int64, status models.TodoStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Status = status
			return
		}
	}
}

func (s *State) removeTodo(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.todos[:0]
	for _, t := range s.todos {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.todos = out
}
