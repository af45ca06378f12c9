package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Commands run the state mutators off the UI goroutine and post their
// outcome back as messages. The optimistic flip is visible on the next
// snapshot; a failure shows up as a snap-back plus a status line.

func (m Model) bootstrap() tea.Cmd {
	st := m.St
	return func() tea.Msg {
		return bootstrapDoneMsg{err: st.Bootstrap()}
	}
}

func (m Model) reload() tea.Cmd {
	st := m.St
	return func() tea.Msg {
		return mutationDoneMsg{name: "refresh", err: st.Bootstrap()}
	}
}

// universityAction dispatches a shortlist/lock/unlock on the university
// under the cursor.
func (m Model) universityAction(action string) (tea.Model, tea.Cmd) {
	if m.Busy || m.UniCursor >= len(m.Universities) {
		return m, nil
	}
	id := m.Universities[m.UniCursor].ID
	st := m.St
	m.Busy = true
	m.Status = ""

	cmd := func() tea.Msg {
		var err error
		switch action {
		case "shortlist":
			err = st.Shortlist(id)
		case "lock":
			err = st.Lock(id)
		case "unlock":
			err = st.Unlock(id)
		}
		return mutationDoneMsg{name: action, err: err}
	}

	// Reflect the optimistic flip immediately; the mutator applies it
	// before its network call, so a snapshot right after dispatch would
	// also catch it, but the user should not wait for the next tick.
	return m, tea.Batch(cmd, m.Spinner.Tick)
}

func (m Model) toggleTodo() (tea.Model, tea.Cmd) {
	if m.Busy || m.TodoCursor >= len(m.Todos) {
		return m, nil
	}
	id := m.Todos[m.TodoCursor].ID
	st := m.St
	m.Busy = true
	m.Status = ""

	return m, func() tea.Msg {
		return mutationDoneMsg{name: "todo", err: st.ToggleTodo(id)}
	}
}

// submitInput routes a completed text entry to the right mutator.
func (m Model) submitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}
	st := m.St

	switch mode {
	case inputChat:
		m.Busy = true
		m.snapshot()
		return m, func() tea.Msg {
			_, err := st.SendChat(value)
			return chatDoneMsg{err: err}
		}

	case inputNewTodo:
		m.Busy = true
		return m, func() tea.Msg {
			return mutationDoneMsg{name: "add todo", err: st.AddTodo(value, "")}
		}

	case inputSearch:
		m.Busy = true
		return m, func() tea.Msg {
			return mutationDoneMsg{name: "search", err: st.LoadUniversities(value, "")}
		}
	}

	return m, nil
}
