// Package dashboard is the full-screen terminal UI: profile snapshot,
// journey stage, university discovery, the application checklist, and the
// AI counsellor chat, all reading from and mutating the shared state
// handle.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vantage/internal/models"
	"vantage/internal/state"
)

// Panel represents which panel is active
type Panel int

const (
	PanelUniversities Panel = iota
	PanelTodos
	PanelChat
)

// inputMode says what the text input at the bottom is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputChat
	inputNewTodo
	inputSearch
)

// Model is the main Bubble Tea model for the dashboard
type Model struct {
	St *state.State

	Width  int
	Height int

	ActivePanel Panel
	UniCursor   int
	TodoCursor  int
	ChatScroll  int

	Mode    inputMode
	Input   textinput.Model
	Spinner spinner.Model

	// Snapshot copies read from the state handle each refresh.
	Universities []models.University
	Todos        []models.TodoItem
	Chat         []models.ChatMessage
	Profile      *models.UserProfile
	Stage        models.Stage
	Onboarded    bool
	Typing       bool

	Bootstrapped bool
	Busy         bool // a mutator is in flight
	Status       string
	Err          error
}

// MinWidth is the minimum terminal width for proper display
const MinWidth = 60

// MinHeight is the minimum terminal height for proper display
const MinHeight = 20

// refreshInterval drives periodic re-reads of the state handle, picking
// up background changes such as the post-chat-action refresh.
const refreshInterval = 2 * time.Second

// TickMsg triggers a snapshot refresh
type TickMsg time.Time

// bootstrapDoneMsg reports the initial reconciliation outcome
type bootstrapDoneMsg struct{ err error }

// mutationDoneMsg reports an optimistic mutator's outcome
type mutationDoneMsg struct {
	name string
	err  error
}

// chatDoneMsg reports a counsellor reply (or its failure)
type chatDoneMsg struct{ err error }

// NewModel creates the dashboard model bound to a state handle.
func NewModel(st *state.State) Model {
	in := textinput.New()
	in.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		St:          st,
		ActivePanel: PanelUniversities,
		Input:       in,
		Spinner:     sp,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.bootstrap(),
		m.Spinner.Tick,
		scheduleTick(),
	)
}

func scheduleTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case TickMsg:
		m.snapshot()
		return m, scheduleTick()

	case bootstrapDoneMsg:
		m.Bootstrapped = true
		m.Err = msg.err
		m.snapshot()
		return m, nil

	case mutationDoneMsg:
		m.Busy = false
		if msg.err != nil {
			m.Status = msg.name + " failed - change reverted"
		} else {
			m.Status = msg.name + " done"
		}
		m.snapshot()
		return m, nil

	case chatDoneMsg:
		m.Busy = false
		if msg.err != nil {
			m.Status = "counsellor unavailable"
		}
		m.snapshot()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.Busy {
			// Pick up in-flight optimistic changes without waiting for
			// the slow tick.
			m.snapshot()
		}
		return m, cmd
	}

	return m, nil
}

// snapshot copies the current state into the model for rendering.
func (m *Model) snapshot() {
	m.Universities = m.St.Universities()
	m.Todos = m.St.Todos()
	m.Chat = m.St.Chat()
	m.Profile = m.St.Profile()
	m.Stage = m.St.Stage()
	m.Onboarded = m.St.OnboardingCompleted()
	m.Typing = m.St.Typing()

	if m.UniCursor >= len(m.Universities) {
		m.UniCursor = max(0, len(m.Universities)-1)
	}
	if m.TodoCursor >= len(m.Todos) {
		m.TodoCursor = max(0, len(m.Todos)-1)
	}
}

// handleKey processes key input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Mode != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.ActivePanel = (m.ActivePanel + 1) % 3
		return m, nil

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "r":
		return m, m.reload()

	case "/":
		if m.ActivePanel == PanelUniversities {
			return m.enterInput(inputSearch, "Search universities...")
		}

	case "s":
		if m.ActivePanel == PanelUniversities {
			return m.universityAction("shortlist")
		}

	case "l":
		if m.ActivePanel == PanelUniversities {
			return m.universityAction("lock")
		}

	case "u":
		if m.ActivePanel == PanelUniversities {
			return m.universityAction("unlock")
		}

	case "a":
		if m.ActivePanel == PanelTodos {
			return m.enterInput(inputNewTodo, "New checklist item...")
		}

	case " ", "enter":
		switch m.ActivePanel {
		case PanelTodos:
			return m.toggleTodo()
		case PanelChat:
			return m.enterInput(inputChat, "Ask the counsellor...")
		}
	}

	return m, nil
}

// handleInputKey processes keys while the text input is active.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = inputNone
		m.Input.Blur()
		m.Input.SetValue("")
		return m, nil

	case "enter":
		value := m.Input.Value()
		mode := m.Mode
		m.Mode = inputNone
		m.Input.Blur()
		m.Input.SetValue("")
		return m.submitInput(mode, value)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) enterInput(mode inputMode, placeholder string) (tea.Model, tea.Cmd) {
	m.Mode = mode
	m.Input.Placeholder = placeholder
	m.Input.Focus()
	return m, textinput.Blink
}

func (m *Model) moveCursor(delta int) {
	switch m.ActivePanel {
	case PanelUniversities:
		m.UniCursor = clamp(m.UniCursor+delta, 0, len(m.Universities)-1)
	case PanelTodos:
		m.TodoCursor = clamp(m.TodoCursor+delta, 0, len(m.Todos)-1)
	case PanelChat:
		m.ChatScroll = max(0, m.ChatScroll+delta)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
