package dashboard

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vantage/internal/api"
	"vantage/internal/models"
	"vantage/internal/state"
)

func newModel(t *testing.T) Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	st := state.New(api.New("http://127.0.0.1:1", "tok"), zap.NewNop(), time.Millisecond)
	return NewModel(st)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestTabCyclesPanels(t *testing.T) {
	m := newModel(t)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	want := []Panel{PanelTodos, PanelChat, PanelUniversities}
	for _, p := range want {
		next, _ := m.Update(tab)
		m = next.(Model)
		if m.ActivePanel != p {
			t.Fatalf("panel: got %d, want %d", m.ActivePanel, p)
		}
	}
}

func TestCursorClamps(t *testing.T) {
	m := newModel(t)
	m.Universities = []models.University{{ID: 1}, {ID: 2}, {ID: 3}}

	next, _ := m.Update(keyRune('k'))
	m = next.(Model)
	if m.UniCursor != 0 {
		t.Fatalf("cursor above top: got %d, want 0", m.UniCursor)
	}

	for i := 0; i < 10; i++ {
		next, _ = m.Update(keyRune('j'))
		m = next.(Model)
	}
	if m.UniCursor != 2 {
		t.Fatalf("cursor below bottom: got %d, want 2", m.UniCursor)
	}
}

func TestCursorOnEmptyList(t *testing.T) {
	m := newModel(t)

	next, _ := m.Update(keyRune('j'))
	m = next.(Model)
	if m.UniCursor != 0 {
		t.Fatalf("cursor on empty list: got %d, want 0", m.UniCursor)
	}
}

func TestSnapshotPullsCursorBack(t *testing.T) {
	m := newModel(t)
	m.Universities = []models.University{{ID: 1}, {ID: 2}, {ID: 3}}
	m.UniCursor = 2

	// The state handle is empty, so a snapshot shrinks the list.
	m.snapshot()
	if len(m.Universities) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(m.Universities))
	}
	if m.UniCursor != 0 {
		t.Fatalf("cursor after shrink: got %d, want 0", m.UniCursor)
	}
}

func TestEscCancelsInput(t *testing.T) {
	m := newModel(t)
	m.ActivePanel = PanelChat

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.Mode != inputChat {
		t.Fatalf("mode: got %d, want chat input", m.Mode)
	}

	next, _ = m.Update(keyRune('h'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.Mode != inputNone {
		t.Fatalf("mode after esc: got %d, want none", m.Mode)
	}
	if m.Input.Value() != "" {
		t.Fatalf("input should clear on esc, got %q", m.Input.Value())
	}
}

func TestInputSwallowsPanelKeys(t *testing.T) {
	m := newModel(t)
	m.ActivePanel = PanelChat

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// "q" must type into the input, not quit.
	next, cmd := m.Update(keyRune('q'))
	m = next.(Model)
	if m.Input.Value() != "q" {
		t.Fatalf("input: got %q, want q", m.Input.Value())
	}
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("q inside input mode must not quit")
		}
	}
}

func TestSearchOnlyFromUniversitiesPanel(t *testing.T) {
	m := newModel(t)
	m.ActivePanel = PanelTodos

	next, _ := m.Update(keyRune('/'))
	m = next.(Model)
	if m.Mode != inputNone {
		t.Fatalf("search should be universities-only, got mode %d", m.Mode)
	}
}

func TestWindowSize(t *testing.T) {
	m := newModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if m.Width != 120 || m.Height != 40 {
		t.Fatalf("size: got %dx%d", m.Width, m.Height)
	}
}

func TestMutationDoneSetsStatus(t *testing.T) {
	m := newModel(t)
	m.Busy = true

	next, _ := m.Update(mutationDoneMsg{name: "shortlist", err: nil})
	m = next.(Model)
	if m.Busy {
		t.Fatal("busy must clear")
	}
	if m.Status != "shortlist done" {
		t.Fatalf("status: got %q", m.Status)
	}

	m.Busy = true
	next, _ = m.Update(mutationDoneMsg{name: "lock", err: errors.New("boom")})
	m = next.(Model)
	if m.Status != "lock failed - change reverted" {
		t.Fatalf("status: got %q", m.Status)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, -1, 0}, // empty range collapses to lo
	}
	for _, tc := range cases {
		if got := clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("clamp(%d,%d,%d): got %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
