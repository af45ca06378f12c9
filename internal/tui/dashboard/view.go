package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vantage/internal/models"
	"vantage/internal/output"
)

// View implements tea.Model
func (m Model) View() string {
	if m.Width < MinWidth || m.Height < MinHeight {
		return fmt.Sprintf("Terminal too small (need %dx%d)\n", MinWidth, MinHeight)
	}
	if !m.Bootstrapped {
		return fmt.Sprintf("\n  %s Loading your session...\n", m.Spinner.View())
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Session invalid: %v\n\n  Run 'vantage login' and try again. Press q to quit.\n", m.Err)
	}

	header := m.renderHeader()
	body := m.renderBody()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("vantage")
	stage := output.StageLine(m.Stage)

	profile := subtleStyle.Render("onboarding incomplete - run 'vantage onboard'")
	if m.Profile != nil {
		profile = subtleStyle.Render(fmt.Sprintf("%s · intake %s · %s · budget %s",
			m.Profile.Degree, m.Profile.TargetIntake,
			strings.Join(m.Profile.Countries, "/"), m.Profile.BudgetRange))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", profile),
		stage,
	)
}

func (m Model) renderBody() string {
	bodyHeight := m.Height - 7 // header + footer + borders
	leftWidth := m.Width * 55 / 100
	rightWidth := m.Width - leftWidth - 6

	left := panelStyle(m.ActivePanel == PanelUniversities).
		Width(leftWidth).
		Height(bodyHeight).
		Render(m.renderUniversities(leftWidth, bodyHeight))

	rightTop := panelStyle(m.ActivePanel == PanelTodos).
		Width(rightWidth).
		Height(bodyHeight/2 - 1).
		Render(m.renderTodos(bodyHeight/2 - 1))

	rightBottom := panelStyle(m.ActivePanel == PanelChat).
		Width(rightWidth).
		Height(bodyHeight - bodyHeight/2 - 1).
		Render(m.renderChat(rightWidth, bodyHeight-bodyHeight/2-1))

	right := lipgloss.JoinVertical(lipgloss.Left, rightTop, rightBottom)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderUniversities(width, height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Universities"))
	b.WriteString("\n")

	if len(m.Universities) == 0 {
		b.WriteString(subtleStyle.Render("No matches yet. Press / to search, r to refresh."))
		return b.String()
	}

	visible := height - 2
	start := 0
	if m.UniCursor >= visible {
		start = m.UniCursor - visible + 1
	}

	for i := start; i < len(m.Universities) && i < start+visible; i++ {
		u := m.Universities[i]

		flag := " "
		if u.IsLocked {
			flag = lockStyle.Render("L")
		} else if u.IsShortlisted {
			flag = goodStyle.Render("S")
		}

		line := fmt.Sprintf("%s %-3d %s %s %s %s",
			flag, u.ID,
			truncate(u.Name, width-30),
			subtleStyle.Render(truncate(u.Country, 10)),
			costStyle(u.CostTier).Render(string(u.CostTier)),
			tagStyle(u.Tag).Render(string(u.Tag)),
		)
		if i == m.UniCursor && m.ActivePanel == PanelUniversities {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTodos(height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Checklist"))
	b.WriteString("\n")

	if len(m.Todos) == 0 {
		b.WriteString(subtleStyle.Render("Nothing yet. Lock a university, or press a to add."))
		return b.String()
	}

	visible := height - 2
	start := 0
	if m.TodoCursor >= visible {
		start = m.TodoCursor - visible + 1
	}

	for i := start; i < len(m.Todos) && i < start+visible; i++ {
		t := m.Todos[i]
		box := "[ ]"
		style := lipgloss.NewStyle()
		if t.Status == models.TodoDone {
			box = "[x]"
			style = subtleStyle
		}
		line := fmt.Sprintf("%s %s", box, style.Render(t.Text))
		if i == m.TodoCursor && m.ActivePanel == PanelTodos {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderChat(width, height int) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("AI Counsellor"))
	b.WriteString("\n")

	var lines []string
	for _, msg := range m.Chat {
		prefix := userMsgStyle.Render("you ")
		style := userMsgStyle
		wrapped := wrap(msg.Content, width-8)
		if msg.Role == models.RoleAI {
			prefix = accentStyle.Render("ai  ")
			style = aiMsgStyle
			wrapped = strings.Split(output.MarkdownWidth(msg.Content, width-8), "\n")
		}
		for j, l := range wrapped {
			if j == 0 {
				lines = append(lines, prefix+style.Render(l))
			} else {
				lines = append(lines, "    "+style.Render(l))
			}
		}
	}
	if m.Typing {
		lines = append(lines, m.Spinner.View()+subtleStyle.Render(" thinking..."))
	}

	// Show the tail of the transcript, minus any manual scroll-back.
	visible := height - 2
	end := len(lines) - m.ChatScroll
	if end < 0 {
		end = 0
	}
	start := end - visible
	if start < 0 {
		start = 0
	}
	for _, l := range lines[start:end] {
		b.WriteString(l)
		b.WriteString("\n")
	}

	if len(m.Chat) == 0 && !m.Typing {
		b.WriteString(subtleStyle.Render("Press enter to ask a question."))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if m.Mode != inputNone {
		return m.Input.View()
	}

	help := "tab panels · j/k move · r refresh · q quit"
	switch m.ActivePanel {
	case PanelUniversities:
		help = "s shortlist · l lock · u unlock · / search · " + help
	case PanelTodos:
		help = "space toggle · a add · " + help
	case PanelChat:
		help = "enter ask · " + help
	}

	line := subtleStyle.Render(help)
	if m.Status != "" {
		line = warnStyle.Render(m.Status) + "  " + line
	}
	if m.Busy {
		line = m.Spinner.View() + " " + line
	}
	return line
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func wrap(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		if cur == "" {
			cur = w
			continue
		}
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
		} else {
			cur += " " + w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
