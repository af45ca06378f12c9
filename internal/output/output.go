// Package output provides styled terminal output helpers (success, error,
// warning, domain formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vantage/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	costStyles = map[models.CostTier]lipgloss.Style{
		models.CostLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.CostMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.CostHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	tagStyles = map[models.Tag]lipgloss.Style{
		models.TagDream:  lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		models.TagTarget: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.TagSafe:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Title prints a bold section heading
func Title(text string) {
	fmt.Println(titleStyle.Render(text))
}

// Subtle prints de-emphasized text
func Subtle(format string, args ...interface{}) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf(format, args...)))
}

// UniversityLine formats a single university row for list output.
func UniversityLine(u models.University) string {
	var flags []string
	if u.IsLocked {
		flags = append(flags, lockedStyle.Render("LOCKED"))
	} else if u.IsShortlisted {
		flags = append(flags, successStyle.Render("shortlisted"))
	}

	parts := []string{
		fmt.Sprintf("%4d", u.ID),
		titleStyle.Render(u.Name),
		subtleStyle.Render(u.Country),
		costStyles[u.CostTier].Render(string(u.CostTier)),
		tagStyles[u.Tag].Render(string(u.Tag)),
		subtleStyle.Render(u.Ranking),
	}
	parts = append(parts, flags...)
	return strings.Join(parts, "  ")
}

// UniversityDetail formats the full card for one university.
func UniversityDetail(u models.University) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(u.Name), subtleStyle.Render(u.Country))
	fmt.Fprintf(&b, "  Cost: %s   Chance: %s   Tag: %s   %s\n",
		costStyles[u.CostTier].Render(string(u.CostTier)),
		u.AcceptanceChance,
		tagStyles[u.Tag].Render(string(u.Tag)),
		subtleStyle.Render(u.Ranking))
	fmt.Fprintf(&b, "  Why it fits: %s\n", u.WhyFits)
	fmt.Fprintf(&b, "  Risks: %s\n", u.Risks)
	if u.IsLocked {
		fmt.Fprintf(&b, "  %s\n", lockedStyle.Render("Locked in"))
	} else if u.IsShortlisted {
		fmt.Fprintf(&b, "  %s\n", successStyle.Render("Shortlisted"))
	}
	return b.String()
}

// TodoLine formats a single checklist row.
func TodoLine(t models.TodoItem) string {
	box := "[ ]"
	style := lipgloss.NewStyle()
	if t.Status == models.TodoDone {
		box = "[x]"
		style = subtleStyle
	}
	id := fmt.Sprintf("#%d", t.ID)
	if t.IsTemp() {
		id = "(pending)"
	}
	return fmt.Sprintf("%s %s %s", box, style.Render(t.Text), subtleStyle.Render(id))
}

// StageLine renders the journey progress with the current stage marked.
func StageLine(current models.Stage) string {
	stages := []models.Stage{
		models.StageProfileBuilding,
		models.StageDiscoverUniversities,
		models.StageFinalizeUniversities,
		models.StagePrepareApplications,
	}
	var parts []string
	for _, st := range stages {
		label := st.Label()
		if st == current {
			parts = append(parts, successStyle.Render("● "+label))
		} else {
			parts = append(parts, subtleStyle.Render("○ "+label))
		}
	}
	return strings.Join(parts, subtleStyle.Render(" → "))
}
