package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"vantage/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	lockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	activeBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("45")).
			Padding(0, 1)
	inactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))

	userMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	aiMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
)

func costStyle(t models.CostTier) lipgloss.Style {
	switch t {
	case models.CostHigh:
		return badStyle
	case models.CostMedium:
		return warnStyle
	default:
		return goodStyle
	}
}

func tagStyle(t models.Tag) lipgloss.Style {
	switch t {
	case models.TagDream:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	case models.TagSafe:
		return goodStyle
	default:
		return accentStyle
	}
}

func panelStyle(active bool) lipgloss.Style {
	if active {
		return activeBorder
	}
	return inactiveBorder
}
