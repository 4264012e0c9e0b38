package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/emberhearth/hearth/internal/models"
)

// Adaptive colors for command output.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
)

// Semantic styles.
var (
	styleBrand   = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
	styleVersion = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim)
)

// statusBadge renders a server status.
func statusBadge(s models.ServerStatus) string {
	switch s {
	case models.StatusRunning:
		return styleSuccess.Render("● running")
	case models.StatusBooting:
		return styleWarning.Render("◐ booting")
	case models.StatusErrored:
		return styleError.Render("✕ errored")
	default:
		return styleHint.Render("○ stopped")
	}
}
