package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emberhearth/hearth/internal/models"
)

func renderHeader(active models.Project, hasActive bool, status models.ServerStatus, url string, width int) string {
	dot := activeMarkerStyle.Render("●")
	left := fmt.Sprintf(" %s %s", dot, lipgloss.NewStyle().Bold(true).Render("Hearth"))
	if hasActive {
		left += dimStyle.Render("  active: ") + active.DisplayName()
	}

	right := renderStatusBadge(status, hasActive)
	if status == models.StatusRunning && url != "" {
		right = urlStyle.Render(url) + "  " + right
	}
	right += " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderStatusBadge(status models.ServerStatus, hasActive bool) string {
	if !hasActive {
		return statusStoppedStyle.Render("● No active project")
	}
	switch status {
	case models.StatusBooting:
		return statusBootingStyle.Render("● Starting")
	case models.StatusRunning:
		return statusRunningStyle.Render("● Running")
	case models.StatusErrored:
		return statusErroredStyle.Render("✗ Failed")
	default:
		return statusStoppedStyle.Render("● Stopped")
	}
}
