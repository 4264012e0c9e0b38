package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeOverlay draws content centered over a dimmed base view.
func placeOverlay(base, content string, width, height int) string {
	rows := strings.Split(base, "\n")
	for i, row := range rows {
		rows[i] = overlayDimStyle.Render(ansi.Strip(row))
	}

	box := strings.Split(content, "\n")
	boxWidth := lipgloss.Width(content)
	top := max((height-len(box))/2, 1)
	left := max((width-boxWidth)/2, 1)

	for i, line := range box {
		row := top + i
		if row >= len(rows) {
			break
		}
		bg := rows[row]
		bgWidth := lipgloss.Width(bg)

		right := ""
		if end := left + lipgloss.Width(line); end < bgWidth {
			right = ansi.Cut(bg, end, bgWidth)
		}
		rows[row] = ansi.Truncate(bg, left, "") + "\033[0m" + line + "\033[0m" + right
	}
	return strings.Join(rows, "\n")
}
