package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(m *Model, width int) string {
	if m.confirmQuit {
		return renderConfirmBar("Servers are running. Stop them and quit? (y/n)", width)
	}
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	left := " " + keyHints(m)
	right := dimStyle.Render(m.mode) + " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func keyHints(m *Model) string {
	if m.showHelp {
		return keyHint("Esc", "close help")
	}

	base := keyHint("q", "quit") + "  " + keyHint("?", "help") + "  " + keyHint("Tab", "switch")
	if m.focused == panelOutput {
		return base + "  " + keyHint("PgUp/PgDn", "scroll") + "  " + keyHint("G", "follow")
	}

	hints := base + "  " + keyHint("Enter", "run/stop") + "  " + keyHint("a", "make active")
	if p, ok := m.projects.Selected(); ok && m.urls[p.Path] != "" {
		hints += "  " + keyHint("o", "open")
	}
	return hints
}

func keyHint(k, desc string) string {
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
