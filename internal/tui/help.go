package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Global",
		keys: []helpKey{
			{"q / Ctrl+c", "Quit and stop all servers"},
			{"? / Ctrl+h", "Toggle help"},
			{"Tab", "Switch panel focus"},
		},
	},
	{
		title: "Projects",
		keys: []helpKey{
			{"j/k ↑/↓", "Select project"},
			{"Enter / s", "Run or stop the server"},
			{"a", "Make the active project"},
			{"o", "Open the running server"},
		},
	},
	{
		title: "Output",
		keys: []helpKey{
			{"j/k", "Scroll"},
			{"PgUp/PgDn", "Scroll half a page"},
			{"G", "Follow new output"},
		},
	},
}

func renderHelp(width int) string {
	maxWidth := min(60, width-4)
	if maxWidth < 30 {
		maxWidth = 30
	}

	sections := []string{overlayTitleStyle.Render("Keyboard Shortcuts")}
	for _, sec := range helpSections {
		header := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Render(sec.title)
		sections = append(sections, "", header)
		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().Width(14).Foreground(colorWhite).Bold(true).Render(k.key)
			sections = append(sections, "  "+keyCol+dimStyle.Render(k.desc))
		}
	}
	sections = append(sections, "", dimStyle.Render("Press Esc or ? to close"))

	return overlayStyle.Width(maxWidth).Render(strings.Join(sections, "\n"))
}
