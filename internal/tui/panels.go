package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	panelProjects = 0
	panelOutput   = 1
)

// panelLayout holds the outer sizes of the project and output panels.
type panelLayout struct {
	leftWidth     int
	rightWidth    int
	contentHeight int
}

// computeLayout splits the screen below the header and above the status bar.
func computeLayout(width, height int, splitRatio float64) panelLayout {
	contentHeight := height - 2
	if contentHeight < 3 {
		contentHeight = 3
	}

	leftWidth := int(float64(width) * splitRatio)
	if leftWidth < 20 {
		leftWidth = 20
	}
	rightWidth := width - leftWidth
	if rightWidth < 20 {
		rightWidth = 20
	}

	return panelLayout{
		leftWidth:     leftWidth,
		rightWidth:    rightWidth,
		contentHeight: contentHeight,
	}
}

// inner returns the content area of a panel of the given outer width.
func (l panelLayout) inner(outerWidth int) (width, height int) {
	return max(outerWidth-2, 1), max(l.contentHeight-2, 1)
}

func renderPanels(leftContent, rightContent string, layout panelLayout, focused int) string {
	leftStyle, rightStyle := unfocusedBorderStyle, unfocusedBorderStyle
	if focused == panelProjects {
		leftStyle = focusedBorderStyle
	} else {
		rightStyle = focusedBorderStyle
	}

	leftW, h := layout.inner(layout.leftWidth)
	rightW, _ := layout.inner(layout.rightWidth)

	left := leftStyle.Width(leftW).Height(h).Render(truncateContent(leftContent, leftW, h))
	right := rightStyle.Width(rightW).Height(h).Render(truncateContent(rightContent, rightW, h))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// truncateContent clips content to width columns and height lines.
func truncateContent(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
