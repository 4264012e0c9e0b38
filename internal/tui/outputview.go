package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/emberhearth/hearth/internal/models"
)

// OutputView shows the recent output of the selected project's server.
type OutputView struct {
	viewport viewport.Model
	path     string
	lines    []string
	follow   bool
}

// NewOutputView creates an output view that follows new lines.
func NewOutputView() *OutputView {
	return &OutputView{
		viewport: viewport.New(80, 24),
		follow:   true,
	}
}

// SetSize updates dimensions.
func (o *OutputView) SetSize(width, height int) {
	o.viewport.Width = width
	o.viewport.Height = height
	if o.follow {
		o.viewport.GotoBottom()
	}
}

// Show switches to the project at path, clearing the previous output.
func (o *OutputView) Show(path string) {
	if o.path == path {
		return
	}
	o.path = path
	o.lines = nil
	o.follow = true
	o.viewport.SetContent("")
}

// Path returns the path of the project being shown.
func (o *OutputView) Path() string {
	return o.path
}

// SetLines replaces the output of the shown project. Lines for any other
// project are dropped.
func (o *OutputView) SetLines(path string, lines []string) {
	if path != o.path {
		return
	}
	o.lines = lines
	o.viewport.SetContent(strings.Join(lines, "\n"))
	if o.follow {
		o.viewport.GotoBottom()
	}
}

// Lines returns the output currently shown.
func (o *OutputView) Lines() []string {
	return o.lines
}

// ScrollUp scrolls up and stops following.
func (o *OutputView) ScrollUp(n int) {
	o.viewport.LineUp(n)
	o.follow = o.viewport.AtBottom()
}

// ScrollDown scrolls down, following again once the bottom is reached.
func (o *OutputView) ScrollDown(n int) {
	o.viewport.LineDown(n)
	o.follow = o.viewport.AtBottom()
}

// PageUp scrolls half a view up.
func (o *OutputView) PageUp() {
	o.viewport.HalfViewUp()
	o.follow = o.viewport.AtBottom()
}

// PageDown scrolls half a view down.
func (o *OutputView) PageDown() {
	o.viewport.HalfViewDown()
	o.follow = o.viewport.AtBottom()
}

// Follow jumps to the newest output and keeps following it.
func (o *OutputView) Follow() {
	o.follow = true
	o.viewport.GotoBottom()
}

// View renders the output, or a placeholder for status without output.
func (o *OutputView) View(status models.ServerStatus) string {
	if len(o.lines) == 0 {
		switch status {
		case models.StatusBooting:
			return dimStyle.Render("Waiting for ember serve...")
		case models.StatusStopped:
			return dimStyle.Render("Server is not running.")
		default:
			return dimStyle.Render("No output.")
		}
	}
	return o.viewport.View()
}
