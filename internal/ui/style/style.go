// Package style provides shared styling primitives for the CLI output:
// colors, icons and the status line rendering used by run, list and status.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Skip    = "-"
	Dot     = "●"
)

var (
	ok      = lipgloss.NewStyle().Foreground(Green)
	failed  = lipgloss.NewStyle().Foreground(Red)
	skipped = lipgloss.NewStyle().Foreground(Slate)
	cached  = lipgloss.NewStyle().Foreground(Iris)
	muted   = lipgloss.NewStyle().Foreground(Slate)

	// Name renders a task name.
	Name = lipgloss.NewStyle().Bold(true)
)

// OK renders s as a success.
func OK(s string) string { return ok.Render(s) }

// Failed renders s as a failure.
func Failed(s string) string { return failed.Render(s) }

// Skipped renders s as a skipped entry.
func Skipped(s string) string { return skipped.Render(s) }

// Cached renders s as an up-to-date entry.
func Cached(s string) string { return cached.Render(s) }

// Muted renders secondary text such as descriptions and timestamps.
func Muted(s string) string { return muted.Render(s) }
