// Package tui implements the pocketdesk terminal applications.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

const (
	keyEsc   = "esc"
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
)

// ReloadMsg is sent by the config watcher after the config file changes.
type ReloadMsg struct {
	Config *config.Config
}

// errMsg surfaces an asynchronous failure as a toast.
type errMsg struct{ err error }

var (
	accent = lipgloss.Color(config.DefaultAccent)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	focusedStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))

	editingRowStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))

	priorityStyles = map[string]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(3).
			Align(lipgloss.Center)

	activeButtonStyle = buttonStyle.BorderForeground(accent).Bold(true)
)

// SetAccent recolours the accent-driven styles. An empty value is ignored.
func SetAccent(c string) {
	if c == "" {
		return
	}
	accent = lipgloss.Color(c)
	titleStyle = titleStyle.Foreground(accent)
	focusedStyle = focusedStyle.Foreground(accent)
	dialogStyle = dialogStyle.BorderForeground(accent)
	activeButtonStyle = activeButtonStyle.BorderForeground(accent)
}

func priorityStyle(p string) lipgloss.Style {
	if st, ok := priorityStyles[p]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}

// cycle returns the element after (or before, when step is -1) cur in opts,
// wrapping around. An unknown cur selects the first element.
func cycle(opts []string, cur string, step int) string {
	if len(opts) == 0 {
		return cur
	}
	i := config.IndexOf(opts, cur)
	if i < 0 {
		return opts[0]
	}
	n := len(opts)
	return opts[((i+step)%n+n)%n]
}
