package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App names selectable from the launcher.
const (
	AppTodo    = "todo"
	AppCalc    = "calc"
	AppWeather = "weather"
)

var menuItemStyle = lipgloss.NewStyle().PaddingLeft(2)

type menuChoice struct {
	app  string
	desc string
}

// Menu is the launcher shown when pocketdesk runs without a subcommand.
type Menu struct {
	choices  []menuChoice
	cursor   int
	selected string
	quitting bool
}

// NewMenu returns a launcher listing the three apps.
func NewMenu() Menu {
	return Menu{
		choices: []menuChoice{
			{AppTodo, "task list"},
			{AppCalc, "calculator"},
			{AppWeather, "current weather"},
		},
	}
}

// Init implements tea.Model.
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case keyCtrlC, "q", keyEsc:
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		m.cursor = int(k.String()[0] - '1')
		m.selected = m.choices[m.cursor].app
		return m, tea.Quit
	case keyEnter:
		m.selected = m.choices[m.cursor].app
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Menu) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("pocketdesk"))
	s.WriteString("\n\n")
	for i, c := range m.choices {
		line := c.app + "  " + dimStyle.Render(c.desc)
		if i == m.cursor {
			s.WriteString(focusedStyle.Render("> ") + focusedStyle.Render(c.app) + "  " + dimStyle.Render(c.desc))
		} else {
			s.WriteString(menuItemStyle.Render(line))
		}
		s.WriteString("\n")
	}
	s.WriteString("\n" + statusBarStyle.Render("j/k:move enter:open q:quit") + "\n")
	return s.String()
}

// Selected returns the chosen app, or "" if the user quit.
func (m Menu) Selected() string {
	return m.selected
}
