package tui

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/calc"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
)

var displayStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240")).
	Width(4*7 - 2). //nolint:mnd // four buttons wide
	Align(lipgloss.Right)

// Calc is the calculator app. Keys typed on the keyboard go straight to the
// buffer; the arrow keys move over the on-screen keypad and space presses
// the highlighted button.
type Calc struct {
	calc *calc.Calculator
	row  int
	col  int
	log  *slog.Logger
}

// NewCalc creates a calculator using the configured error marker.
func NewCalc(cfg *config.Config, log *slog.Logger) *Calc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Calc{calc: calc.New(cfg.Calc.ErrorMarker), log: log}
}

// Buffer returns the display contents.
func (c *Calc) Buffer() string {
	return c.calc.Buffer
}

// Init implements tea.Model.
func (c *Calc) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c *Calc) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)
	case ReloadMsg:
		if msg.Config != nil {
			c.calc.ErrorMarker = msg.Config.Calc.ErrorMarker
		}
	}
	return c, nil
}

func (c *Calc) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case keyCtrlC, "q", keyEsc:
		return c, tea.Quit
	case "up":
		c.move(-1, 0)
	case "down":
		c.move(1, 0)
	case "left":
		c.move(0, -1)
	case "right":
		c.move(0, 1)
	case " ":
		c.press(calc.Keypad[c.row][c.col])
	case keyEnter:
		c.press(calc.KeyEvaluate)
	case "c", "C", "backspace", "delete":
		c.press(calc.KeyClear)
	default:
		if len(k) == 1 {
			c.press(k)
		}
	}
	return c, nil
}

func (c *Calc) press(key string) {
	if err := c.calc.Press(key); err != nil {
		return
	}
	if key == calc.KeyEvaluate {
		c.log.Debug("calc evaluate", "ok", !c.calc.Errored())
	}
}

func (c *Calc) move(dr, dc int) {
	c.row = min(max(c.row+dr, 0), len(calc.Keypad)-1)
	c.col = min(max(c.col+dc, 0), len(calc.Keypad[c.row])-1)
}

// View implements tea.Model.
func (c *Calc) View() string {
	display := c.calc.Buffer
	if display == "" {
		display = "0"
	}
	if c.calc.Errored() {
		display = errorStyle.Render(display)
	}

	rows := make([]string, 0, len(calc.Keypad))
	for r, keys := range calc.Keypad {
		buttons := make([]string, 0, len(keys))
		for col, k := range keys {
			st := buttonStyle
			if r == c.row && col == c.col {
				st = activeButtonStyle
			}
			if k == calc.KeyEvaluate {
				st = st.Width(4*7 - 2) //nolint:mnd // spans the keypad
			}
			buttons = append(buttons, st.Render(k))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Calculator") + "\n")
	s.WriteString(displayStyle.Render(display) + "\n")
	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n")
	s.WriteString(statusBarStyle.Render("arrows+space:keypad  =/enter:evaluate  c:clear  q:quit"))
	return s.String()
}
