package tui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// send feeds msgs through m and returns the final model.
func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

// typeText sends s one rune at a time.
func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestCycle(t *testing.T) {
	opts := []string{"Low", "Medium", "High"}
	assert.Equal(t, "High", cycle(opts, "Medium", 1))
	assert.Equal(t, "Low", cycle(opts, "High", 1))
	assert.Equal(t, "High", cycle(opts, "Low", -1))
	assert.Equal(t, "Low", cycle(opts, "Unknown", 1))
	assert.Equal(t, "x", cycle(nil, "x", 1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestMenu(t *testing.T) {
	m := NewMenu()
	assert.Equal(t, 0, m.cursor)

	model, _ := m.Update(runes("j"))
	m = model.(Menu)
	assert.Equal(t, 1, m.cursor)

	model, _ = m.Update(runes("k"))
	m = model.(Menu)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "weather")

	model, _ = m.Update(runes("j"))
	m = model.(Menu)
	model, cmd := m.Update(key(tea.KeyEnter))
	m = model.(Menu)
	assert.Equal(t, AppCalc, m.Selected())
	assert.NotNil(t, cmd)
}

func TestMenuNumberShortcut(t *testing.T) {
	model, _ := NewMenu().Update(runes("3"))
	assert.Equal(t, AppWeather, model.(Menu).Selected())
}

func TestMenuQuit(t *testing.T) {
	model, cmd := NewMenu().Update(runes("q"))
	m := model.(Menu)
	assert.True(t, m.quitting)
	assert.Empty(t, m.Selected())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
