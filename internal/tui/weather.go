package tui

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/weather"
)

// SnapshotSource fetches current conditions; *weather.Client implements it.
type SnapshotSource interface {
	Current(ctx context.Context, city string) (*weather.Snapshot, error)
}

// SourceFactory builds a SnapshotSource from config. It is called again
// after a config reload.
type SourceFactory func(cfg *config.Config) SnapshotSource

// weatherResultMsg carries the outcome of fetch Seq.
type weatherResultMsg struct {
	seq   uint64
	snap  *weather.Snapshot
	err   error
	start time.Time
}

// Weather is the weather lookup app.
type Weather struct {
	cfg     *config.Config
	source  SnapshotSource
	factory SourceFactory
	fetcher *weather.Fetcher
	input   textinput.Model
	spinner spinner.Model
	log     *slog.Logger
}

// NewWeather creates the widget. city is fetched on Init; an empty city
// falls back to the configured default.
func NewWeather(ctx context.Context, cfg *config.Config, city string, factory SourceFactory, log *slog.Logger) *Weather {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if city == "" {
		city = cfg.Weather.DefaultCity
	}

	in := textinput.New()
	in.Placeholder = "Enter city..."
	in.CharLimit = 85
	in.Width = 32
	in.SetValue(city)
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Weather{
		cfg:     cfg,
		source:  factory(cfg),
		factory: factory,
		fetcher: weather.NewFetcher(ctx, log),
		input:   in,
		spinner: sp,
		log:     log,
	}
}

// Status exposes the fetcher state.
func (w *Weather) Status() weather.Status {
	return w.fetcher.Status()
}

// Init implements tea.Model. The initial city is fetched immediately.
func (w *Weather) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, w.fetch())
}

// fetch begins a request for the input's city and returns the command that
// performs it.
func (w *Weather) fetch() tea.Cmd {
	city := strings.TrimSpace(w.input.Value())
	seq, ctx := w.fetcher.Begin(city)
	src := w.source
	start := time.Now()
	return tea.Batch(w.spinner.Tick, func() tea.Msg {
		snap, err := src.Current(ctx, city)
		return weatherResultMsg{seq: seq, snap: snap, err: err, start: start}
	})
}

// Update implements tea.Model.
func (w *Weather) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, keyEsc:
			w.fetcher.Cancel()
			return w, tea.Quit
		case keyEnter:
			return w, w.fetch()
		}
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd

	case weatherResultMsg:
		if !w.fetcher.Complete(msg.seq, msg.snap, msg.err) {
			w.log.Debug("weather result discarded", "seq", msg.seq)
			return w, nil
		}
		w.log.Info("weather fetch complete", "seq", msg.seq, "ok", msg.err == nil, "duration", time.Since(msg.start))
		return w, nil

	case spinner.TickMsg:
		if !w.fetcher.Status().Loading {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case ReloadMsg:
		if msg.Config != nil {
			w.cfg = msg.Config
			w.source = w.factory(msg.Config)
			SetAccent(msg.Config.TUI.Accent)
			w.log.Info("config reloaded")
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// View implements tea.Model.
func (w *Weather) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Weather Forecast") + "\n\n")
	s.WriteString(w.input.View() + dimStyle.Render("  enter: search") + "\n\n")

	st := w.fetcher.Status()
	switch {
	case st.Loading:
		s.WriteString(w.spinner.View() + " Loading...\n")
	case st.Snapshot != nil:
		snap := st.Snapshot
		s.WriteString(focusedStyle.Render(snap.Name) + "\n")
		s.WriteString(titleStyle.Render(snap.Temperature()) + "\n")
		s.WriteString(snap.Title() + "\n")
		s.WriteString(dimStyle.Render("Humidity: "+strconv.Itoa(snap.Humidity)+"%") + "\n")
		s.WriteString(dimStyle.Render(snap.IconURL()) + "\n")
	default:
		s.WriteString(errorStyle.Render("City not found") + "\n")
	}

	if st.Err != nil && !st.Loading && !errors.Is(st.Err, weather.ErrNotFound) {
		s.WriteString("\n" + errorStyle.Render("Error: "+st.Err.Error()) + "\n")
	}
	s.WriteString("\n" + statusBarStyle.Render("enter:search esc:quit"))
	return s.String()
}
