package tui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/weather"
)

type fakeSource struct {
	mu    sync.Mutex
	snaps map[string]*weather.Snapshot
	errs  map[string]error
	calls []string
}

func (f *fakeSource) Current(_ context.Context, city string) (*weather.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, city)
	if err, ok := f.errs[city]; ok {
		return nil, err
	}
	if s, ok := f.snaps[city]; ok {
		return s, nil
	}
	return nil, clierr.Wrap(clierr.CityNotFound, weather.ErrNotFound, city)
}

func newWeather(src *fakeSource, city string) *Weather {
	return NewWeather(context.Background(), config.NewDefault(), city,
		func(*config.Config) SnapshotSource { return src }, nil)
}

// results runs cmd and returns only the weather results it produced.
func results(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	for _, msg := range collect(cmd) {
		if _, ok := msg.(weatherResultMsg); ok {
			out = append(out, msg)
		}
	}
	return out
}

func TestWeatherInitFetchesDefaultCity(t *testing.T) {
	src := &fakeSource{snaps: map[string]*weather.Snapshot{
		"Lahore": {Name: "Lahore", TempC: 31.5, Humidity: 40, Description: "clear sky", Icon: "01d"},
	}}
	w := newWeather(src, "")

	cmd := w.Init()
	assert.True(t, w.Status().Loading)
	assert.Contains(t, w.View(), "Loading...")

	send(w, results(cmd)...)
	st := w.Status()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Snapshot)

	view := w.View()
	assert.Contains(t, view, "Lahore")
	assert.Contains(t, view, "31.5°C")
	assert.Contains(t, view, "Clear Sky")
	assert.Contains(t, view, "Humidity: 40%")
	assert.Equal(t, []string{"Lahore"}, src.calls)
}

func TestWeatherNotFound(t *testing.T) {
	w := newWeather(&fakeSource{}, "Atlantis")
	send(w, results(w.Init())...)

	assert.True(t, w.Status().NotFound())
	assert.Contains(t, w.View(), "City not found")
	assert.NotContains(t, w.View(), "Error:")
}

func TestWeatherSubmitNewCity(t *testing.T) {
	src := &fakeSource{snaps: map[string]*weather.Snapshot{
		"Lahore": {Name: "Lahore"},
		"Paris":  {Name: "Paris"},
	}}
	w := newWeather(src, "Lahore")
	send(w, results(w.Init())...)

	w.input.SetValue("")
	typeText(w, "Paris")
	_, cmd := w.Update(key(tea.KeyEnter))
	send(w, results(cmd)...)

	assert.Equal(t, "Paris", w.Status().Snapshot.Name)
	assert.Equal(t, "Paris", w.Status().City)
}

func TestWeatherStaleResultDiscarded(t *testing.T) {
	src := &fakeSource{snaps: map[string]*weather.Snapshot{
		"Paris":  {Name: "Paris"},
		"London": {Name: "London"},
	}}
	w := newWeather(src, "Paris")
	first := w.Init()

	w.input.SetValue("London")
	_, second := w.Update(key(tea.KeyEnter))

	// The newer request answers first; the older one arrives late.
	send(w, results(second)...)
	send(w, results(first)...)

	st := w.Status()
	assert.Equal(t, "London", st.Snapshot.Name)
	assert.False(t, st.Loading)
}

func TestWeatherTransportErrorKeepsSnapshot(t *testing.T) {
	src := &fakeSource{snaps: map[string]*weather.Snapshot{"Lahore": {Name: "Lahore"}}}
	w := newWeather(src, "Lahore")
	send(w, results(w.Init())...)

	src.errs = map[string]error{"Lahore": clierr.New(clierr.WeatherUnavailable, "network down")}
	_, cmd := w.Update(key(tea.KeyEnter))
	send(w, results(cmd)...)

	view := w.View()
	assert.Contains(t, view, "Lahore")
	assert.Contains(t, view, "Error: network down")
	assert.NotContains(t, view, "City not found")
}

func TestWeatherReloadRebuildsSource(t *testing.T) {
	var built []*config.Config
	factory := func(cfg *config.Config) SnapshotSource {
		built = append(built, cfg)
		return &fakeSource{}
	}
	w := NewWeather(context.Background(), config.NewDefault(), "", factory, nil)

	cfg := config.NewDefault()
	cfg.Weather.Units = "imperial"
	send(w, ReloadMsg{Config: cfg})

	require.Len(t, built, 2)
	assert.Same(t, cfg, built[1])
}

func TestWeatherEscQuits(t *testing.T) {
	w := newWeather(&fakeSource{}, "")
	w.Init()
	_, cmd := w.Update(key(tea.KeyEsc))
	assert.NotNil(t, cmd)
	assert.False(t, w.Status().Loading)
}
