package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
)

const lahore = `{
	"cod": 200,
	"name": "Lahore",
	"main": {"temp": 31.5, "humidity": 40},
	"weather": [{"description": "clear sky", "icon": "01d"}]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.NewDefault(),
		WithHTTPClient(srv.Client()),
		WithEndpoint(srv.URL),
		WithAPIKeyFunc(func() string { return "secret" }),
	)
}

func TestCurrent(t *testing.T) {
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"q":     r.URL.Query().Get("q"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
		}
		_, _ = w.Write([]byte(lahore))
	})

	snap, err := c.Current(context.Background(), "Lahore")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"q": "Lahore", "appid": "secret", "units": "metric"}, got)
	assert.Equal(t, "Lahore", snap.Name)
	assert.InDelta(t, 31.5, snap.TempC, 0.001)
	assert.Equal(t, 40, snap.Humidity)
	assert.Equal(t, "Clear Sky", snap.Title())
	assert.Equal(t, "31.5°C", snap.Temperature())
	assert.Equal(t, "http://openweathermap.org/img/wn/01d@2x.png", snap.IconURL())
}

func TestCurrentNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := c.Current(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, clierr.CityNotFound, clierr.CodeOf(err))
}

func TestCurrentRejectedKeyIsNotNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
	})

	_, err := c.Current(context.Background(), "Lahore")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, clierr.WeatherUnavailable, clierr.CodeOf(err))
	assert.NotContains(t, err.Error(), "secret")
}

func TestNewClientHasNoTimeout(t *testing.T) {
	c := NewClient(config.NewDefault())
	assert.Zero(t, c.http.Timeout)
}

func TestCurrentEmptyWeatherIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cod":200,"name":"X","main":{"temp":1,"humidity":2},"weather":[]}`))
	})

	_, err := c.Current(context.Background(), "X")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrentBadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := c.Current(context.Background(), "Lahore")
	assert.Equal(t, clierr.WeatherUnavailable, clierr.CodeOf(err))
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCurrentMissingKey(t *testing.T) {
	c := NewClient(config.NewDefault(), WithAPIKeyFunc(func() string { return "" }))
	_, err := c.Current(context.Background(), "Lahore")
	assert.Equal(t, clierr.MissingAPIKey, clierr.CodeOf(err))
}

func TestCurrentKeyFromEnv(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Weather.APIKeyEnv = "POCKETDESK_TEST_WEATHER_KEY"
	t.Setenv("POCKETDESK_TEST_WEATHER_KEY", "from-env")

	var appid string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appid = r.URL.Query().Get("appid")
		_, _ = w.Write([]byte(lahore))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(cfg, WithEndpoint(srv.URL))
	_, err := c.Current(context.Background(), "Lahore")
	require.NoError(t, err)
	assert.Equal(t, "from-env", appid)
}

func TestCurrentTransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.NewDefault(), WithEndpoint(url), WithAPIKeyFunc(func() string { return "secret" }))
	_, err := c.Current(context.Background(), "Lahore")
	require.Error(t, err)
	assert.Equal(t, clierr.WeatherUnavailable, clierr.CodeOf(err))
	assert.NotContains(t, err.Error(), "secret")
}

func TestCurrentHonoursCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(lahore))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Current(ctx, "Lahore")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotJSON(t *testing.T) {
	b, err := json.Marshal(Snapshot{Name: "Lahore", TempC: 20, Humidity: 10, Description: "haze", Icon: "50d"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Lahore", m["name"])
	assert.Equal(t, "http://openweathermap.org/img/wn/50d@2x.png", m["icon_url"])
}

func TestFetcherAppliesLatestOnly(t *testing.T) {
	f := NewFetcher(context.Background(), nil)

	s1, ctx1 := f.Begin("Paris")
	s2, _ := f.Begin("London")
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "first fetch cancelled")

	assert.True(t, f.Complete(s2, &Snapshot{Name: "London"}, nil))
	assert.False(t, f.Complete(s1, &Snapshot{Name: "Paris"}, nil))

	st := f.Status()
	assert.Equal(t, "London", st.Snapshot.Name)
	assert.Equal(t, "London", st.City)
	assert.False(t, st.Loading)
}

func TestFetcherSlowFirstResponseDiscarded(t *testing.T) {
	f := NewFetcher(context.Background(), nil)
	s1, _ := f.Begin("Paris")
	s2, _ := f.Begin("London")

	require.True(t, f.Complete(s2, &Snapshot{Name: "London"}, nil))
	require.False(t, f.Complete(s1, nil, errors.New("late failure")))
	assert.NoError(t, f.Status().Err)
}

func TestFetcherLoading(t *testing.T) {
	f := NewFetcher(context.Background(), nil)
	assert.False(t, f.Status().Loading)

	seq, _ := f.Begin("Lahore")
	assert.True(t, f.Status().Loading)

	f.Complete(seq, &Snapshot{Name: "Lahore"}, nil)
	assert.False(t, f.Status().Loading)
}

func TestFetcherNotFoundClearsSnapshot(t *testing.T) {
	f := NewFetcher(context.Background(), nil)
	seq, _ := f.Begin("Lahore")
	f.Complete(seq, &Snapshot{Name: "Lahore"}, nil)

	seq, _ = f.Begin("Atlantis")
	f.Complete(seq, nil, clierr.Wrap(clierr.CityNotFound, ErrNotFound, "Atlantis"))

	st := f.Status()
	assert.Nil(t, st.Snapshot)
	assert.True(t, st.NotFound())
}

func TestFetcherTransportErrorKeepsSnapshot(t *testing.T) {
	f := NewFetcher(context.Background(), nil)
	seq, _ := f.Begin("Lahore")
	f.Complete(seq, &Snapshot{Name: "Lahore"}, nil)

	seq, _ = f.Begin("Lahore")
	f.Complete(seq, nil, clierr.New(clierr.WeatherUnavailable, "offline"))

	st := f.Status()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, "Lahore", st.Snapshot.Name)
	assert.Error(t, st.Err)
	assert.False(t, st.NotFound())
}

func TestFetcherCancel(t *testing.T) {
	f := NewFetcher(context.Background(), nil)
	seq, ctx := f.Begin("Lahore")
	f.Cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, f.Status().Loading)
	assert.False(t, f.Complete(seq, &Snapshot{Name: "Lahore"}, nil))
}
