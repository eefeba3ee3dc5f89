package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
)

// ErrNotFound is returned when the provider answers without a reading,
// which it does for unknown cities.
var ErrNotFound = errors.New("city not found")

const maxBody = 1 << 20

// Client queries the current-conditions endpoint.
type Client struct {
	http       *http.Client
	endpoint   string
	units      string
	iconFormat string
	apiKey     func() string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithEndpoint overrides the configured endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithAPIKeyFunc overrides how the API key is looked up.
func WithAPIKeyFunc(fn func() string) Option {
	return func(c *Client) { c.apiKey = fn }
}

// WithLogger sets the logger. The API key is never logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a client from the weather section of cfg.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		http:       http.DefaultClient,
		endpoint:   cfg.Weather.Endpoint,
		units:      cfg.Weather.Units,
		iconFormat: cfg.Weather.IconURL,
		apiKey:     cfg.APIKey,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current fetches the current conditions for city. A response without a
// reading yields an error wrapping ErrNotFound. Transport and decoding
// failures, and a rejected API key, are WEATHER_UNAVAILABLE.
func (c *Client) Current(ctx context.Context, city string) (*Snapshot, error) {
	key := c.apiKey()
	if key == "" {
		return nil, clierr.New(clierr.MissingAPIKey, "weather API key is not set")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, clierr.Wrap(clierr.WeatherUnavailable, err, "invalid weather endpoint")
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", key)
	if c.units != "" {
		q.Set("units", c.units)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.WeatherUnavailable, err, "building weather request")
	}

	start := time.Now()
	c.log.Debug("weather request", "city", city)

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.log.Warn("weather request failed", "city", city, "error", err)
		return nil, clierr.Wrap(clierr.WeatherUnavailable, err, "fetching weather")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, clierr.Wrap(clierr.WeatherUnavailable, err, "reading weather response")
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, clierr.Wrap(clierr.WeatherUnavailable, err,
			fmt.Sprintf("decoding weather response (HTTP %d)", resp.StatusCode))
	}

	if resp.StatusCode == http.StatusUnauthorized || r.Cod == http.StatusUnauthorized {
		c.log.Warn("weather API key rejected", "city", city, "status", resp.StatusCode)
		details := map[string]any{"status": http.StatusUnauthorized}
		if m := strings.TrimSpace(r.Message); m != "" {
			details["provider_message"] = m
		}
		return nil, clierr.New(clierr.WeatherUnavailable, "weather provider rejected the API key").
			WithDetails(details)
	}

	snap, ok := r.snapshot(c.iconFormat)
	if !ok {
		c.log.Info("weather city not found", "city", city, "status", resp.StatusCode)
		details := map[string]any{"city": city}
		if m := strings.TrimSpace(r.Message); m != "" {
			details["provider_message"] = m
		}
		return nil, clierr.Wrap(clierr.CityNotFound, ErrNotFound, strconv.Quote(city)).
			WithDetails(details)
	}

	c.log.Info("weather fetched", "city", city, "name", snap.Name, "duration", time.Since(start))
	return snap, nil
}
