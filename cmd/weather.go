package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/tui"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/weather"
)

// weatherTimeout bounds a one-shot lookup. The interactive view has no
// deadline; it cancels on quit or when a newer fetch starts.
const weatherTimeout = 15 * time.Second

var weatherCmd = &cobra.Command{
	Use:   "weather [CITY...]",
	Short: "Show the current weather for a city",
	Long: `Looks up the current conditions for a city. Without a city the configured
weather.default_city is used.

The interactive view opens on a terminal. With --once, or when stdout is
not a terminal, a single reading is printed instead.

The provider key is read from the environment variable named by
weather.api_key_env (WEATHER_API_KEY by default).`,
	Example: `  pocketdesk weather
  pocketdesk weather New York --once
  pocketdesk weather --city Paris --json`,
	RunE: runWeather,
}

func init() {
	weatherCmd.Flags().String("city", "", "city to look up (alias: --location)")
	weatherCmd.Flags().Bool("once", false, "print a single reading and exit")
	rootCmd.AddCommand(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(cfg)
	defer closeLog() //nolint:errcheck // best-effort log flush
	if err != nil {
		return err
	}

	city, _ := cmd.Flags().GetString("city")
	if city == "" {
		city = strings.Join(args, " ")
	}
	city = strings.TrimSpace(city)
	if city == "" {
		city = cfg.Weather.DefaultCity
	}

	once, _ := cmd.Flags().GetBool("once")
	w := cmd.OutOrStdout()
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		once = true
	}
	if once {
		return printWeather(cmd.Context(), w, cfg, log, city)
	}

	tui.SetAccent(cfg.TUI.Accent)
	return runWeatherTUI(cmd.Context(), cfg, log, city)
}

func printWeather(ctx context.Context, w io.Writer, cfg *config.Config, log *slog.Logger, city string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(ctx), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, weatherTimeout)
	defer cancel()

	snap, err := newWeatherClient(cfg, log).Current(ctx, city)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, snap)
	case output.FormatCompact:
		output.SnapshotCompact(w, snap)
	default:
		output.SnapshotTable(w, snap)
	}
	return nil
}

func newWeatherClient(cfg *config.Config, log *slog.Logger) *weather.Client {
	return weather.NewClient(cfg, weather.WithLogger(log))
}

// weatherSource builds clients for the interactive view, again after each
// config reload.
func weatherSource(log *slog.Logger) tui.SourceFactory {
	return func(cfg *config.Config) tui.SnapshotSource {
		return newWeatherClient(cfg, log)
	}
}
