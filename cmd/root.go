// Package cmd implements the pocketdesk CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/logging"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagLogFile  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pocketdesk",
	Short: "Calculator, task list and weather in your terminal",
	Long: `pocketdesk bundles three small terminal apps: a calculator, a task list
and a current-weather lookup. Run it without arguments to pick one from a menu.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runLauncher,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if colorDisabled() {
			output.DisableColor()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagJSON, "json", false, "output as JSON")
	pf.BoolVar(&flagTable, "table", false, "output as table")
	pf.BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output (alias: --oneline)")
	pf.StringVar(&flagDir, "dir", "", "config directory (default $"+config.DirEnv+" or ~/.config/pocketdesk)")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	pf.StringVar(&flagLogFile, "log-file", "", "write logs to this file (overrides log.file)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
}

// normalizeFlagName maps flag aliases to their canonical names. Cobra
// hands it down to every subcommand.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "oneline":
		name = "compact"
	case "nocolor":
		name = "no-color"
	case "location":
		name = "city"
	}
	return pflag.NormalizedName(name)
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError writes err for the user and returns the exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	var cliErr *clierr.Error
	isCLI := errors.As(err, &cliErr)

	if outputFormat() == output.FormatJSON {
		if isCLI {
			output.JSONError(stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			return cliErr.ExitCode()
		}
		output.JSONError(stdout, clierr.InternalError, err.Error(), nil)
		return 2 //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(stderr, "Error:", err)
	if isCLI {
		return cliErr.ExitCode()
	}
	return 1
}

func colorDisabled() bool {
	return flagNoColor || os.Getenv("NO_COLOR") != ""
}

// resolveDir returns the config directory from --dir, $POCKETDESK_DIR or
// the default location.
func resolveDir() (string, error) {
	if flagDir != "" {
		return filepath.Abs(flagDir)
	}
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}

// loadConfig loads the config. The default directory is created with
// default settings on first use; an explicit --dir must already exist.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		if errors.Is(err, config.ErrInvalid) {
			return nil, clierr.Wrap(clierr.InvalidInput, err, "loading "+filepath.Join(dir, config.ConfigFileName))
		}
		return nil, err
	}
	if flagDir != "" {
		return nil, clierr.Wrap(clierr.ConfigNotFound, err, dir).WithDetails(map[string]any{"dir": dir})
	}
	return config.Init(dir)
}

// openLogger builds the logger for a command. The close func is never nil.
func openLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	log, closeFn, err := logging.Open(cfg, logging.Options{File: flagLogFile, Level: flagLogLevel})
	if err != nil {
		return nil, closeFn, clierr.Wrap(clierr.InvalidInput, err, "configuring logging")
	}
	return log, closeFn, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}
