// Package logging builds the structured logger. The TUIs own the terminal,
// so records go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
)

// New returns a text logger writing to w at level. A nil w discards.
func New(level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Options override the log section of the config (from flags).
type Options struct {
	File  string
	Level string
}

// Open builds the logger described by cfg.Log and opts. A relative file
// path is resolved against the config directory. The returned close func
// is never nil.
func Open(cfg *config.Config, opts Options) (*slog.Logger, func() error, error) {
	const fileMode = 0o600

	noop := func() error { return nil }

	levelName := cfg.Log.Level
	if opts.Level != "" {
		levelName = opts.Level
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return nil, noop, err
	}

	path := cfg.Log.File
	if opts.File != "" {
		path = opts.File
	}
	if path == "" {
		return New(level, nil), noop, nil
	}
	if !filepath.IsAbs(path) && cfg.Dir() != "" {
		path = filepath.Join(cfg.Dir(), path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode) //nolint:gosec // path from config or flag
	if err != nil {
		return nil, noop, fmt.Errorf("opening log file: %w", err)
	}
	return New(level, f), f.Close, nil
}
