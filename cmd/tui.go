package cmd

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/tui"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/watcher"
)

// runLauncher shows the app menu and then runs the chosen app.
func runLauncher(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(cfg)
	defer closeLog() //nolint:errcheck // best-effort log flush
	if err != nil {
		return err
	}
	tui.SetAccent(cfg.TUI.Accent)

	final, err := tea.NewProgram(tui.NewMenu()).Run()
	if err != nil {
		return err
	}
	menu, _ := final.(tui.Menu)
	app := menu.Selected()
	log.Debug("launcher selection", "app", app)

	switch app {
	case tui.AppTodo:
		_, err = runTodoTUI(cmd.Context(), cfg, log)
	case tui.AppCalc:
		err = runProgram(cmd.Context(), cfg, log, tui.AppCalc, tui.NewCalc(cfg, log))
	case tui.AppWeather:
		err = runWeatherTUI(cmd.Context(), cfg, log, "")
	}
	return err
}

// runTodoTUI runs the task list and returns the model after it exits.
func runTodoTUI(ctx context.Context, cfg *config.Config, log *slog.Logger) (*tui.Todo, error) {
	opts := []tui.TodoOption{tui.WithTodoLogger(log)}
	if colorDisabled() {
		opts = append(opts, tui.WithMarkdownStyle(styles.NoTTYStyle))
	}
	model := tui.NewTodo(cfg, opts...)
	if err := runProgram(ctx, cfg, log, tui.AppTodo, model); err != nil {
		return nil, err
	}
	return model, nil
}

func runWeatherTUI(ctx context.Context, cfg *config.Config, log *slog.Logger, city string) error {
	ctx, cancel := context.WithCancel(contextOrBackground(ctx))
	defer cancel()
	model := tui.NewWeather(ctx, cfg, city, weatherSource(log), log)
	return runProgram(ctx, cfg, log, tui.AppWeather, model)
}

// runProgram runs model full-screen while watching the config file. Each
// change is reloaded and delivered to the model as a tui.ReloadMsg.
func runProgram(ctx context.Context, cfg *config.Config, log *slog.Logger, app string, model tea.Model) error {
	ctx, cancel := context.WithCancel(contextOrBackground(ctx))
	defer cancel()

	log.Info("app start", "app", app, "config", cfg.ConfigPath())
	defer log.Info("app exit", "app", app)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	go startConfigWatcher(ctx, cfg, log, p)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func startConfigWatcher(ctx context.Context, cfg *config.Config, log *slog.Logger, p *tea.Program) {
	dir := cfg.Dir()
	w, err := watcher.New([]string{cfg.ConfigPath()}, func() {
		next, err := config.Load(dir)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		p.Send(tui.ReloadMsg{Config: next})
	})
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return // non-fatal: the apps work without live reload
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		log.Warn("config watcher error", "error", err)
	})
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
