package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade pocketdesk)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 moves the flat city/api_key_env keys under weather and fills
// the sections v1 did not have.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	def := NewDefault()

	if cfg.Weather.DefaultCity == "" {
		cfg.Weather.DefaultCity = cfg.LegacyCity
	}
	if cfg.Weather.APIKeyEnv == "" {
		cfg.Weather.APIKeyEnv = cfg.LegacyAPIKeyEnv
	}
	cfg.LegacyCity = ""
	cfg.LegacyAPIKeyEnv = ""

	fillWeather(&cfg.Weather, def.Weather)
	if len(cfg.Todo.Priorities) == 0 {
		cfg.Todo.Priorities = def.Todo.Priorities
	}
	if len(cfg.Todo.Categories) == 0 {
		cfg.Todo.Categories = def.Todo.Categories
	}
	if cfg.Todo.DefaultPriority == "" {
		cfg.Todo.DefaultPriority = def.Todo.DefaultPriority
	}
	if cfg.Calc.ErrorMarker == "" {
		cfg.Calc.ErrorMarker = def.Calc.ErrorMarker
	}
	if cfg.TUI.Accent == "" {
		cfg.TUI.Accent = def.TUI.Accent
	}

	cfg.Version = 2
	return nil
}

func fillWeather(w *WeatherConfig, def WeatherConfig) {
	if w.Endpoint == "" {
		w.Endpoint = def.Endpoint
	}
	if w.IconURL == "" {
		w.IconURL = def.IconURL
	}
	if w.Units == "" {
		w.Units = def.Units
	}
	if w.DefaultCity == "" {
		w.DefaultCity = def.DefaultCity
	}
	if w.APIKeyEnv == "" {
		w.APIKeyEnv = def.APIKeyEnv
	}
}
