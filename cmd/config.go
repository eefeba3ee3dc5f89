package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `View the full configuration, get a specific key, or set a writable value.
Running apps pick up changes immediately.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

func stringAccessor(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = v; return nil },
		writable: true,
	}
}

func listAccessor(field func(*config.Config) *[]string) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			var items []string
			for item := range strings.SplitSeq(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*field(c) = items
			return nil
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"todo.priorities": listAccessor(func(c *config.Config) *[]string { return &c.Todo.Priorities }),
		"todo.categories": listAccessor(func(c *config.Config) *[]string { return &c.Todo.Categories }),
		"todo.default_priority": {
			get: func(c *config.Config) any { return c.Todo.DefaultPriority },
			set: func(c *config.Config, v string) error {
				if config.IndexOf(c.Todo.Priorities, v) < 0 {
					return clierr.Newf(clierr.InvalidPriority,
						"invalid default priority %q; allowed: %s", v, strings.Join(c.Todo.Priorities, ", "))
				}
				c.Todo.DefaultPriority = v
				return nil
			},
			writable: true,
		},
		"calc.error_marker":    stringAccessor(func(c *config.Config) *string { return &c.Calc.ErrorMarker }),
		"weather.endpoint":     stringAccessor(func(c *config.Config) *string { return &c.Weather.Endpoint }),
		"weather.icon_url":     stringAccessor(func(c *config.Config) *string { return &c.Weather.IconURL }),
		"weather.units":        stringAccessor(func(c *config.Config) *string { return &c.Weather.Units }),
		"weather.default_city": stringAccessor(func(c *config.Config) *string { return &c.Weather.DefaultCity }),
		"weather.api_key_env":  stringAccessor(func(c *config.Config) *string { return &c.Weather.APIKeyEnv }),
		// The key value is never printed.
		"weather.api_key_set": {
			get: func(c *config.Config) any { return c.APIKey() != "" },
		},
		"tui.accent": stringAccessor(func(c *config.Config) *string { return &c.TUI.Accent }),
		"log.level": {
			get: func(c *config.Config) any { return c.Log.Level },
			set: func(c *config.Config, v string) error {
				if _, err := config.ParseLogLevel(v); err != nil {
					return clierr.Wrap(clierr.InvalidInput, err, "log.level")
				}
				c.Log.Level = strings.ToLower(v)
				return nil
			},
			writable: true,
		},
		"log.file": stringAccessor(func(c *config.Config) *string { return &c.Log.File }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"todo.priorities",
		"todo.categories",
		"todo.default_priority",
		"calc.error_marker",
		"weather.endpoint",
		"weather.icon_url",
		"weather.units",
		"weather.default_city",
		"weather.api_key_env",
		"weather.api_key_set",
		"tui.accent",
		"log.level",
		"log.file",
	}
}

func lookupAccessor(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return acc, clierr.Newf(clierr.InvalidConfigKey, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	return acc, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return showConfig(cmd.OutOrStdout(), cfg)
}

func showConfig(w io.Writer, cfg *config.Config) error {
	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(w, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].get(cfg)
		fmt.Fprintf(w, "%-22s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, err := lookupAccessor(args[0])
	if err != nil {
		return err
	}
	val := acc.get(cfg)

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, val)
	}
	fmt.Fprintln(w, formatConfigValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	// Resolves the directory and creates the default config on first use.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, err := lookupAccessor(key)
	if err != nil {
		return err
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidConfigKey, "config key %q is read-only", key).
			WithDetails(map[string]any{"key": key})
	}

	cfg, err = config.Update(cfg.Dir(), func(c *config.Config) error {
		return acc.set(c, value)
	})
	if err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.Wrap(clierr.InvalidInput, err, "rejected "+key)
		}
		return err
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(w, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
