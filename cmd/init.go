package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Creates the config directory with a default config.yml.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("city", "", "default city for the weather app")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	absDir, err := resolveDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.ConfigExists, "config already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg, err := config.Init(absDir)
	if err != nil {
		return err
	}

	if city, _ := cmd.Flags().GetString("city"); strings.TrimSpace(city) != "" {
		cfg, err = config.Update(absDir, func(c *config.Config) error {
			c.Weather.DefaultCity = strings.TrimSpace(city)
			return nil
		})
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]string{
			"status":       "initialized",
			"dir":          absDir,
			"config":       cfg.ConfigPath(),
			"default_city": cfg.Weather.DefaultCity,
			"api_key_env":  cfg.Weather.APIKeyEnv,
		})
	}

	output.Messagef(w, "Initialized pocketdesk in %s", absDir)
	output.Messagef(w, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(w, "  City:    %s", cfg.Weather.DefaultCity)
	output.Messagef(w, "  Hint:    export %s=<key> to enable the weather app", cfg.Weather.APIKeyEnv)
	return nil
}
