// Package config handles pocketdesk configuration.
package config

const (
	// DefaultDirName is the directory under the user config dir.
	DefaultDirName = "pocketdesk"
	// DirEnv overrides the config directory.
	DirEnv = "POCKETDESK_DIR"

	// ConfigFileName is the name of the config file within the config directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultPriority is the priority of a blank draft.
	DefaultPriority = "Medium"

	// DefaultErrorMarker replaces the calculator buffer on evaluation failure.
	DefaultErrorMarker = "Error"

	// DefaultWeatherEndpoint is the provider's current-conditions endpoint.
	DefaultWeatherEndpoint = "https://api.openweathermap.org/data/2.5/weather"
	// DefaultWeatherIconURL is a format string taking the icon id.
	DefaultWeatherIconURL = "http://openweathermap.org/img/wn/%s@2x.png"
	// DefaultWeatherUnits asks the provider for Celsius.
	DefaultWeatherUnits = "metric"
	// DefaultCity is fetched when the weather widget mounts.
	DefaultCity = "Lahore"
	// DefaultAPIKeyEnv names the environment variable holding the provider key.
	DefaultAPIKeyEnv = "WEATHER_API_KEY"

	// DefaultAccent is the ANSI 256 colour used for headers and focus.
	DefaultAccent = "99"

	// DefaultLogLevel is used when log.level is unset.
	DefaultLogLevel = "info"
)

// Default slice values (slices cannot be const).
var (
	// DefaultPriorities is ordered lowest rank first.
	DefaultPriorities = []string{"Low", "Medium", "High"}

	DefaultCategories = []string{"Work", "Personal", "Study", "Health"}
)
