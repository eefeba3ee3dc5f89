// Package weather fetches current conditions for a city from an
// OpenWeatherMap-compatible endpoint.
package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Snapshot is one successful current-conditions reading.
type Snapshot struct {
	Name        string  `json:"name"`
	TempC       float64 `json:"temp_c"`
	Humidity    int     `json:"humidity"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`

	iconFormat string
}

// IconURL returns the provider image URL for the snapshot's icon id.
func (s Snapshot) IconURL() string {
	format := s.iconFormat
	if format == "" {
		format = defaultIconFormat
	}
	return fmt.Sprintf(format, s.Icon)
}

// Temperature renders the temperature as the provider reported it, e.g. "31.5°C".
func (s Snapshot) Temperature() string {
	return strconv.FormatFloat(s.TempC, 'f', -1, 64) + "°C"
}

// Title returns the description with each word capitalised.
func (s Snapshot) Title() string {
	return cases.Title(language.English).String(s.Description)
}

// MarshalJSON adds the resolved icon URL.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	return json.Marshal(struct {
		plain
		IconURL string `json:"icon_url"`
	}{plain(s), s.IconURL()})
}

const defaultIconFormat = "http://openweathermap.org/img/wn/%s@2x.png"

// response is the subset of the provider payload we read.
type response struct {
	Cod  statusCode `json:"cod"`
	Name string     `json:"name"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Message string `json:"message"`
}

// snapshot reports whether the payload carries a reading and returns it.
func (r *response) snapshot(iconFormat string) (*Snapshot, bool) {
	if r.Cod != 0 && r.Cod != 200 {
		return nil, false
	}
	if r.Main == nil || len(r.Weather) == 0 {
		return nil, false
	}
	return &Snapshot{
		Name:        r.Name,
		TempC:       r.Main.Temp,
		Humidity:    r.Main.Humidity,
		Description: r.Weather[0].Description,
		Icon:        r.Weather[0].Icon,
		iconFormat:  iconFormat,
	}, true
}

// statusCode accepts both 200 and "404": the provider sends cod as a number
// on success and as a string on errors.
type statusCode int

func (c *statusCode) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid cod %s: %w", b, err)
	}
	*c = statusCode(n)
	return nil
}
