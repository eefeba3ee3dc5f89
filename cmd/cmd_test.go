package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/board"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/task"
)

func TestMain(m *testing.M) {
	output.DisableColor()
	os.Exit(m.Run())
}

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args and stdin, returning stdout and the error.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(output.EnvVar, "")
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func initDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := config.Init(dir)
	require.NoError(t, err)
	return dir
}

func TestCalcExpression(t *testing.T) {
	dir := initDir(t)
	out, err := run(t, "", "--dir", dir, "calc", "2+3*4")
	require.NoError(t, err)
	assert.Equal(t, "2+3*4 = 14\n", out)

	out, err = run(t, "", "--dir", dir, "calc", "10", "/", "4", "--compact")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)
}

func TestCalcExpressionJSON(t *testing.T) {
	dir := initDir(t)
	out, err := run(t, "", "--dir", dir, "--json", "calc", "0.1+0.2")
	require.NoError(t, err)

	var res output.CalcResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "0.1+0.2", res.Expression)
	assert.Equal(t, "0.30000000000000004", res.Result)
}

func TestCalcInvalidExpression(t *testing.T) {
	dir := initDir(t)
	_, err := run(t, "", "--dir", dir, "calc", "5/0")
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidExpression, clierr.CodeOf(err))
}

func TestCalcSpaceInsideNumberRejected(t *testing.T) {
	dir := initDir(t)
	_, err := run(t, "", "--dir", dir, "calc", "1", "2")
	require.Error(t, err)
	assert.Equal(t, clierr.InvalidExpression, clierr.CodeOf(err))

	_, err = run(t, "", "--dir", dir, "calc", "1 .5+1")
	assert.Equal(t, clierr.InvalidExpression, clierr.CodeOf(err))

	out, err := run(t, "", "--dir", dir, "--compact", "calc", "2 * -3")
	require.NoError(t, err)
	assert.Equal(t, "-6\n", out)
}

func TestCalcLinesFromStdin(t *testing.T) {
	dir := initDir(t)
	out, err := run(t, "1+1\n\n 2 * 3 \n", "--dir", dir, "--oneline", "calc")
	require.NoError(t, err)
	assert.Equal(t, "2\n6\n", out)
}

func TestCalcLinesFailureUsesMarker(t *testing.T) {
	dir := initDir(t)
	_, err := config.Update(dir, func(c *config.Config) error {
		c.Calc.ErrorMarker = "ERR"
		return nil
	})
	require.NoError(t, err)

	out, err := run(t, "7*6\n2*\n3 4\n", "--dir", dir, "--compact", "calc")
	assert.Equal(t, "42\nERR\nERR\n", out)

	var silent *clierr.SilentError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.Code)
}

func TestMissingDirIsConfigNotFound(t *testing.T) {
	_, err := run(t, "", "--dir", filepath.Join(t.TempDir(), "absent"), "calc", "1")
	require.Error(t, err)
	assert.Equal(t, clierr.ConfigNotFound, clierr.CodeOf(err))
}

func TestDefaultDirIsCreatedOnFirstUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pocketdesk")
	t.Setenv(config.DirEnv, dir)

	_, err := run(t, "", "calc", "1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	out, err := run(t, "", "--dir", dir, "init", "--city", "Paris")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized pocketdesk in")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Paris", cfg.Weather.DefaultCity)

	_, err = run(t, "", "--dir", dir, "init")
	assert.Equal(t, clierr.ConfigExists, clierr.CodeOf(err))
}

func TestConfigSetGet(t *testing.T) {
	dir := initDir(t)

	_, err := run(t, "", "--dir", dir, "config", "set", "weather.default_city", "Oslo")
	require.NoError(t, err)

	out, err := run(t, "", "--dir", dir, "config", "get", "weather.default_city")
	require.NoError(t, err)
	assert.Equal(t, "Oslo\n", out)

	_, err = run(t, "", "--dir", dir, "config", "set", "todo.categories", "Home, Errands,")
	require.NoError(t, err)
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Errands"}, cfg.Todo.Categories)
}

func TestConfigSetErrors(t *testing.T) {
	dir := initDir(t)

	tests := []struct {
		args []string
		code string
	}{
		{[]string{"nope", "x"}, clierr.InvalidConfigKey},
		{[]string{"version", "3"}, clierr.InvalidConfigKey},
		{[]string{"todo.default_priority", "Urgent"}, clierr.InvalidPriority},
		{[]string{"log.level", "loud"}, clierr.InvalidInput},
		{[]string{"weather.icon_url", "no-placeholder"}, clierr.InvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := run(t, "", append([]string{"--dir", dir, "config", "set"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, clierr.CodeOf(err))
		})
	}

	// Rejected writes leave the file untouched.
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultWeatherIconURL, cfg.Weather.IconURL)
}

func TestConfigShowHidesKey(t *testing.T) {
	dir := initDir(t)
	t.Setenv(config.DefaultAPIKeyEnv, "very-secret")

	out, err := run(t, "", "--dir", dir, "--json", "config")
	require.NoError(t, err)
	assert.NotContains(t, out, "very-secret")

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, true, m["weather.api_key_set"])
	assert.Equal(t, config.DefaultCity, m["weather.default_city"])
}

func TestWeatherOnce(t *testing.T) {
	var gotCity string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCity = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, `{"cod":200,"name":"New York","main":{"temp":21.5,"humidity":60},
			"weather":[{"description":"light rain","icon":"10d"}]}`)
	}))
	t.Cleanup(srv.Close)

	dir := initDir(t)
	_, err := config.Update(dir, func(c *config.Config) error {
		c.Weather.Endpoint = srv.URL
		return nil
	})
	require.NoError(t, err)
	t.Setenv(config.DefaultAPIKeyEnv, "k")

	out, err := run(t, "", "--dir", dir, "--compact", "weather", "New", "York")
	require.NoError(t, err)
	assert.Equal(t, "New York", gotCity)
	assert.Equal(t, "New York 21.5°C light rain humidity:60%\n", out)

	_, err = run(t, "", "--dir", dir, "--compact", "weather", "--location", "Oslo")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", gotCity)
}

func TestWeatherOnceNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
	}))
	t.Cleanup(srv.Close)

	dir := initDir(t)
	_, err := config.Update(dir, func(c *config.Config) error {
		c.Weather.Endpoint = srv.URL
		return nil
	})
	require.NoError(t, err)
	t.Setenv(config.DefaultAPIKeyEnv, "k")

	_, err = run(t, "", "--dir", dir, "weather", "Atlantis")
	assert.Equal(t, clierr.CityNotFound, clierr.CodeOf(err))
}

func TestReportErrorJSON(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv(output.EnvVar, "json")

	var stdout, stderr bytes.Buffer
	code := reportError(&stdout, &stderr, clierr.New(clierr.TaskNotFound, "task not found: x"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stderr.String())

	var resp output.ErrorResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, clierr.TaskNotFound, resp.Code)

	stdout.Reset()
	assert.Equal(t, 2, reportError(&stdout, &stderr, errors.New("boom")))
	assert.Contains(t, stdout.String(), clierr.InternalError)
}

func TestReportErrorText(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv(output.EnvVar, "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, reportError(&stdout, &stderr, clierr.New(clierr.InvalidInput, "bad")))
	assert.Equal(t, "Error: bad\n", stderr.String())
	assert.Empty(t, stdout.String())

	stderr.Reset()
	assert.Equal(t, 3, reportError(&stdout, &stderr, &clierr.SilentError{Code: 3}))
	assert.Empty(t, stderr.String())
}

func TestPrintTasks(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv(output.EnvVar, "compact")
	cfg := config.NewDefault()
	tasks := []task.Task{
		{ID: "aaaaaaaa1", Title: "Report", Priority: "High", Category: "Work"},
		{ID: "bbbbbbbb2", Title: "Laundry", Priority: "Medium", Completed: true},
		{ID: "cccccccc3", Title: "Run", Priority: "Low", Category: "Health", DueDate: "2025-01-01"},
	}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	open := false
	require.NoError(t, printTasks(&buf, cfg, tasks, printOptions{
		filter: board.FilterOptions{Completed: &open},
		sort:   "title",
	}, now))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Report")
	assert.Contains(t, lines[1], "Run")

	buf.Reset()
	require.NoError(t, printTasks(&buf, cfg, tasks, printOptions{summary: true}, now))
	assert.Contains(t, buf.String(), "3 tasks, 1 done (1 overdue)")

	buf.Reset()
	require.NoError(t, printTasks(&buf, cfg, nil, printOptions{}, now))
	assert.Equal(t, output.EmptyTasksMessage+"\n", buf.String())
}

func TestPrintTasksGroupedJSON(t *testing.T) {
	resetFlags(rootCmd)
	t.Setenv(output.EnvVar, "json")
	cfg := config.NewDefault()
	tasks := []task.Task{
		{ID: "1", Title: "a", Priority: "Low"},
		{ID: "2", Title: "b", Priority: "High"},
	}

	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, cfg, tasks, printOptions{groupBy: "priority"}, time.Now()))

	var groups []board.Group
	require.NoError(t, json.Unmarshal(buf.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "High", groups[0].Key)
}
