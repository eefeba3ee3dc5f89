package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/calc"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/config"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/output"
	"github.com/twiced-technology-gmbh/pocketdesk/internal/tui"
)

var calcCmd = &cobra.Command{
	Use:   "calc [EXPR...]",
	Short: "Evaluate arithmetic or open the calculator",
	Long: `Evaluates an arithmetic expression using + - * / and decimals.

With an expression argument the result is printed. When stdin is not a
terminal, each input line is evaluated. Otherwise the interactive
calculator opens. Spaces around operators are ignored; a space inside a
number is an error.`,
	Example: `  pocketdesk calc "2+3*4"
  pocketdesk calc 10 / 4
  printf '1+1\n2*3\n' | pocketdesk calc`,
	RunE: runCalc,
}

func init() {
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := openLogger(cfg)
	defer closeLog() //nolint:errcheck // best-effort log flush
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(args) > 0 {
		return evalOne(w, strings.Join(args, " "))
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return evalLines(w, in, cfg)
	}

	tui.SetAccent(cfg.TUI.Accent)
	return runProgram(cmd.Context(), cfg, log, tui.AppCalc, tui.NewCalc(cfg, log))
}

func evalOne(w io.Writer, raw string) error {
	expr, result, err := evaluate(raw)
	if err != nil {
		return err
	}
	return printCalc(w, output.CalcResult{Expression: expr, Result: result})
}

// evaluate strips spaces from raw and evaluates it.
func evaluate(raw string) (expr, result string, err error) {
	expr, err = stripSpaces(raw)
	if err != nil {
		return strings.TrimSpace(raw), "", err
	}
	result, err = calc.EvaluateString(expr)
	return expr, result, err
}

// evalLines evaluates each non-blank line of r. Failed lines print the
// configured error marker; any failure makes the command exit 1.
func evalLines(w io.Writer, r io.Reader, cfg *config.Config) error {
	failed := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		expr, v, err := evaluate(sc.Text())
		res := output.CalcResult{Expression: expr}
		if err != nil {
			failed = true
			res.Result = cfg.Calc.ErrorMarker
			res.Error = err.Error()
		} else {
			res.Result = v
		}
		if err := printCalc(w, res); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return clierr.Wrap(clierr.InvalidInput, err, "reading expressions")
	}
	if failed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

func printCalc(w io.Writer, res output.CalcResult) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, res)
	case output.FormatCompact:
		_, err := fmt.Fprintln(w, res.Result)
		return err
	default:
		output.CalcLine(w, res.Expression, res.Result)
		return nil
	}
}

// stripSpaces drops whitespace between tokens. Whitespace separating two
// digits or dots would silently merge numbers, so it is rejected.
func stripSpaces(s string) (string, error) {
	fields := strings.Fields(s)
	for i := 1; i < len(fields); i++ {
		prev, next := fields[i-1], fields[i]
		if isNumberByte(prev[len(prev)-1]) && isNumberByte(next[0]) {
			expr := strings.TrimSpace(s)
			return "", clierr.Newf(clierr.InvalidExpression, "cannot evaluate %q: space inside a number", expr).
				WithDetails(map[string]any{"expression": expr})
		}
	}
	return strings.Join(fields, ""), nil
}

func isNumberByte(b byte) bool {
	return b == '.' || ('0' <= b && b <= '9')
}
