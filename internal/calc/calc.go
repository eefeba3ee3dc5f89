// Package calc implements the calculator: a text buffer fed by keypad
// tokens and evaluated on demand.
package calc

import (
	"strings"

	"github.com/twiced-technology-gmbh/pocketdesk/internal/clierr"
)

// Keypad keys that are not tokens.
const (
	KeyClear    = "C"
	KeyEvaluate = "="
)

// DefaultErrorMarker is shown when evaluation fails.
const DefaultErrorMarker = "Error"

// tokenChars are the characters Append accepts.
const tokenChars = "0123456789.+-*/"

// Keypad is the on-screen button layout, row by row.
var Keypad = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", KeyClear, "+"},
	{KeyEvaluate},
}

// Calculator holds the display buffer.
type Calculator struct {
	Buffer      string
	ErrorMarker string
}

// New returns an empty calculator using marker for failed evaluations.
// An empty marker selects DefaultErrorMarker.
func New(marker string) *Calculator {
	if marker == "" {
		marker = DefaultErrorMarker
	}
	return &Calculator{ErrorMarker: marker}
}

// Append concatenates a keypad token onto the buffer. The resulting
// expression is not checked; "5++" is a valid buffer state.
func (c *Calculator) Append(token string) error {
	if token == "" || strings.Trim(token, tokenChars) != "" {
		return clierr.Newf(clierr.InvalidInput, "invalid calculator token %q", token).
			WithDetails(map[string]any{"token": token})
	}
	c.Buffer += token
	return nil
}

// Clear empties the buffer.
func (c *Calculator) Clear() {
	c.Buffer = ""
}

// Evaluate replaces the buffer with the result of evaluating it, or with the
// error marker. It reports whether evaluation succeeded.
func (c *Calculator) Evaluate() bool {
	v, err := Eval(c.Buffer)
	if err != nil {
		c.Buffer = c.ErrorMarker
		return false
	}
	c.Buffer = FormatNumber(v)
	return true
}

// Errored reports whether the buffer shows the error marker.
func (c *Calculator) Errored() bool {
	return c.Buffer == c.ErrorMarker
}

// Press handles a single keypad button.
func (c *Calculator) Press(key string) error {
	switch key {
	case KeyClear:
		c.Clear()
	case KeyEvaluate:
		c.Evaluate()
	default:
		return c.Append(key)
	}
	return nil
}

// EvaluateString evaluates expr and returns its display rendering. Failures
// carry the INVALID_EXPRESSION code.
func EvaluateString(expr string) (string, error) {
	v, err := Eval(expr)
	if err != nil {
		return "", clierr.Wrap(clierr.InvalidExpression, err, "cannot evaluate "+quote(expr)).
			WithDetails(map[string]any{"expression": expr})
	}
	return FormatNumber(v), nil
}

func quote(s string) string {
	return `"` + s + `"`
}
