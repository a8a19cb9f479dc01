package editor

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches angle expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4,
// -pi, -3*pi/4.
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseAngle parses a rotation angle: a plain number or a pi expression.
func parseAngle(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	matches := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, false
	}
	coeff := 1.0
	if matches[2] != "" {
		var err error
		if coeff, err = strconv.ParseFloat(matches[2], 64); err != nil {
			return 0, false
		}
	}
	result := coeff * math.Pi
	if matches[3] != "" {
		denom, err := strconv.ParseFloat(matches[3], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		result /= denom
	}
	if matches[1] == "-" {
		result = -result
	}
	return result, true
}

// formatAngle renders an angle compactly, preferring pi notation for the
// common fractions.
func formatAngle(val float64) string {
	forms := []struct {
		value   float64
		display string
	}{
		{2 * math.Pi, "2*pi"},
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 3, "pi/3"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 6, "pi/6"},
		{math.Pi / 8, "pi/8"},
		{3 * math.Pi / 4, "3*pi/4"},
		{3 * math.Pi / 2, "3*pi/2"},
		{2 * math.Pi / 3, "2*pi/3"},
	}
	for _, f := range forms {
		if math.Abs(val-f.value) < 1e-10 {
			return f.display
		}
		if math.Abs(val+f.value) < 1e-10 {
			return "-" + f.display
		}
	}
	return fmt.Sprintf("%g", val)
}

// angleInputChar reports whether ch may appear in an angle expression while
// the user is typing one.
func angleInputChar(ch byte) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch == '.' || ch == '-' || ch == '+' || ch == 'e' || ch == 'E':
		return true
	case ch == 'p' || ch == 'i' || ch == '*' || ch == '/':
		return true
	}
	return false
}
