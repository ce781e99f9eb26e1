// Package dateutil resolves "auto" date values in engine variables.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// DateVariable is the engine variable whose value may be "auto".
const DateVariable = "date"

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is given without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps format tokens to Go layout components, longest first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets are named formats usable as "auto:<name>".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"swiss":    "DD.MM.YYYY",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D)
// to a Go time layout. Text in brackets is copied literally; other
// characters are kept as they are.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			layout.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		n := 1
		text := format[i : i+1]
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				n, text = len(t.token), t.goFmt
				break
			}
		}
		layout.WriteString(text)
		i += n
	}
	return layout.String(), nil
}

// ResolveDate formats t according to an "auto" value:
//   - "auto" gives DefaultDateFormat
//   - "auto:FORMAT" gives FORMAT (tokens or a preset name, case-insensitive)
//
// Any other value is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	format, ok := autoFormat(value)
	if !ok {
		return value, nil
	}
	if preset, found := DatePresets[strings.ToLower(format)]; found {
		format = preset
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

func autoFormat(value string) (string, bool) {
	lower := strings.ToLower(value)
	switch {
	case lower == "auto":
		return DefaultDateFormat, true
	case strings.HasPrefix(lower, "auto:"):
		return value[len("auto:"):], true
	}
	return "", false
}

// ExpandVariable resolves the value of a "date=auto[:FORMAT]" engine
// variable. Other variables are returned unchanged.
func ExpandVariable(variable string, t time.Time) (string, error) {
	key, value, ok := strings.Cut(variable, "=")
	if !ok || strings.TrimSpace(key) != DateVariable {
		return variable, nil
	}

	date, err := ResolveDate(value, t)
	if err != nil {
		return "", fmt.Errorf("variable %q: %w", variable, err)
	}
	return key + "=" + date, nil
}
