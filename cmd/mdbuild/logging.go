package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// levelLabels prints zerolog levels under their classic names, so a job
// failure logged at fatal level shows as CRITICAL.
var levelLabels = map[string]string{
	zerolog.LevelTraceValue: "TRACE",
	zerolog.LevelDebugValue: "DEBUG",
	zerolog.LevelInfoValue:  "INFO",
	zerolog.LevelWarnValue:  "WARNING",
	zerolog.LevelErrorValue: "ERROR",
	zerolog.LevelFatalValue: "CRITICAL",
	zerolog.LevelPanicValue: "PANIC",
}

// newLogger returns a console logger writing "LEVEL   : message" lines to w,
// without timestamps. The level defaults to info.
func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:         w,
		NoColor:     noColor,
		PartsOrder:  []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: formatLevel,
	}
	return zerolog.New(console).Level(zerolog.InfoLevel)
}

func formatLevel(i any) string {
	name, _ := i.(string)
	label, ok := levelLabels[name]
	if !ok {
		label = strings.ToUpper(name)
	}
	return fmt.Sprintf("%-8s:", label)
}

// parseLevel accepts zerolog level names plus "warning" and "critical".
// An empty name means info.
func parseLevel(name string) (zerolog.Level, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "critical":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.ParseLevel(n)
	}
}

// flagLevel is the level implied by --verbose and --quiet alone.
func flagLevel(f *cliFlags) zerolog.Level {
	switch {
	case f.verbose:
		return zerolog.DebugLevel
	case f.quiet:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// resolveLevel picks the run's level: --verbose and --quiet win, then
// MDBUILD_LOGLEVEL, then the settings loglevel. Unknown names fall back to
// info with a warning.
func resolveLevel(f *cliFlags, envLevel, settingsLevel string, logger zerolog.Logger) zerolog.Level {
	if f.verbose || f.quiet {
		return flagLevel(f)
	}

	name := settingsLevel
	if envLevel != "" {
		name = envLevel
	}
	level, err := parseLevel(name)
	if err != nil {
		logger.Warn().Str("loglevel", name).Msg("unknown log level; defaulting to info")
		return zerolog.InfoLevel
	}
	return level
}
