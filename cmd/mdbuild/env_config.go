package main

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/hints"
)

const envPrefix = "MDBUILD_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	Engine     string // MDBUILD_PANDOC: pandoc binary name or path
	ConfigPath string // MDBUILD_CONFIG: settings file used when --config is absent
	LogLevel   string // MDBUILD_LOGLEVEL: overrides the settings loglevel
}

// knownEnvVars lists valid MDBUILD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	hints.EngineEnvVar: true,
	"MDBUILD_CONFIG":   true,
	"MDBUILD_LOGLEVEL": true,
}

// loadEnvConfig reads the recognized MDBUILD_* values through getenv.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		Engine:     strings.TrimSpace(getenv(hints.EngineEnvVar)),
		ConfigPath: strings.TrimSpace(getenv("MDBUILD_CONFIG")),
		LogLevel:   strings.TrimSpace(getenv("MDBUILD_LOGLEVEL")),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized MDBUILD_* variables.
// Helps catch typos like MDBUILD_PANDOCK.
func warnUnknownEnvVars(environ []string, logger zerolog.Logger) {
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) && !knownEnvVars[name] {
			logger.Warn().Msgf("unknown environment variable %s (typo?)", name)
		}
	}
}
