// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"
)

// EngineEnvVar overrides the conversion engine binary.
const EngineEnvVar = "MDBUILD_PANDOC"

// GOOS is the target platform used to pick install instructions.
var GOOS = runtime.GOOS

// ForEngineNotFound returns hints for a missing conversion engine.
// Suggests a platform install command and the binary override variable.
func ForEngineNotFound() string {
	var hints []string

	switch GOOS {
	case "darwin":
		hints = append(hints, "install with 'brew install pandoc'")
	case "windows":
		hints = append(hints, "install with 'winget install JohnMacFarlane.Pandoc'")
	default:
		hints = append(hints, "install pandoc from your package manager or https://pandoc.org/installing.html")
	}

	if os.Getenv(EngineEnvVar) == "" {
		hints = append(hints, "set "+EngineEnvVar+" to use a pandoc outside PATH")
	}

	return formatHints(hints)
}

// ForConfigNotFound returns hints for a missing settings file.
// The default settings file can be generated, any other must be named explicitly.
func ForConfigNotFound(path string) string {
	if strings.HasSuffix(path, "settings.json") {
		return format("run 'mdbuild --init' to generate one, then review it and rerun")
	}
	return format("create " + path + " or pass --config /path/to/settings.json")
}

// ForConfigParse returns a hint for malformed settings files.
func ForConfigParse() string {
	return format("check for trailing commas and unquoted keys")
}

// ForSlideAssets returns a hint for a failed presentation framework fetch.
func ForSlideAssets(url, dir string) string {
	return format("clone " + url + " into ./" + dir + " yourself")
}

// ForIncludeCycle returns a hint for recursive #include directives.
func ForIncludeCycle() string {
	return format("a file includes itself directly or through another file")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
