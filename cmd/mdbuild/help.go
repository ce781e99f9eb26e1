package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdbuild [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run it once with --init to generate an initial settings.json, then review it.")
	fmt.Fprintln(w, "By default every job listed in settings.json is built; user_settings.json,")
	fmt.Fprintln(w, "when present, overrides it.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -i, --init               Write a new default settings.json (overwrites)")
	fmt.Fprintln(w, "  -b, --beamer             Build beamer presentations from slides.json")
	fmt.Fprintln(w, "  -f, --file <path>        Build only this file, to <name>.pdf")
	fmt.Fprintln(w, "  -c, --config <path>      Settings file instead of settings.json")
	fmt.Fprintln(w, "  -v, --verbose            Log debug messages")
	fmt.Fprintln(w, "  -q, --quiet              Only log errors")
	fmt.Fprintln(w, "      --version            Print version and exit")
	fmt.Fprintln(w, "  -h, --help               Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Outputs are chosen by extension: .pdf, .md/.markdown (GitHub markdown),")
	fmt.Fprintln(w, ".docx, .revealjs (reveal.js deck written as .html), .html (preview).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDBUILD_PANDOC           pandoc binary to use (default: pandoc on PATH)")
	fmt.Fprintln(w, "  MDBUILD_CONFIG           Settings file when --config is not given")
	fmt.Fprintln(w, "  MDBUILD_LOGLEVEL         Log level overriding the settings loglevel")
}
