package mdbuild

import (
	"strings"

	"github.com/alnah/go-mdbuild/internal/config"
)

// optionFlag maps a settings toggle to the engine arguments it enables.
type optionFlag struct {
	name string
	args []string
}

// optionFlags lists the recognized toggles in argument order.
var optionFlags = []optionFlag{
	{"toc", []string{"--variable", "toc"}},
	{"lof", []string{"--variable", "lof"}},
	{"lot", []string{"--variable", "lot"}},
	{"verbose", []string{"--verbose"}},
	{"numbered_headings", []string{"-N"}},
}

// TranslateOptions returns the engine arguments for the enabled toggles.
// A toggle is enabled when its lowercased value contains "true"; missing
// toggles and any other value contribute nothing.
func TranslateOptions(opts config.Options) []string {
	var args []string
	for _, f := range optionFlags {
		if enabled(opts, f.name) {
			args = append(args, f.args...)
		}
	}
	return args
}

func enabled(opts config.Options, name string) bool {
	v, ok := opts.Lookup(name)
	return ok && strings.Contains(strings.ToLower(v), "true")
}
