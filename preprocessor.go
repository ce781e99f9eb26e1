package mdbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/config"
	"github.com/alnah/go-mdbuild/internal/hints"
)

// MaxIncludeDepth bounds #include nesting.
const MaxIncludeDepth = 32

const (
	includeDirective = "#include"

	// fileSeparator follows every resolved file so adjacent files never
	// run together.
	fileSeparator = "\n\n"
)

// Precompiled regex patterns.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Backslash followed by a run of word, brace, or bracket characters
	controlSequence = regexp.MustCompile(`\\[\p{L}\p{N}_{}\[\]]*`)
)

// Preprocessor resolves #include directives relative to a base directory.
type Preprocessor struct {
	dir    string
	logger zerolog.Logger
}

// NewPreprocessor creates a Preprocessor resolving relative paths against dir.
// An empty dir means the current working directory.
func NewPreprocessor(dir string, logger zerolog.Logger) *Preprocessor {
	return &Preprocessor{dir: dir, logger: logger}
}

// ResolveIncludes returns the text of the document at path with every
// include line replaced by the resolved text of the file it names.
//
// An include line is any line whose trimmed, lowercased form starts with
// "#include"; its second whitespace-separated token is the file to include.
// Each resolved file, the top-level one included, is followed by a blank
// line separator. A file that is not valid UTF-8 contributes only the
// separator.
func (p *Preprocessor) ResolveIncludes(path string) (string, error) {
	var sb strings.Builder
	if err := p.resolve(&sb, path, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (p *Preprocessor) resolve(sb *strings.Builder, path string, stack []string) error {
	if len(stack) > MaxIncludeDepth {
		return fmt.Errorf("%w: %s (limit %d)", ErrIncludeDepth, path, MaxIncludeDepth)
	}

	full, err := filepath.Abs(p.resolvePath(path))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadMarkdown, path, err)
	}
	if slices.Contains(stack, full) {
		return fmt.Errorf("%w: %s%s", ErrIncludeCycle, strings.Join(append(stack, full), " -> "), hints.ForIncludeCycle())
	}

	data, err := os.ReadFile(full) // #nosec G304 -- paths come from the settings file
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	if !utf8.Valid(data) {
		p.logger.Warn().Str("file", path).Msg("skipping file that is not valid UTF-8")
		sb.WriteString(fileSeparator)
		return nil
	}

	stack = append(stack, full)
	content := crlfOrCR.ReplaceAllString(string(data), "\n")
	for _, line := range strings.SplitAfter(content, "\n") {
		target, ok, err := includeTarget(line)
		if err != nil {
			return fmt.Errorf("%w: in %s", err, path)
		}
		if !ok {
			sb.WriteString(line)
			continue
		}

		p.logger.Info().Str("file", target).Msg("including")
		if err := p.resolve(sb, target, stack); err != nil {
			return err
		}
	}

	sb.WriteString(fileSeparator)
	return nil
}

func (p *Preprocessor) resolvePath(path string) string {
	if filepath.IsAbs(path) || p.dir == "" {
		return path
	}
	return filepath.Join(p.dir, path)
}

// includeTarget reports whether line is an include directive and which
// file it names.
func includeTarget(line string) (string, bool, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), includeDirective) {
		return "", false, nil
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", true, fmt.Errorf("%w: %q", ErrIncludeTarget, strings.TrimSpace(line))
	}
	return fields[1], true, nil
}

// ApplyReplacements substitutes every table entry literally, in table order.
// Each entry operates on the output of the previous ones, so a table whose
// replacement text contains a later key is not idempotent.
// Entries with an empty key are ignored.
func ApplyReplacements(text string, table config.Replacements) string {
	for _, r := range table {
		if r.Old == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Old, r.New)
	}
	return text
}

// EscapeControlSequences wraps every backslash sequence (a backslash and the
// word, brace, and bracket characters following it) in backticks so that
// markdown renderers show it as inline code. Other text is left untouched.
func EscapeControlSequences(text string) string {
	return controlSequence.ReplaceAllString(text, "`${0}`")
}
