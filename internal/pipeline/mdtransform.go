package pipeline

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdbuild/internal/yamlutil"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged (no WithUnsafe needed) and are
// turned into <mark> tags after HTML generation.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Highlight syntax ==text==
var highlightPattern = regexp.MustCompile(`==(.*?)==`)

// MarkHighlights replaces ==text== with placeholder markers.
// ConvertMarkPlaceholders completes the transformation on the HTML side.
func MarkHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.NewReplacer(
		MarkStartPlaceholder, "<mark>",
		MarkEndPlaceholder, "</mark>",
	).Replace(content)
}

// Metadata is the part of a YAML metadata block the preview uses.
type Metadata struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// SplitMetadata separates a leading YAML metadata block from the body.
// The block opens with a "---" line and closes with "---" or "..." like
// pandoc's yaml_metadata_block. Content without a well-formed block is
// returned whole with empty metadata.
func SplitMetadata(content string) (Metadata, string) {
	var meta Metadata

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return meta, content
	}

	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		switch strings.TrimRight(line, " \t\n") {
		case "---", "...":
			block := rest[:offset]
			if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil && block != "" {
				return Metadata{}, content
			}
			return meta, rest[offset+len(line):]
		}
		offset += len(line)
	}
	return meta, content
}
