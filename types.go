package mdbuild

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/config"
)

// OutputKind is the kind of artifact a job produces.
type OutputKind int

// Output kinds, selected by the output file extension.
const (
	KindPDF     OutputKind = iota + 1 // .pdf through xelatex
	KindGFM                           // .md, .markdown
	KindDocx                          // .docx
	KindSlides                        // .revealjs, written as .html
	KindPreview                       // .html rendered in process
)

var kindNames = map[OutputKind]string{
	KindPDF:     "pdf",
	KindGFM:     "gfm",
	KindDocx:    "docx",
	KindSlides:  "revealjs",
	KindPreview: "html",
}

func (k OutputKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutputKind(%d)", int(k))
}

var kindsByExt = map[string]OutputKind{
	".pdf":      KindPDF,
	".md":       KindGFM,
	".markdown": KindGFM,
	".docx":     KindDocx,
	".revealjs": KindSlides,
	".html":     KindPreview,
}

// KindOf returns the output kind for outFile's extension (case-insensitive).
func KindOf(outFile string) (OutputKind, error) {
	ext := strings.ToLower(filepath.Ext(outFile))
	if kind, ok := kindsByExt[ext]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("%w: %q (want .pdf, .md, .markdown, .docx, .revealjs or .html)", ErrUnsupportedOutput, outFile)
}

// JobError records a job that failed during a batch.
type JobError struct {
	Job config.Job
	Err error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s -> %s: %v", e.Job.InFile, e.Job.OutFile, e.Err)
}

func (e JobError) Unwrap() error { return e.Err }

// BatchResult summarizes a Run.
type BatchResult struct {
	Total     int
	Succeeded int
	Failures  []JobError
	Err       error // Non-nil when the run was canceled before finishing
}

// Failed returns the number of failed jobs.
func (r BatchResult) Failed() int { return len(r.Failures) }

// Skipped returns the number of jobs never attempted.
func (r BatchResult) Skipped() int { return r.Total - r.Succeeded - r.Failed() }

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for build progress. The default discards.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithWorkDir sets the directory that job paths, include targets, and the
// intermediate file are relative to. The engine runs there too.
func WithWorkDir(dir string) Option {
	return func(b *Builder) {
		b.workDir = dir
	}
}

// WithClock sets the time source for "date=auto" variables.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithSlideAssets replaces the reveal.js fetcher.
func WithSlideAssets(s *SlideAssets) Option {
	return func(b *Builder) {
		b.slides = s
	}
}
