package mdbuild

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/config"
	"github.com/alnah/go-mdbuild/internal/dateutil"
	"github.com/alnah/go-mdbuild/internal/fileutil"
)

// intermediateExt is the extension of the preprocessed file handed to pandoc.
const intermediateExt = "md"

// Builder turns jobs into output files according to a configuration.
// Create with NewBuilder; a Builder is not safe for concurrent use.
type Builder struct {
	cfg     *config.Config
	engine  *Engine
	pre     *Preprocessor
	slides  *SlideAssets
	preview *previewRenderer
	workDir string
	now     func() time.Time
	logger  zerolog.Logger
}

// NewBuilder creates a Builder for cfg driving engine.
// Use options to customize behavior (e.g., WithLogger, WithWorkDir).
func NewBuilder(cfg *config.Config, engine *Engine, opts ...Option) *Builder {
	b := &Builder{
		cfg:     cfg,
		engine:  engine,
		preview: newPreviewRenderer(),
		workDir: ".",
		now:     time.Now,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.pre = NewPreprocessor(b.workDir, b.logger)
	if b.slides == nil && engine != nil {
		b.slides = NewSlideAssets(engine.runner, b.workDir, b.logger)
	}

	return b
}

// Build produces job.OutFile from job.InFile, choosing the pipeline by the
// output extension. Any intermediate file is removed before Build returns.
func (b *Builder) Build(ctx context.Context, job config.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	kind, err := KindOf(job.OutFile)
	if err != nil {
		return err
	}

	b.logger.Info().Str("kind", kind.String()).Msgf("generating %s => %s", job.InFile, job.OutFile)

	md, err := b.pre.ResolveIncludes(job.InFile)
	if err != nil {
		return err
	}

	switch kind {
	case KindPDF:
		return b.convert(ctx, b.replace(md), func(in string) []string {
			return b.pdfArgs(in, job)
		})
	case KindGFM:
		return b.convert(ctx, b.escape(md), func(in string) []string {
			return []string{in, "-o", job.OutFile, "-t", "gfm"}
		})
	case KindDocx:
		return b.convert(ctx, b.escape(md), func(in string) []string {
			return docxArgs(in, job)
		})
	case KindSlides:
		return b.buildSlides(ctx, md, job)
	case KindPreview:
		return b.buildPreview(ctx, md, job)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedOutput, kind)
}

// BuildBeamer hands the raw source of job to pandoc's beamer writer.
// No preprocessing takes place and the job's template is not used.
func (b *Builder) BuildBeamer(ctx context.Context, job config.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	b.logger.Info().Str("kind", "beamer").Msgf("generating %s => %s", job.InFile, job.OutFile)

	if b.engine == nil {
		return ErrEngineNotFound
	}
	args := []string{job.InFile, "-o", job.OutFile, "-t", "beamer"}
	args = append(args, b.variableArgs()...)
	args = append(args, b.latexArgs()...)
	return b.engine.Run(ctx, b.workDir, args...)
}

// Run builds jobs in order. A failing job is logged at fatal level without
// exiting and the batch moves on; only cancellation stops it early.
func (b *Builder) Run(ctx context.Context, jobs []config.Job, beamer bool) BatchResult {
	build := b.Build
	if beamer {
		build = b.BuildBeamer
	}

	result := BatchResult{Total: len(jobs)}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		if err := build(ctx, job); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				result.Err = ctxErr
				break
			}
			result.Failures = append(result.Failures, JobError{Job: job, Err: err})
			b.logger.WithLevel(zerolog.FatalLevel).Err(err).
				Str("in", job.InFile).Str("out", job.OutFile).Msg("job failed")
			continue
		}
		result.Succeeded++
	}

	b.logger.Info().
		Int("total", result.Total).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed()).
		Int("skipped", result.Skipped()).
		Msg("build finished")
	return result
}

// convert writes content to a fresh intermediate in the working directory,
// runs the engine with args(intermediate), and removes the intermediate.
func (b *Builder) convert(ctx context.Context, content string, args func(in string) []string) error {
	if b.engine == nil {
		return ErrEngineNotFound
	}

	path, cleanup, err := fileutil.WriteTempFile(b.workDir, content, intermediateExt)
	if err != nil {
		return fmt.Errorf("%w: intermediate: %v", ErrWriteOutput, err)
	}
	defer cleanup()

	return b.engine.Run(ctx, b.workDir, args(filepath.Base(path))...)
}

func (b *Builder) replace(md string) string {
	b.logger.Info().Msg("applying replacements")
	for _, r := range b.cfg.Replacements {
		b.logger.Debug().Msgf("replacing: %s => %s", r.Old, r.New)
	}
	return ApplyReplacements(md, b.cfg.Replacements)
}

func (b *Builder) escape(md string) string {
	b.logger.Info().Msg("escaping control sequences")
	return EscapeControlSequences(md)
}

// pdfArgs: IN -o OUT [--template=T] (--variable V)... <latex args>
func (b *Builder) pdfArgs(in string, job config.Job) []string {
	args := []string{in, "-o", job.OutFile}
	if job.Template != "" {
		args = append(args, "--template="+job.Template)
	}
	args = append(args, b.variableArgs()...)
	return append(args, b.latexArgs()...)
}

// docxArgs: -s [--reference-doc T] -o OUT IN
func docxArgs(in string, job config.Job) []string {
	args := []string{"-s"}
	if job.Template != "" {
		args = append(args, "--reference-doc", job.Template)
	}
	return append(args, "-o", job.OutFile, in)
}

func (b *Builder) buildSlides(ctx context.Context, md string, job config.Job) error {
	present, err := b.ensureSlides(ctx)
	if err != nil {
		return err
	}

	out := fileutil.ReplaceExt(job.OutFile, ".html")
	return b.convert(ctx, md, func(in string) []string {
		args := []string{in, "-t", "revealjs", "-s", "-o", out}
		if present {
			args = append(args, "--variable", "revealjs-url="+revealURLFrom(out))
		}
		return args
	})
}

// ensureSlides degrades a failed reveal.js fetch to a warning.
func (b *Builder) ensureSlides(ctx context.Context) (bool, error) {
	if b.slides == nil {
		return false, nil
	}
	present, err := b.slides.Ensure(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, err
		}
		b.logger.Warn().Msg(err.Error())
	}
	return present, nil
}

// revealURLFrom returns the reveal.js directory as seen from the deck.
func revealURLFrom(out string) string {
	rel, err := filepath.Rel(filepath.Dir(out), RevealDir)
	if err != nil {
		return RevealDir
	}
	return filepath.ToSlash(rel)
}

// variableArgs returns one --variable pair per configured variable, with
// "date=auto[:FORMAT]" set to the build date. A date that cannot be
// resolved is passed on unchanged.
func (b *Builder) variableArgs() []string {
	args := make([]string, 0, 2*len(b.cfg.Variables))
	for _, v := range b.cfg.Variables {
		expanded, err := dateutil.ExpandVariable(v, b.now())
		if err != nil {
			b.logger.Warn().Err(err).Msg("keeping date variable as written")
			expanded = v
		}
		b.logger.Debug().Msgf("adding variable %s", expanded)
		args = append(args, "--variable", expanded)
	}
	return args
}

// latexArgs returns the engine flag, the input format with its extensions,
// and the translated options.
func (b *Builder) latexArgs() []string {
	args := []string{b.engine.PDFEngineFlag() + "=xelatex", "--from", b.inputFormat()}
	return append(args, TranslateOptions(b.cfg.Options)...)
}

// inputFormat returns "markdown" followed by "+ext" for each extension.
func (b *Builder) inputFormat() string {
	var sb strings.Builder
	sb.WriteString("markdown")
	for _, ext := range b.cfg.Extensions {
		sb.WriteString("+" + ext)
	}
	return sb.String()
}

func (b *Builder) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.workDir, path)
}
