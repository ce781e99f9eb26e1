package mdbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-mdbuild/internal/config"
	"github.com/alnah/go-mdbuild/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.TOCInjector   = (*pipeline.TOCInjection)(nil)
	_ pipeline.CSSInjector   = (*pipeline.CSSInjection)(nil)
	_ CommandRunner          = (*ExecRunner)(nil)
)

// previewTOCTitle heads the table of contents of HTML previews.
const previewTOCTitle = "Contents"

// outputPermissions for files written by the builder: rw-r--r--.
const outputPermissions = 0o644

// previewRenderer holds the stages of the in-process HTML preview.
type previewRenderer struct {
	html pipeline.HTMLConverter
	toc  pipeline.TOCInjector
	css  pipeline.CSSInjector
}

func newPreviewRenderer() *previewRenderer {
	return &previewRenderer{
		html: pipeline.NewGoldmarkConverter(),
		toc:  pipeline.NewTOCInjection(),
		css:  &pipeline.CSSInjection{},
	}
}

// render turns preprocessed markdown into a standalone HTML page. The
// settings' extensions and options select the optional stages.
func (r *previewRenderer) render(ctx context.Context, cfg *config.Config, name, md string) (string, error) {
	body := md
	title := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	if slices.Contains(cfg.Extensions, "yaml_metadata_block") {
		var meta pipeline.Metadata
		meta, body = pipeline.SplitMetadata(md)
		if meta.Title != "" {
			title = meta.Title
		}
	}
	if slices.Contains(cfg.Extensions, "mark") {
		body = pipeline.MarkHighlights(body)
	}

	page, err := r.html.ToHTML(ctx, title, body)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	page = pipeline.ConvertMarkPlaceholders(page)

	if enabled(cfg.Options, "toc") {
		page, err = r.toc.InjectTOC(ctx, page, &pipeline.TOCData{
			Title:    previewTOCTitle,
			Numbered: enabled(cfg.Options, "numbered_headings"),
		})
		if err != nil {
			return "", fmt.Errorf("injecting TOC: %w", err)
		}
	}

	css, err := pipeline.StyleSheet()
	if err != nil {
		return "", err
	}
	return r.css.InjectCSS(ctx, page, css), ctx.Err()
}

// buildPreview renders the preview of md and writes it to the job's output
// path. Relative links are rebased when the output lives in another
// directory than the sources.
func (b *Builder) buildPreview(ctx context.Context, md string, job config.Job) error {
	page, err := b.preview.render(ctx, b.cfg, job.InFile, ApplyReplacements(md, b.cfg.Replacements))
	if err != nil {
		return err
	}

	out := b.resolve(job.OutFile)
	page, err = pipeline.RebaseRelativePaths(page, b.workDir, filepath.Dir(out))
	if err != nil {
		return fmt.Errorf("rebasing preview links: %w", err)
	}

	if err := os.WriteFile(out, []byte(page), outputPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
