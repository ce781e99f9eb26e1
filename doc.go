// Package mdbuild builds documents from markdown sources by driving pandoc.
//
// # Quick Start
//
// Load the settings, detect the engine once, and run the configured jobs:
//
//	cfg, err := config.Load("settings.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := mdbuild.DetectEngine(ctx, &mdbuild.ExecRunner{}, "pandoc", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := mdbuild.NewBuilder(cfg, engine, mdbuild.WithLogger(logger))
//	result := b.Run(ctx, cfg.Files, false)
//
// # Build Pipeline
//
// Each job is built in one pass:
//
//  1. #include directives are resolved recursively
//  2. The source is transformed for the output kind (replacement table or
//     control-sequence escaping)
//  3. The result is written to a uniquely named intermediate file in the
//     working directory
//  4. pandoc is invoked with an argument list derived from the settings
//  5. The intermediate is removed, whatever the outcome
//
// # Output Kinds
//
// The output file extension selects the pipeline:
//
//	.pdf             includes, replacements, xelatex, template and variables
//	.md, .markdown   includes, escaping, GitHub-flavored markdown
//	.docx            includes, escaping, optional reference document
//	.revealjs        includes, reveal.js slide deck written as <name>.html
//	.html            includes, replacements, in-process preview (no pandoc)
//
// Beamer mode skips preprocessing and hands the raw source to pandoc's
// beamer writer.
//
// # Engine Requirements
//
// pandoc must be on PATH (or named explicitly). PDF output also needs a
// XeLaTeX installation. Slide decks need git to fetch reveal.js on first use.
package mdbuild
