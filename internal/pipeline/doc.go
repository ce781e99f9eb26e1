// Package pipeline renders the in-process HTML preview of a document.
//
// The stages are used by the root package in this order:
//   - YAML metadata block split (title for the page)
//   - ==highlight== placeholders, when the mark extension is enabled
//   - Markdown to HTML conversion via Goldmark with chroma highlighting
//   - Table of contents injection, optionally numbered
//   - Stylesheet injection
//   - Rebasing of relative image and link paths onto the output directory
//
// Every other output kind is produced by pandoc; this package never invokes
// an external process.
package pipeline
