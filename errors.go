package mdbuild

import (
	"errors"

	"github.com/alnah/go-mdbuild/internal/config"
)

// Sentinel errors for build operations.
var (
	ErrEngineNotFound    = errors.New("conversion engine not found")
	ErrEngineFailed      = errors.New("conversion engine failed")
	ErrUnsupportedOutput = errors.New("unsupported output format")
	ErrAssetFetch        = errors.New("failed to fetch slide assets")
	ErrReadMarkdown      = errors.New("failed to read markdown")
	ErrWriteOutput       = errors.New("failed to write output")

	// Include resolution errors.
	ErrIncludeCycle  = errors.New("include cycle")
	ErrIncludeDepth  = errors.New("include nesting too deep")
	ErrIncludeTarget = errors.New("include directive names no file")
)

// ErrJobFieldMissing is returned for jobs without an input or output file.
var ErrJobFieldMissing = config.ErrJobFieldMissing
