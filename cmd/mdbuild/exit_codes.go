package main

import (
	"errors"
	"os"

	mdbuild "github.com/alnah/go-mdbuild"
	"github.com/alnah/go-mdbuild/internal/config"
)

// Exit codes for mdbuild CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Run completed, even with failed jobs
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or settings
	ExitIO      = 3 // File not found, permission denied
	ExitEngine  = 4 // pandoc missing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Engine errors (exit 4)
	if errors.Is(err, mdbuild.ErrEngineNotFound) {
		return ExitEngine
	}

	// Usage/config errors (exit 2)
	var usage *usageError
	if errors.As(err, &usage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, config.ErrEmptyConfigPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdbuild.ErrReadMarkdown) ||
		errors.Is(err, mdbuild.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
