package mdbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/fileutil"
	"github.com/alnah/go-mdbuild/internal/hints"
)

// reveal.js source and local checkout directory.
const (
	RevealURL = "https://github.com/hakimel/reveal.js.git"
	RevealDir = "reveal.js"
)

// SlideAssets makes sure a local reveal.js checkout exists for slide decks.
// At most one fetch is attempted per SlideAssets value.
type SlideAssets struct {
	runner    CommandRunner
	dir       string
	url       string
	logger    zerolog.Logger
	attempted bool
	err       error
}

// NewSlideAssets creates a SlideAssets that clones into dir/reveal.js.
func NewSlideAssets(runner CommandRunner, dir string, logger zerolog.Logger) *SlideAssets {
	return &SlideAssets{runner: runner, dir: dir, url: RevealURL, logger: logger}
}

// Path returns the local checkout directory.
func (s *SlideAssets) Path() string {
	return filepath.Join(s.dir, RevealDir)
}

// Ensure reports whether the checkout is available, fetching it with git on
// the first call if it is missing. A failed fetch returns ErrAssetFetch;
// later calls return the same error without retrying.
func (s *SlideAssets) Ensure(ctx context.Context) (bool, error) {
	if fileutil.DirExists(s.Path()) {
		return true, nil
	}
	if s.attempted {
		return false, s.err
	}
	s.attempted = true

	s.logger.Debug().Str("url", s.url).Msg("fetching reveal.js")
	_, stderr, err := s.runner.Run(ctx, s.dir, "git", "clone", "--depth", "1", s.url, RevealDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.err = ctxErr
			return false, ctxErr
		}
		s.err = fmt.Errorf("%w: %s: %v%s", ErrAssetFetch, strings.TrimSpace(stderr), err, hints.ForSlideAssets(s.url, RevealDir))
		return false, s.err
	}
	return fileutil.DirExists(s.Path()), nil
}
