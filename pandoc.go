package mdbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/alnah/go-mdbuild/internal/process"
)

// DefaultEngine is the engine binary looked up on PATH.
const DefaultEngine = "pandoc"

// versionNumber matches the first dotted version in `pandoc -v` output.
var versionNumber = regexp.MustCompile(`(\d+)(?:\.\d+)*`)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The child runs in its own process group, which is killed when ctx is
// canceled.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- argv is passed directly, no shell
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	process.Isolate(cmd)

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return stdout.String(), stderr.String(), err
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		<-done
		return stdout.String(), stderr.String(), ctx.Err()
	}
}

// Invocation is one engine command line.
type Invocation struct {
	Name string
	Args []string
}

// String renders the invocation for logs, quoting arguments that contain
// whitespace or quotes.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, quoteArg(inv.Name))
	for _, a := range inv.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"'") {
		return strconv.Quote(s)
	}
	return s
}

// Engine drives the pandoc binary detected by DetectEngine.
type Engine struct {
	binary  string
	version string
	major   int
	runner  CommandRunner
	logger  zerolog.Logger
}

// DetectEngine queries `<binary> -v` once and records the engine version.
// A binary that cannot be found yields ErrEngineNotFound.
func DetectEngine(ctx context.Context, runner CommandRunner, binary string, logger zerolog.Logger) (*Engine, error) {
	if binary == "" {
		binary = DefaultEngine
	}

	logger.Info().Str("engine", binary).Msg("getting engine version")
	stdout, stderr, err := runner.Run(ctx, "", binary, "-v")
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, binary)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("querying %s version: %s: %w", binary, strings.TrimSpace(stderr), err)
	}

	version, _, _ := strings.Cut(stdout, "\n")
	version = strings.TrimSpace(version)
	e := &Engine{
		binary:  binary,
		version: version,
		major:   parseMajor(version),
		runner:  runner,
		logger:  logger,
	}
	logger.Info().Str("version", version).Msg("found engine")
	return e, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// parseMajor returns the major version of a `pandoc -v` first line, or 0
// when none can be found.
func parseMajor(line string) int {
	m := versionNumber.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Version returns the first line of the engine's version output.
func (e *Engine) Version() string { return e.version }

// Major returns the engine's major version, 0 if unknown.
func (e *Engine) Major() int { return e.major }

// PDFEngineFlag returns the flag selecting the LaTeX engine. pandoc 1.x
// spells it --latex-engine; later versions use --pdf-engine.
func (e *Engine) PDFEngineFlag() string {
	if e.major == 1 {
		return "--latex-engine"
	}
	return "--pdf-engine"
}

// Invocation returns the command line for args.
func (e *Engine) Invocation(args ...string) Invocation {
	return Invocation{Name: e.binary, Args: args}
}

// Run executes the engine in dir and waits for it. Anything the engine
// prints on stderr is logged at warn level.
func (e *Engine) Run(ctx context.Context, dir string, args ...string) error {
	inv := e.Invocation(args...)
	e.logger.Info().Msgf("executing: %s", inv)

	stdout, stderr, err := e.runner.Run(ctx, dir, inv.Name, inv.Args...)
	if out := strings.TrimSpace(stdout); out != "" {
		e.logger.Debug().Msg(out)
	}
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrEngineNotFound, e.binary)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrEngineFailed, strings.TrimSpace(stderr), err)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		e.logger.Warn().Msg(msg)
	}
	return nil
}
