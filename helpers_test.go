package mdbuild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// runnerCall records one CommandRunner invocation.
type runnerCall struct {
	Dir  string
	Name string
	Args []string
}

// mockRunner implements CommandRunner for testing. OnRun, when set, runs
// while the call is in flight (intermediate files still exist) and its
// error is returned as the command error.
type mockRunner struct {
	mu     sync.Mutex
	calls  []runnerCall
	Stdout string
	Stderr string
	Err    error
	OnRun  func(call runnerCall) error
}

func (m *mockRunner) Run(_ context.Context, dir, name string, args ...string) (string, string, error) {
	call := runnerCall{Dir: dir, Name: name, Args: append([]string(nil), args...)}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.OnRun != nil {
		if err := m.OnRun(call); err != nil {
			return m.Stdout, m.Stderr, err
		}
	}
	return m.Stdout, m.Stderr, m.Err
}

func (m *mockRunner) Calls() []runnerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]runnerCall(nil), m.calls...)
}

// newTestEngine returns an Engine of the given major version backed by runner.
func newTestEngine(runner CommandRunner, major int) *Engine {
	return &Engine{
		binary:  DefaultEngine,
		version: "pandoc test",
		major:   major,
		runner:  runner,
		logger:  zerolog.Nop(),
	}
}

// newBufferLogger returns a logger writing JSON lines into the returned buffer.
func newBufferLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(&buf).Level(zerolog.DebugLevel), &buf
}

// writeFiles creates files under dir from a name -> content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}

// intermediates lists leftover intermediate files in dir.
func intermediates(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".mdbuild-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}

// containsSeq reports whether seq appears contiguously in args.
func containsSeq(args []string, seq ...string) bool {
	for i := 0; i+len(seq) <= len(args); i++ {
		match := true
		for j := range seq {
			if args[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// isIntermediate reports whether arg names an intermediate file.
func isIntermediate(arg string) bool {
	return strings.HasPrefix(arg, ".mdbuild-") && strings.HasSuffix(arg, "."+intermediateExt)
}
