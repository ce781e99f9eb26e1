package main

// Notes:
// - runMain: we test exit codes and observable effects for every mode
//   against a fake runner. Real pandoc runs are covered by the root
//   package's integration tests.
// - main: not tested; it only wires DefaultEnv, maxprocs, and os.Exit.

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake engine
// ---------------------------------------------------------------------------

// fakeRunner answers `-v` like pandoc 3 and records every other call.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string // name followed by args
	missing bool       // report the binary as not found
}

func (r *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) (string, string, error) {
	if r.missing {
		return "", "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}

	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if len(args) == 1 && args[0] == "-v" {
		return "pandoc 3.1.11\n", "", nil
	}
	return "", "", nil
}

// builds returns the recorded non-version calls.
func (r *fakeRunner) builds() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out [][]string
	for _, c := range r.calls {
		if len(c) == 2 && c[1] == "-v" {
			continue
		}
		out = append(out, c)
	}
	return out
}

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	runner *fakeRunner
	vars   map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		runner: &fakeRunner{},
		vars:   map[string]string{"NO_COLOR": "1"},
	}
	te.Environment = &Environment{
		Stdout:  te.stdout,
		Stderr:  te.stderr,
		Runner:  te.runner,
		WorkDir: t.TempDir(),
		Getenv:  func(k string) string { return te.vars[k] },
		Environ: func() []string {
			var kv []string
			for k, v := range te.vars {
				kv = append(kv, k+"="+v)
			}
			return kv
		},
	}
	return te
}

func (te *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(te.WorkDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

const testSettings = `{
    "replacements": {"FOO": "BAR"},
    "variables": ["lang=de-CH"],
    "extensions": ["yaml_metadata_block"],
    "options": {"toc": "True"},
    "loglevel": "INFO",
    "files": [
        {"in_file": "doc.md", "out_file": "doc.pdf", "template": "default.latex"},
        {"in_file": "missing.md", "out_file": "missing.pdf"}
    ]
}`

// ---------------------------------------------------------------------------
// TestRunMain - Informational flags
// ---------------------------------------------------------------------------

func TestRunMain_InfoFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"help long", []string{"--help"}, "Usage: mdbuild"},
		{"help short", []string{"-h"}, "--beamer"},
		{"version", []string{"--version"}, "mdbuild " + Version},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if code := runMain(tt.args, te.Environment); code != ExitSuccess {
				t.Fatalf("exit = %d, want %d", code, ExitSuccess)
			}
			if !strings.Contains(te.stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", te.stdout.String(), tt.want)
			}
			if len(te.runner.calls) != 0 {
				t.Error("engine queried")
			}
		})
	}
}

func TestRunMain_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"missing flag value", []string{"--file"}},
		{"positional argument", []string{"doc.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if code := runMain(tt.args, te.Environment); code != ExitUsage {
				t.Errorf("exit = %d, want %d", code, ExitUsage)
			}
			if !strings.Contains(te.stderr.String(), "Usage: mdbuild") {
				t.Errorf("usage not printed: %q", te.stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Settings errors
// ---------------------------------------------------------------------------

func TestRunMain_SettingsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		files    map[string]string
		wantCode int
		wantLog  string
	}{
		{
			name:     "missing settings suggests init",
			wantCode: ExitUsage,
			wantLog:  "mdbuild --init",
		},
		{
			name:     "missing slides file",
			args:     []string{"--beamer"},
			wantCode: ExitUsage,
			wantLog:  "slides.json",
		},
		{
			name:     "malformed settings",
			files:    map[string]string{"settings.json": `{"files": [`},
			wantCode: ExitUsage,
			wantLog:  "hint:",
		},
		{
			name:     "invalid field",
			files:    map[string]string{"settings.json": `{"loglevel": "LOUD"}`},
			wantCode: ExitUsage,
			wantLog:  "loglevel",
		},
		{
			name:     "explicit config path missing",
			args:     []string{"-c", "other.json"},
			wantCode: ExitUsage,
			wantLog:  "other.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			for name, content := range tt.files {
				te.write(t, name, content)
			}

			if code := runMain(tt.args, te.Environment); code != tt.wantCode {
				t.Errorf("exit = %d, want %d; stderr: %s", code, tt.wantCode, te.stderr.String())
			}
			if !strings.Contains(te.stderr.String(), tt.wantLog) {
				t.Errorf("stderr = %q, want %q", te.stderr.String(), tt.wantLog)
			}
			if !strings.Contains(te.stderr.String(), "CRITICAL:") {
				t.Errorf("error not logged as CRITICAL: %q", te.stderr.String())
			}
		})
	}
}

func TestRunMain_EngineMissing(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", testSettings)
	te.runner.missing = true

	if code := runMain(nil, te.Environment); code != ExitEngine {
		t.Errorf("exit = %d, want %d", code, ExitEngine)
	}
	if !strings.Contains(te.stderr.String(), "hint:") {
		t.Errorf("no install hint: %q", te.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Modes
// ---------------------------------------------------------------------------

func TestRunMain_Init(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "a.md", "# A")
	te.write(t, "settings.json", "stale")

	if code := runMain([]string{"--init", "--beamer"}, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(te.WorkDir, "settings.json"))
	if err != nil {
		t.Fatalf("reading settings: %v", err)
	}
	if !strings.Contains(string(data), `"in_file": "a.md"`) || !strings.Contains(string(data), `"out_file": "a.pdf"`) {
		t.Errorf("settings.json = %s", data)
	}
	if !strings.Contains(te.stderr.String(), "overwriting existing settings.json") {
		t.Errorf("no overwrite warning: %s", te.stderr.String())
	}
	if len(te.runner.calls) != 0 {
		t.Error("engine queried during init")
	}
}

func TestRunMain_BuildsAllJobs(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", testSettings)
	te.write(t, "doc.md", "# FOO\n")

	// A failing job does not change the exit code.
	if code := runMain(nil, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	builds := te.runner.builds()
	if len(builds) != 1 {
		t.Fatalf("got %d builds, want 1: %v", len(builds), builds)
	}
	args := builds[0]
	if args[0] != "pandoc" || !slices.Contains(args, "--template=default.latex") || !slices.Contains(args, "lang=de-CH") {
		t.Errorf("argv = %v", args)
	}

	log := te.stderr.String()
	if !strings.Contains(log, "CRITICAL:") || !strings.Contains(log, "missing.md") {
		t.Errorf("failed job not logged as critical: %s", log)
	}
	if !strings.Contains(log, "build finished") {
		t.Errorf("no summary: %s", log)
	}
}

func TestRunMain_UserSettingsOverride(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", testSettings)
	te.write(t, "user_settings.json", `{"variables": ["lang=en-US"], "files": [{"in_file": "doc.md", "out_file": "doc.pdf"}]}`)
	te.write(t, "doc.md", "text\n")

	if code := runMain(nil, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	builds := te.runner.builds()
	if len(builds) != 1 {
		t.Fatalf("got %d builds, want 1: %v", len(builds), builds)
	}
	if !slices.Contains(builds[0], "lang=en-US") || slices.Contains(builds[0], "lang=de-CH") {
		t.Errorf("override not applied: %v", builds[0])
	}
	if !strings.Contains(te.stderr.String(), "applied user_settings.json") {
		t.Errorf("override not logged: %s", te.stderr.String())
	}
}

func TestRunMain_SingleFile(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", testSettings)
	te.write(t, "notes.md", "text\n")

	if code := runMain([]string{"-f", "notes.md"}, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	builds := te.runner.builds()
	if len(builds) != 1 {
		t.Fatalf("got %d builds, want 1: %v", len(builds), builds)
	}
	args := builds[0]
	if i := slices.Index(args, "-o"); i < 0 || args[i+1] != "notes.pdf" {
		t.Errorf("argv = %v, want -o notes.pdf", args)
	}
	if !slices.Contains(args, "--template=default.latex") {
		t.Errorf("argv = %v, want default template", args)
	}
}

func TestRunMain_Beamer(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "slides.json", `{"variables": ["theme=metropolis"], "files": [{"in_file": "talk.md", "out_file": "talk.pdf"}]}`)
	te.write(t, "user_settings.json", `{"variables": ["ignored=1"]}`)

	if code := runMain([]string{"-b"}, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	builds := te.runner.builds()
	if len(builds) != 1 {
		t.Fatalf("got %d builds, want 1: %v", len(builds), builds)
	}
	want := []string{"pandoc", "talk.md", "-o", "talk.pdf", "-t", "beamer", "--variable", "theme=metropolis"}
	if !slices.Equal(builds[0][:len(want)], want) {
		t.Errorf("argv = %v, want prefix %v", builds[0], want)
	}
}

func TestRunMain_NoJobs(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", `{"files": []}`)

	if code := runMain(nil, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if len(te.runner.calls) != 0 {
		t.Error("engine queried without jobs")
	}
	if !strings.Contains(te.stderr.String(), "WARNING :") {
		t.Errorf("no warning: %q", te.stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Environment and verbosity
// ---------------------------------------------------------------------------

func TestRunMain_EngineOverride(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.write(t, "settings.json", `{"files": [{"in_file": "doc.md", "out_file": "doc.md.pdf"}]}`)
	te.write(t, "doc.md", "text\n")
	te.vars["MDBUILD_PANDOC"] = "/opt/pandoc"
	te.vars["MDBUILD_PANDOCK"] = "typo"

	if code := runMain(nil, te.Environment); code != ExitSuccess {
		t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
	}

	for _, call := range te.runner.calls {
		if call[0] != "/opt/pandoc" {
			t.Errorf("ran %q, want /opt/pandoc", call[0])
		}
	}
	if !strings.Contains(te.stderr.String(), "MDBUILD_PANDOCK") {
		t.Errorf("typo not reported: %s", te.stderr.String())
	}
}

func TestRunMain_Verbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		loglevel    string
		envLevel    string
		wantDebug   bool
		wantInfo    bool
		wantSummary bool
	}{
		{"settings info", nil, "INFO", "", false, true, true},
		{"settings debug", nil, "DEBUG", "", true, true, true},
		{"settings warning", nil, "WARNING", "", false, false, false},
		{"env overrides settings", nil, "WARNING", "debug", true, true, true},
		{"verbose flag wins", []string{"-v"}, "ERROR", "", true, true, true},
		{"quiet flag wins", []string{"-q"}, "DEBUG", "debug", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			te.write(t, "settings.json", `{"loglevel": "`+tt.loglevel+`", "replacements": {"A": "B"}, "files": [{"in_file": "doc.md", "out_file": "doc.pdf"}]}`)
			te.write(t, "doc.md", "text\n")
			if tt.envLevel != "" {
				te.vars["MDBUILD_LOGLEVEL"] = tt.envLevel
			}

			if code := runMain(tt.args, te.Environment); code != ExitSuccess {
				t.Fatalf("exit = %d; stderr: %s", code, te.stderr.String())
			}

			log := te.stderr.String()
			if got := strings.Contains(log, "replacing: A => B"); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v; log: %s", got, tt.wantDebug, log)
			}
			if got := strings.Contains(log, "found engine"); got != tt.wantInfo {
				t.Errorf("info output = %v, want %v; log: %s", got, tt.wantInfo, log)
			}
			if got := strings.Contains(log, "build finished"); got != tt.wantSummary {
				t.Errorf("summary = %v, want %v", got, tt.wantSummary)
			}
		})
	}
}
