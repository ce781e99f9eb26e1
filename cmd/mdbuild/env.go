package main

import (
	"io"
	"os"

	mdbuild "github.com/alnah/go-mdbuild"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, the process environment, and command execution.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Runner  mdbuild.CommandRunner
	WorkDir string // Settings files, sources, and outputs are relative to it
	Getenv  func(string) string
	Environ func() []string
}

// DefaultEnv returns the production environment rooted at the current
// working directory.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Runner:  &mdbuild.ExecRunner{},
		WorkDir: ".",
		Getenv:  os.Getenv,
		Environ: os.Environ,
	}
}
