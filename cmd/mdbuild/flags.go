package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUnexpectedArgs is returned for positional arguments; mdbuild takes none.
var ErrUnexpectedArgs = errors.New("unexpected arguments")

// usageError marks command line errors so they map to ExitUsage.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// cliFlags holds the parsed command line.
type cliFlags struct {
	init    bool
	beamer  bool
	file    string
	config  string
	verbose bool
	quiet   bool
	version bool
	help    bool
}

// newFlagSet declares every flag on a fresh set bound to f.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("mdbuild", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.BoolVarP(&f.init, "init", "i", false, "write a new default settings.json, overwriting any present one")
	fs.BoolVarP(&f.beamer, "beamer", "b", false, "build beamer presentations from slides.json")
	fs.StringVarP(&f.file, "file", "f", "", "build only the given markdown file to PDF")
	fs.StringVarP(&f.config, "config", "c", "", "settings file to use instead of settings.json")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")
	return fs
}

// parseFlags parses args (without the program name).
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, &usageError{err}
	}
	if fs.NArg() > 0 {
		return nil, &usageError{fmt.Errorf("%w: %v", ErrUnexpectedArgs, fs.Args())}
	}
	return f, nil
}
