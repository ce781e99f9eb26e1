package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Parse flags first to know whether maxprocs may log.
	verbose := false
	if f, err := parseFlags(os.Args[1:]); err == nil {
		verbose = f.verbose
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		logger := newLogger(env.Stderr, noColor(env)).Level(zerolog.DebugLevel)
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			logger.Debug().Msgf(format, args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(runMain(os.Args[1:], env))
}

// runMain runs the CLI with args (without the program name) and returns the
// process exit code.
func runMain(args []string, env *Environment) int {
	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	if f.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if f.version {
		fmt.Fprintf(env.Stdout, "mdbuild %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, noColor(env)).Level(flagLevel(f))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, f, env, &logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("interrupted")
		} else {
			logger.WithLevel(zerolog.FatalLevel).Msg(err.Error())
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func noColor(env *Environment) bool {
	return env.Getenv("NO_COLOR") != ""
}
