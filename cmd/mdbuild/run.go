package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	mdbuild "github.com/alnah/go-mdbuild"
	"github.com/alnah/go-mdbuild/internal/config"
	"github.com/alnah/go-mdbuild/internal/fileutil"
	"github.com/alnah/go-mdbuild/internal/hints"
)

// run executes one invocation. The logger's level is raised or lowered once
// the settings are known. Failed jobs are logged by the builder and do not
// make run fail; only setup errors and cancellation do.
func run(ctx context.Context, f *cliFlags, env *Environment, logger *zerolog.Logger) error {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), *logger)

	if f.init {
		return runInit(env, *logger)
	}

	cfg, err := loadSettings(f, envCfg, env, *logger)
	if err != nil {
		return err
	}
	*logger = logger.Level(resolveLevel(f, envCfg.LogLevel, cfg.LogLevel, *logger))

	jobs := cfg.Files
	if f.file != "" {
		jobs = []config.Job{singleFileJob(f.file)}
	}
	if len(jobs) == 0 {
		logger.Warn().Msg("no files to build; add jobs to the settings or pass --file")
		return nil
	}

	engine, err := mdbuild.DetectEngine(ctx, env.Runner, envCfg.Engine, *logger)
	if err != nil {
		if errors.Is(err, mdbuild.ErrEngineNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForEngineNotFound())
		}
		return err
	}

	builder := mdbuild.NewBuilder(cfg, engine,
		mdbuild.WithLogger(*logger),
		mdbuild.WithWorkDir(env.WorkDir),
	)
	return builder.Run(ctx, jobs, f.beamer).Err
}

// runInit writes the default settings file seeded from the working directory.
func runInit(env *Environment, logger zerolog.Logger) error {
	logger.Info().Msgf("setting up new %s", config.SettingsFile)
	if fileutil.FileExists(filepath.Join(env.WorkDir, config.SettingsFile)) {
		logger.Warn().Msgf("overwriting existing %s", config.SettingsFile)
	}

	path, cfg, err := config.Init(env.WorkDir)
	if err != nil {
		return fmt.Errorf("writing default settings: %w", err)
	}
	logger.Info().Msgf("wrote %s with %d files; review it before building", path, len(cfg.Files))
	return nil
}

// loadSettings reads the settings file for the mode. The default mode also
// applies user_settings.json when present; beamer mode never does.
func loadSettings(f *cliFlags, envCfg *envConfig, env *Environment, logger zerolog.Logger) (*config.Config, error) {
	name := settingsFile(f, envCfg)
	path := inWorkDir(env.WorkDir, name)
	logger.Info().Msgf("reading %s", name)

	var (
		cfg *config.Config
		err error
	)
	if f.beamer {
		cfg, err = config.Load(path)
	} else {
		var overridden bool
		cfg, overridden, err = config.LoadWithOverride(path, inWorkDir(env.WorkDir, config.UserSettingsFile))
		if overridden {
			logger.Info().Msgf("applied %s", config.UserSettingsFile)
		}
	}

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(name))
	case errors.Is(err, config.ErrConfigParse):
		return nil, fmt.Errorf("%w%s", err, hints.ForConfigParse())
	case err != nil:
		return nil, err
	}
	return cfg, nil
}

// settingsFile returns the settings file name: --config, then
// MDBUILD_CONFIG, then the mode's default.
func settingsFile(f *cliFlags, envCfg *envConfig) string {
	switch {
	case f.config != "":
		return f.config
	case envCfg.ConfigPath != "":
		return envCfg.ConfigPath
	case f.beamer:
		return config.SlidesFile
	default:
		return config.SettingsFile
	}
}

// singleFileJob builds path to a PDF next to it with the default template.
func singleFileJob(path string) config.Job {
	return config.Job{
		InFile:   path,
		OutFile:  fileutil.ReplaceExt(path, ".pdf"),
		Template: config.DefaultTemplate,
	}
}

func inWorkDir(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
