package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alnah/go-mdbuild/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrInvalidField     = errors.New("invalid config field")
	ErrJobFieldMissing  = errors.New("job field missing")
	ErrEmptyConfigPath  = errors.New("config path cannot be empty")
	errUnexpectedFormat = errors.New("unexpected value type")
)

// Default file names, resolved against the working directory.
const (
	SettingsFile     = "settings.json"
	SlidesFile       = "slides.json"
	UserSettingsFile = "user_settings.json"
)

// Config holds the settings of one build run.
type Config struct {
	Replacements Replacements `yaml:"-" json:"replacements"`
	Variables    Variables    `yaml:"-" json:"variables"`
	Extensions   []string     `yaml:"extensions" json:"extensions"`
	Options      Options      `yaml:"options" json:"options"`
	LogLevel     string       `yaml:"loglevel" json:"loglevel"`
	Files        []Job        `yaml:"files" json:"files"`
}

// Job declares one source document and the artifact built from it.
type Job struct {
	InFile   string `yaml:"in_file" json:"in_file"`
	OutFile  string `yaml:"out_file" json:"out_file"`
	Template string `yaml:"template" json:"template,omitempty"` // Empty = default for the output kind
}

// Validate reports the first missing mandatory job field.
// A missing template is not an error.
func (j Job) Validate() error {
	if j.InFile == "" {
		return fmt.Errorf("%w: in_file", ErrJobFieldMissing)
	}
	if j.OutFile == "" {
		return fmt.Errorf("%w: out_file (in_file %s)", ErrJobFieldMissing, j.InFile)
	}
	return nil
}

// Replacement is one literal substitution.
type Replacement struct {
	Old string
	New string
}

// Replacements is an ordered substitution table. Order is significant:
// a later entry sees the output of every earlier one.
type Replacements []Replacement

// Variables are "key=value" strings handed to the engine, in order.
type Variables []string

// Options holds the named feature toggles ("toc", "lof", ...).
// Values are usually the strings "True"/"False" but booleans are accepted.
type Options map[string]any

// Lookup returns the string form of an option and whether it is set.
// A missing key or a null value is reported as not set.
func (o Options) Lookup(name string) (string, bool) {
	v, ok := o[name]
	if !ok || v == nil {
		return "", false
	}
	return scalarString(v), true
}

// knownLogLevels accepts both Python-style and zerolog level names.
var knownLogLevels = map[string]bool{
	"": true, "trace": true, "debug": true, "info": true, "warn": true, "warning": true,
	"error": true, "critical": true, "fatal": true, "disabled": true,
}

// Validate checks fields whose bad values would only surface later as
// confusing engine errors.
func (c *Config) Validate() error {
	if !knownLogLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))] {
		return fmt.Errorf("%w: loglevel %q", ErrInvalidField, c.LogLevel)
	}
	for i, ext := range c.Extensions {
		if ext == "" || strings.ContainsAny(ext, " \t+-") {
			return fmt.Errorf("%w: extensions[%d] %q (must be a bare extension name)", ErrInvalidField, i, ext)
		}
	}
	return nil
}

// ReadTree reads a settings file into an ordered mapping tree.
func ReadTree(path string) (yamlutil.Mapping, error) {
	if path == "" {
		return nil, ErrEmptyConfigPath
	}

	data, err := os.ReadFile(path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	tree, err := yamlutil.UnmarshalMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return tree, nil
}

// Decode turns a mapping tree into a validated Config.
func Decode(tree yamlutil.Mapping) (*Config, error) {
	var cfg Config

	// Plain fields go through the YAML decoder; the ordered tables are read
	// straight from the tree since Go maps would lose their order.
	if plain := without(tree, "replacements", "variables"); len(plain) > 0 {
		data, err := yamlutil.Marshal(plain)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		if err := yamlutil.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	var err error
	if cfg.Replacements, err = decodeReplacements(lookup(tree, "replacements")); err != nil {
		return nil, fmt.Errorf("%w: replacements: %v", ErrConfigParse, err)
	}
	if cfg.Variables, err = decodeVariables(lookup(tree, "variables")); err != nil {
		return nil, fmt.Errorf("%w: variables: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and decodes a single settings file.
func Load(path string) (*Config, error) {
	tree, err := ReadTree(path)
	if err != nil {
		return nil, err
	}
	return Decode(tree)
}

// LoadWithOverride reads the base settings file and merges the optional
// override file on top of it (see Merge). A missing override is not an
// error; overridden reports whether one was applied.
func LoadWithOverride(path, overridePath string) (cfg *Config, overridden bool, err error) {
	tree, err := ReadTree(path)
	if err != nil {
		return nil, false, err
	}

	override, err := ReadTree(overridePath)
	switch {
	case err == nil:
		tree = Merge(tree, override)
		overridden = true
	case errors.Is(err, ErrConfigNotFound):
		// optional
	default:
		return nil, false, err
	}

	cfg, err = Decode(tree)
	if err != nil {
		return nil, false, err
	}
	return cfg, overridden, nil
}

func lookup(tree yamlutil.Mapping, key string) any {
	for _, item := range tree {
		if item.Key == key {
			return item.Value
		}
	}
	return nil
}

func without(tree yamlutil.Mapping, keys ...string) yamlutil.Mapping {
	out := make(yamlutil.Mapping, 0, len(tree))
	for _, item := range tree {
		if k, ok := item.Key.(string); ok && slices.Contains(keys, k) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func decodeReplacements(v any) (Replacements, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := yamlutil.AsMapping(v)
	if !ok {
		return nil, fmt.Errorf("%w: want mapping, got %T", errUnexpectedFormat, v)
	}
	out := make(Replacements, 0, len(m))
	for _, item := range m {
		out = append(out, Replacement{Old: scalarString(item.Key), New: scalarString(item.Value)})
	}
	return out, nil
}

// decodeVariables accepts a sequence of "key=value" strings or the older
// mapping form, which is flattened in document order.
func decodeVariables(v any) (Variables, error) {
	switch vars := v.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make(Variables, 0, len(vars))
		for _, item := range vars {
			out = append(out, scalarString(item))
		}
		return out, nil
	case yamlutil.Mapping:
		out := make(Variables, 0, len(vars))
		for _, item := range vars {
			out = append(out, scalarString(item.Key)+"="+scalarString(item.Value))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: want sequence or mapping, got %T", errUnexpectedFormat, v)
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
