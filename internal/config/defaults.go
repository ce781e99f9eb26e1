package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdbuild/internal/fileutil"
)

// DefaultTemplate is the template written into jobs generated by Init and
// used for single-file builds.
const DefaultTemplate = "default.latex"

// filePermissions for generated settings files: rw-r--r--.
const filePermissions = 0o644

// Default returns the starter configuration: a KOMA-Script article set in
// Linux Libertine, numbered headings and a table of contents, with one PDF
// job per markdown file found in dir.
func Default(dir string) (*Config, error) {
	names, err := fileutil.ListByExt(dir, ".md")
	if err != nil {
		return nil, err
	}

	files := make([]Job, 0, len(names))
	for _, name := range names {
		files = append(files, Job{
			InFile:   name,
			OutFile:  fileutil.ReplaceExt(name, ".pdf"),
			Template: DefaultTemplate,
		})
	}

	return &Config{
		Replacements: Replacements{},
		Variables: Variables{
			"lang=de-CH",
			"papersize=A4",
			"fontsize=10pt",
			"documentclass=scrartcl",
			"mainfont=Linux Libertine O",
			"mainfontoptions=Numbers=OldStyle",
			"mainfontoptions=Ligatures=Discretionary",
			"sansfont=Linux Biolinum",
			"sansfontoptions=Numbers=OldStyle",
			"urlcolor=blue",
		},
		Extensions: []string{"yaml_metadata_block"},
		Options: Options{
			"numbered_headings": "True",
			"toc":               "True",
			"lof":               "False",
			"lot":               "False",
			"verbose":           "False",
		},
		LogLevel: "INFO",
		Files:    files,
	}, nil
}

// Init writes a fresh settings.json into dir, overwriting any existing one,
// and returns its path together with the written configuration.
func Init(dir string) (string, *Config, error) {
	cfg, err := Default(dir)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(dir, SettingsFile)
	if err := Write(path, cfg); err != nil {
		return "", nil, err
	}
	return path, cfg, nil
}

// Write stores cfg as indented JSON.
func Write(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// MarshalJSON encodes the table as a JSON object in table order.
func (r Replacements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rep := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rep.Old)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(rep.New)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
