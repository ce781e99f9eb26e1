// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
// JSON documents are valid YAML, so settings.json files go through here too.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotMapping     = errors.New("yamlutil: document is not a mapping")
)

// Mapping is an ordered mapping tree. Nested mappings decoded by
// UnmarshalMapping are Mapping values as well.
type Mapping = yaml.MapSlice

// MappingItem is one key/value pair of a Mapping.
type MappingItem = yaml.MapItem

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// UnmarshalOrdered decodes data into a generic value, keeping mapping key
// order by producing Mapping values instead of Go maps.
func UnmarshalOrdered(data []byte) (any, error) {
	var v any
	if err := validateInput(data, &v); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return v, nil
}

// UnmarshalMapping decodes a document whose root must be a mapping.
// An empty mapping document yields an empty, non-nil Mapping.
func UnmarshalMapping(data []byte) (Mapping, error) {
	v, err := UnmarshalOrdered(data)
	if err != nil {
		return nil, err
	}
	m, ok := AsMapping(v)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
	if m == nil {
		m = Mapping{}
	}
	return m, nil
}

// AsMapping reports whether v is an ordered mapping and returns it.
func AsMapping(v any) (Mapping, bool) {
	m, ok := v.(Mapping)
	return m, ok
}
