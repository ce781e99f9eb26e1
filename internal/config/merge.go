package config

import "github.com/alnah/go-mdbuild/internal/yamlutil"

// Merge applies override on top of base and returns the result. Neither
// input is modified.
//
// The rule is asymmetric:
//
//   - If the override value for a key is a NON-EMPTY mapping, it is merged
//     recursively into the base value. A base value that is absent or not a
//     mapping counts as an empty mapping.
//   - Anything else replaces the base value outright: scalars, sequences,
//     nulls, and EMPTY mappings. An empty mapping is how a user file resets
//     a whole section, e.g. {"replacements": {}} drops every base entry.
//
// Keys keep their base order; keys only present in override are appended
// in override order.
func Merge(base, override yamlutil.Mapping) yamlutil.Mapping {
	out := make(yamlutil.Mapping, len(base), len(base)+len(override))
	copy(out, base)

	for _, item := range override {
		i := indexOf(out, item.Key)
		value := item.Value

		if sub, ok := yamlutil.AsMapping(item.Value); ok && len(sub) > 0 {
			var prev yamlutil.Mapping
			if i >= 0 {
				prev, _ = yamlutil.AsMapping(out[i].Value)
			}
			value = Merge(prev, sub)
		}

		if i >= 0 {
			out[i] = yamlutil.MappingItem{Key: out[i].Key, Value: value}
		} else {
			out = append(out, yamlutil.MappingItem{Key: item.Key, Value: value})
		}
	}
	return out
}

func indexOf(m yamlutil.Mapping, key any) int {
	for i, item := range m {
		if item.Key == key {
			return i
		}
	}
	return -1
}
