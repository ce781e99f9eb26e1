package mdbuild

import (
	"slices"
	"testing"

	"github.com/alnah/go-mdbuild/internal/config"
)

func TestTranslateOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts config.Options
		want []string
	}{
		{"nil", nil, nil},
		{"all false", config.Options{"toc": "False", "lof": "false", "verbose": false}, nil},
		{
			name: "string and bool toggles",
			opts: config.Options{"toc": "True", "lof": "false", "numbered_headings": true},
			want: []string{"--variable", "toc", "-N"},
		},
		{
			name: "fixed order regardless of map order",
			opts: config.Options{"numbered_headings": "TRUE", "verbose": "true", "lot": "True", "lof": "True", "toc": "True"},
			want: []string{"--variable", "toc", "--variable", "lof", "--variable", "lot", "--verbose", "-N"},
		},
		{"substring match", config.Options{"toc": "yes, true"}, []string{"--variable", "toc"}},
		{"null value", config.Options{"toc": nil}, nil},
		{"unknown toggle ignored", config.Options{"pagebreaks": "True"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TranslateOptions(tt.opts); !slices.Equal(got, tt.want) {
				t.Errorf("TranslateOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}
