package cmd

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii", "Survey", 10, "Survey"},
		{"exact length", "Survey", 6, "Survey"},
		{"long ascii", "Pipeline Survey", 10, "Pipeline.."},
		{"multibyte kept whole", "Büro Überflug", 13, "Büro Überflug"},
		{"multibyte cut on rune", "Büro Überflug Nord", 8, "Büro Ü.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
