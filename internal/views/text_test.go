package views_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/grove/internal/views"
)

func TestInsertNewline(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		start, end int
		want       string
		caret      int
	}{
		{"caret at end", "line1", 5, 5, "line1\n", 6},
		{"caret in middle", "line1line2", 5, 5, "line1\nline2", 6},
		{"replaces selection", "abcXYZdef", 3, 6, "abc\ndef", 4},
		{"reversed selection", "abcXYZdef", 6, 3, "abc\ndef", 4},
		{"clamped", "ab", -3, 10, "\n", 1},
		{"runes not bytes", "héllo", 2, 2, "hé\nllo", 3},
		{"empty", "", 0, 0, "\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, caret := views.InsertNewline(tt.value, tt.start, tt.end)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.caret, caret)
		})
	}
}
