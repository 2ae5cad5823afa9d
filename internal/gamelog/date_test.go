package gamelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseGameDate(t *testing.T) {
	want := time.Date(2025, time.May, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		ok    bool
	}{
		{"2025-05-21T00:00:00", true},
		{"2025-05-21", true},
		{"2025-05-21 00:00:00", true},
		{"05/21/2025", true},
		{"5/21/2025", true},
		{"May 21, 2025", true},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseGameDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestFormatGameDate(t *testing.T) {
	assert.Equal(t, "May 21, 2025", FormatGameDate("2025-05-21T00:00:00"))
	assert.Equal(t, "Jan 3, 2024", FormatGameDate("01/03/2024"))
	assert.Equal(t, "TBD", FormatGameDate("TBD"))
}
