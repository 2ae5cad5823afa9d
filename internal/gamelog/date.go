package gamelog

import (
	"strings"
	"time"
)

// dateLayouts are the GAME_DATE encodings seen across snapshot generations
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"Mon, Jan 2, 2006",
}

// ParseGameDate parses a GAME_DATE value. The zero time and false are
// returned when no layout matches.
func ParseGameDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayLayout renders dates as "May 21, 2025"
const DisplayLayout = "Jan 2, 2006"

// FormatGameDate renders a GAME_DATE value for display. Unrecognised values
// are returned unchanged.
func FormatGameDate(s string) string {
	t, ok := ParseGameDate(s)
	if !ok {
		return s
	}
	return t.Format(DisplayLayout)
}
