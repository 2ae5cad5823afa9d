package exporter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"nbadash/internal/gamelog"
	"nbadash/internal/stats"
)

// WindowExport is one player's selected window ready for download
type WindowExport struct {
	Player  string
	Season  string
	Rows    []gamelog.Row
	Summary []stats.StatSummary
}

var identityColumns = []string{
	gamelog.ColGameID, gamelog.ColGameDate, gamelog.ColSeasonYear,
	gamelog.ColTeam, gamelog.ColMatchup, gamelog.ColWinLoss,
}

// Headers returns the export column layout
func Headers() []string {
	h := make([]string, 0, len(identityColumns)+len(gamelog.StatColumns))
	h = append(h, identityColumns...)
	return append(h, gamelog.StatColumns...)
}

func identity(r gamelog.Row) []string {
	return []string{r.GameID, r.GameDate, r.SeasonYear, r.Team, r.Matchup, string(r.WinLoss)}
}

func rowToRecord(r gamelog.Row) []string {
	record := identity(r)
	for _, col := range gamelog.StatColumns {
		if v, ok := r.Stat(col); ok {
			record = append(record, formatStat(&v))
		} else {
			record = append(record, "")
		}
	}
	return record
}

// Records converts the window rows to CSV records
func (e WindowExport) Records() [][]string {
	out := make([][]string, len(e.Rows))
	for i, r := range e.Rows {
		out[i] = rowToRecord(r)
	}
	return out
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// FileName builds a download name such as "lebron_james_2023-24.csv"
func (e WindowExport) FileName(f Format) string {
	base := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(e.Player), "_"), "_")
	if base == "" {
		base = "player"
	}
	if e.Season != "" && e.Season != stats.AllSeasons {
		base += "_" + strings.Trim(unsafeFileChars.ReplaceAllString(e.Season, "-"), "-")
	}
	return base + f.Extension()
}

// Exporter writes window exports in the supported formats
type Exporter struct {
	csv *CSVWriter
}

// New creates an Exporter
func New(csv *CSVWriter) *Exporter {
	return &Exporter{csv: csv}
}

// Export writes the window to w in the given format
func (x *Exporter) Export(w io.Writer, f Format, e WindowExport) error {
	switch f {
	case FormatCSV:
		return x.csv.Write(w, WriteOptions{
			Headers:   Headers(),
			Records:   e.Records(),
			BOMPrefix: true,
		})
	case FormatXLSX:
		return WriteXLSX(w, e)
	}
	return fmt.Errorf("unsupported export format %q", f)
}
