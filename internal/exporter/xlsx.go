package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"nbadash/internal/gamelog"
)

const (
	gamesSheet   = "Games"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Games sheet holding the window rows and
// a Summary sheet holding the stat table. Null stats are left blank.
func WriteXLSX(w io.Writer, e WindowExport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gamesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRow(f, gamesSheet, 1, toCells(Headers())); err != nil {
		return err
	}
	for i, r := range e.Rows {
		if err := writeRow(f, gamesSheet, i+2, gameCells(r)); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(gamesSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := writeRow(f, summarySheet, 1, toCells([]string{"STAT", "COUNT", "MEAN", "VARIANCE", "STD", "MIN", "MAX"})); err != nil {
		return err
	}
	for i, s := range e.Summary {
		cells := []interface{}{s.Key, s.Count, s.Mean, s.Variance, s.Std, s.Min, s.Max}
		if err := writeRow(f, summarySheet, i+2, cells); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func gameCells(r gamelog.Row) []interface{} {
	cells := toCells(identity(r))
	for _, col := range gamelog.StatColumns {
		if v, ok := r.Stat(col); ok {
			cells = append(cells, v)
		} else {
			cells = append(cells, nil)
		}
	}
	return cells
}
