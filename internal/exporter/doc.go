// Package exporter writes a player's selected game window as a download.
//
// CSVWriter handles plain CSV output with an optional UTF-8 BOM for Excel.
// WriteXLSX builds a two-sheet workbook (Games and Summary) with excelize.
//
// Example usage:
//
//	x := exporter.New(exporter.NewCSVWriter(logger))
//	err := x.Export(w, exporter.FormatXLSX, exporter.WindowExport{
//		Player:  "LeBron James",
//		Rows:    window.Rows,
//		Summary: stats.StatTable(window.Rows, nil),
//	})
package exporter
