// Package stats computes the dashboard's aggregates over windows of game
// rows: descriptive summaries, Pearson correlation, the matched-game join and
// the window selection rules of the chart and compare views.
//
// Every function is pure. Callers recompute on each selection change.
package stats
