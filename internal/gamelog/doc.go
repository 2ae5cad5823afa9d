// Package gamelog turns the game-log CSV snapshot into a typed, immutable
// Table.
//
// Admission rule: a line becomes a Row only when PLAYER_NAME is non-empty and
// PTS parses to a finite number. Everything else is dropped without error.
// Optional stats that are empty or non-numeric become nil.
//
// The player index keeps, for each distinct name, the last row seen in file
// order. Its iteration order is the order in which names first appeared.
package gamelog
