// Package store keeps a SQLite archive of the game-log snapshot and answers
// the archive queries (distinct player names, a player's games filtered by
// opponent). The archive is built offline by cmd/sqlconvert.
package store
