// Package shared holds helpers used by more than one package. Test support
// lives in testutil: a capturing slog handler and CSV fixture builders.
package shared
