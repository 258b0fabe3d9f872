package testutil

import "log/slog"

// DiscardLogger returns a slog.Logger that discards all output. Use this in
// tests to reduce noise; it is interchangeable with log.NewNop() since
// log.Logger is a type alias for *slog.Logger.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
