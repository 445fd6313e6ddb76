package ai

import "sync/atomic"

// debugLogging gates per-decision and per-log-line debug output of battles.
// Checked on the hot path instead of querying the slog handler level.
var debugLogging atomic.Bool

// EnableDebugLogging switches decision tracing on or off. Called once from main
// after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLogging.Store(enabled)
}

// IsDebugEnabled reports whether decision tracing is on.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("opponent decision", "roll", roll)
//	}
func IsDebugEnabled() bool {
	return debugLogging.Load()
}
