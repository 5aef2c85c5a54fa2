// Package logging provides the logging facade used by the protocol layers.
//
// Logger wraps the context-aware subset of log/slog. Two backends are
// provided: New binds to an *slog.Logger, NewZap to a *zap.Logger. Library
// code accepts a Logger and never constructs one itself; a nil Logger is
// replaced with Nop.
//
// Secrets never go to the log. Use Redacted to record that a value was
// deliberately left out:
//
//	logger.Debug(ctx, "shuffled", "round", i, logging.Redacted("permutation"))
//	// round=3 permutation="[redacted]"
package logging
