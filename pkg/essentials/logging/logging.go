package logging

import (
	"context"
	"encoding/hex"
	"log/slog"
)

const redactedPlaceholder = "[redacted]"

// Logger is the logging interface accepted by protocol code. Arguments follow
// the slog convention: alternating keys and values, or slog.Attr values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger that writes to logger, or to slog.Default() if logger
// is nil.
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{l: logger}
}

type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s slogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s slogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, args...)
}

func (s slogLogger) With(args ...any) Logger { return slogLogger{l: s.l.With(args...)} }

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

// OrNop returns l, or Nop if l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}

type nop struct{}

func (nop) Debug(context.Context, string, ...any) {}
func (nop) Info(context.Context, string, ...any)  {}
func (nop) Warn(context.Context, string, ...any)  {}
func (nop) Error(context.Context, string, ...any) {}
func (nop) With(...any) Logger                    { return nop{} }

// Redacted records that key was deliberately left out of the log. Use it for
// permutations, re-encryption randomness and secret keys.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder is the value every Redacted attribute carries.
func Placeholder() string {
	return redactedPlaceholder
}

// Public hex-encodes public byte material such as commitments, session
// identifiers and digests. Never pass it secret bytes.
func Public(key string, b []byte) slog.Attr {
	return slog.String(key, hex.EncodeToString(b))
}
