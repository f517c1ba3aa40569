package matchy

import (
	"io"
	"log/slog"
)

// discardLogger is the default logger for Options that don't specify one. It
// matches the zero-configuration posture expected of an embedded library:
// callers get structured, leveled diagnostics only if they opt in.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
