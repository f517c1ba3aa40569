package router

import "log/slog"

// OpenOptions controls safety/performance tradeoffs for Open.
type OpenOptions struct {
	// PreFault touches every mapped page during Open, trading startup
	// latency for predictable per-query latency. Default: false.
	PreFault bool

	// Logger receives structured diagnostics (corrupt-node isolation
	// events). Default: discards all output.
	Logger *slog.Logger
}

// DefaultOpenOptions returns the recommended options for opening a database
// that will be queried occasionally rather than benchmarked immediately.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		PreFault: false,
		Logger:   discardLogger,
	}
}
