package matchy

import "log/slog"

// RecordSize selects the bit-width of IP-tree node records, mirroring the
// MaxMind DB record_size metadata field.
type RecordSize int

const (
	// RecordSize24Bit packs each child record into 24 bits; sufficient for
	// databases addressing fewer than 2^24 data-section offsets.
	RecordSize24Bit RecordSize = 24
	// RecordSize28Bit packs each child record into 28 bits.
	RecordSize28Bit RecordSize = 28
	// RecordSize32Bit packs each child record into 32 bits; the safe
	// default for databases of unknown eventual size.
	RecordSize32Bit RecordSize = 32
)

// DuplicatePolicy controls how the Builder reacts when add_ip, add_literal,
// or add_pattern is called twice with the same selector.
type DuplicatePolicy int

const (
	// PolicyLastWriteWins overwrites the earlier rule's value and records a
	// warning retrievable via Builder.Warnings. This is the default: it
	// matches a progressive-build workflow where a later pass intentionally
	// refines an earlier one.
	PolicyLastWriteWins DuplicatePolicy = iota
	// PolicyReject returns ErrDuplicateSelector from the add_* call instead
	// of overwriting.
	PolicyReject
)

// BuilderOptions configures Builder's behavior.
type BuilderOptions struct {
	// RecordSize sets the IP-tree node record width. Default: RecordSize32Bit.
	RecordSize RecordSize

	// DuplicatePolicy controls duplicate-selector handling.
	// Default: PolicyLastWriteWins.
	DuplicatePolicy DuplicatePolicy

	// LiteralSeed seeds the literal index's fingerprint hash. The value is
	// used as given, zero included, and is recorded in the metadata map's
	// literal_seed field. Default: 0.
	LiteralSeed uint64

	// LiteralCaseInsensitive folds ASCII case for every literal rule and
	// every query against the literal index. The literal index has a
	// single table-wide mode rather than a per-entry flag, so this applies
	// uniformly across all literal rules in the built database.
	LiteralCaseInsensitive bool

	// DatabaseType is stored in the metadata map's database_type field.
	// Default: "matchy".
	DatabaseType string

	// Languages is stored in the metadata map's languages field.
	Languages []string

	// Logger receives structured diagnostics (a warning for each
	// duplicate-selector overwrite); Build itself logs nothing. Default:
	// discards all output.
	Logger *slog.Logger
}

// DefaultBuilderOptions returns the recommended options for general-purpose
// database construction.
func DefaultBuilderOptions() *BuilderOptions {
	return &BuilderOptions{
		RecordSize:      RecordSize32Bit,
		DuplicatePolicy: PolicyLastWriteWins,
		LiteralSeed:     0,
		DatabaseType:    "matchy",
		Logger:          discardLogger,
	}
}

// OpenOptions controls safety/performance tradeoffs for Open.
type OpenOptions struct {
	// PreFault touches every mapped page during Open, trading startup
	// latency for predictable per-query latency. Default: false (pages
	// fault in lazily on first touch).
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
