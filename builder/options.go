package builder

import "log/slog"

// RecordSize selects the bit-width of IP-tree node records, mirroring the
// MaxMind DB record_size metadata field.
type RecordSize int

const (
	RecordSize24Bit RecordSize = 24
	RecordSize28Bit RecordSize = 28
	RecordSize32Bit RecordSize = 32
)

// DuplicatePolicy controls how the Builder reacts when AddPrefix,
// AddLiteral, or AddPattern/AddPatternCI is called twice with the same
// selector.
type DuplicatePolicy int

const (
	// PolicyLastWriteWins overwrites the earlier rule's value and records a
	// warning retrievable via Builder.Warnings.
	PolicyLastWriteWins DuplicatePolicy = iota
	// PolicyReject returns ErrDuplicateSelector from the Add* call instead
	// of overwriting.
	PolicyReject
)

// Options configures Builder's behavior.
type Options struct {
	// RecordSize sets the IP-tree node record width. Default: RecordSize32Bit.
	RecordSize RecordSize

	// DuplicatePolicy controls duplicate-selector handling.
	DuplicatePolicy DuplicatePolicy

	// LiteralSeed seeds the literal index's fingerprint hash. The value is
	// used as given, zero included, and is recorded in the metadata map's
	// literal_seed field so lookups hash queries with the same seed.
	LiteralSeed uint64

	// LiteralCaseInsensitive folds ASCII case for every literal rule and
	// every query against the literal index. The literal index has a
	// single table-wide mode rather than a per-entry flag, so this applies
	// uniformly across all literal rules in the built database.
	LiteralCaseInsensitive bool

	// DatabaseType is stored in the metadata map's database_type field.
	DatabaseType string

	// Languages is stored in the metadata map's languages field.
	Languages []string

	// Logger receives structured diagnostics: a warning for each
	// duplicate-selector overwrite. Build itself logs nothing.
	Logger *slog.Logger
}

// DefaultOptions returns the recommended options for general-purpose
// database construction.
func DefaultOptions() *Options {
	return &Options{
		RecordSize:      RecordSize32Bit,
		DuplicatePolicy: PolicyLastWriteWins,
		DatabaseType:    "matchy",
		Logger:          discardLogger,
	}
}
