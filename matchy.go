package matchy

import (
	"errors"

	"github.com/mxydb/matchy/builder"
	"github.com/mxydb/matchy/router"
	"github.com/mxydb/matchy/valuetree"
)

// Re-exported value constructors, so callers building rule values never
// need to import valuetree directly.
var (
	Uint32  = valuetree.Uint32
	Uint64  = valuetree.Uint64
	Uint128 = valuetree.Uint128
	Int32   = valuetree.Int32
	Double  = valuetree.Double
	String  = valuetree.String
	Bytes   = valuetree.Bytes
	Bool    = valuetree.Bool
	Array   = valuetree.Array
	Map     = valuetree.Map
)

// Value is the typed data attached to a rule's selector.
type Value = valuetree.Value

// MapEntry is one key/value pair of a Map value.
type MapEntry = valuetree.MapEntry

// Builder accumulates IP/CIDR, literal, and glob-pattern rules and
// finalizes them into a single immutable compiled database image.
//
// Example usage:
//
//	b := matchy.NewBuilder(nil)
//	b.AddLiteral("example.com", matchy.String("no-tag"))
//	b.AddPattern("*.example.com", matchy.String("phish"))
//	b.AddPrefix("8.8.8.0/24", matchy.Uint32(15169))
//	image, err := b.Build()
type Builder struct {
	inner *builder.Builder
}

// NewBuilder returns an empty Builder. A nil opts selects
// DefaultBuilderOptions.
func NewBuilder(opts *BuilderOptions) *Builder {
	return &Builder{inner: builder.New(toBuilderOptions(opts))}
}

// AddPrefix registers value under the IP/CIDR prefix parsed from text.
func (b *Builder) AddPrefix(text string, value Value) (uint32, error) {
	id, err := b.inner.AddPrefix(text, value)
	return id, translateBuilderErr(err)
}

// AddLiteral registers value under the exact string text.
func (b *Builder) AddLiteral(text string, value Value) (uint32, error) {
	id, err := b.inner.AddLiteral(text, value)
	return id, translateBuilderErr(err)
}

// AddPattern registers value under a case-sensitive glob pattern.
func (b *Builder) AddPattern(pattern string, value Value) (uint32, error) {
	id, err := b.inner.AddPattern(pattern, value)
	return id, translateBuilderErr(err)
}

// AddPatternCI registers value under an ASCII case-insensitive glob
// pattern.
func (b *Builder) AddPatternCI(pattern string, value Value) (uint32, error) {
	id, err := b.inner.AddPatternCI(pattern, value)
	return id, translateBuilderErr(err)
}

// Warnings returns every duplicate-selector overwrite recorded since
// NewBuilder, in the order they occurred.
func (b *Builder) Warnings() []string { return b.inner.Warnings() }

// Build finalizes every accumulated rule into a single immutable compiled
// database image.
func (b *Builder) Build() ([]byte, error) {
	image, err := b.inner.Build()
	if err != nil {
		return nil, translateBuilderErr(err)
	}
	return image, nil
}

func toBuilderOptions(opts *BuilderOptions) *builder.Options {
	if opts == nil {
		opts = DefaultBuilderOptions()
	}
	policy := builder.PolicyLastWriteWins
	if opts.DuplicatePolicy == PolicyReject {
		policy = builder.PolicyReject
	}
	return &builder.Options{
		RecordSize:             builder.RecordSize(opts.RecordSize),
		DuplicatePolicy:        policy,
		LiteralSeed:            opts.LiteralSeed,
		LiteralCaseInsensitive: opts.LiteralCaseInsensitive,
		DatabaseType:           opts.DatabaseType,
		Languages:              opts.Languages,
		Logger:                 loggerOrDiscard(opts.Logger),
	}
}

// Database is an opened, memory-mapped compiled database handle, safe for
// concurrent queries from multiple goroutines once Open or OpenBytes
// returns successfully.
type Database = router.Database

// Match carries every rule whose selector matched a query.
type Match = router.Match

// Open memory-maps the file at path and validates it into a queryable
// Database. A nil opts selects DefaultOpenOptions.
func Open(path string, opts *OpenOptions) (*Database, error) {
	db, err := router.Open(path, toRouterOptions(opts))
	if err != nil {
		return nil, translateRouterErr(err)
	}
	return db, nil
}

// OpenBytes validates and wraps an in-memory byte image, such as one just
// produced by Builder.Build, without touching the filesystem.
func OpenBytes(image []byte, opts *OpenOptions) (*Database, error) {
	db, err := router.OpenBytes(image, toRouterOptions(opts))
	if err != nil {
		return nil, translateRouterErr(err)
	}
	return db, nil
}

func toRouterOptions(opts *OpenOptions) *router.OpenOptions {
	if opts == nil {
		opts = DefaultOpenOptions()
	}
	return &router.OpenOptions{
		PreFault: opts.PreFault,
		Logger:   loggerOrDiscard(opts.Logger),
	}
}

// translateRouterErr maps router's package-local sentinels to the root
// package's public, typed sentinels, so callers only ever need to compare
// against matchy.Err* with errors.Is regardless of which subpackage a
// failure originated in.
func translateRouterErr(err error) error {
	switch {
	case errors.Is(err, router.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, router.ErrIO):
		return ErrIO
	case errors.Is(err, router.ErrBadMagic):
		return ErrBadMagic
	case errors.Is(err, router.ErrUnsupportedVersion):
		return ErrUnsupportedVersion
	case errors.Is(err, router.ErrCorrupt):
		return ErrCorrupt
	case errors.Is(err, router.ErrInvalidQuery):
		return ErrInvalidQuery
	case errors.Is(err, router.ErrClosed):
		return ErrClosed
	default:
		return err
	}
}

// translateBuilderErr maps builder's package-local sentinels to the root
// package's public, typed sentinels.
func translateBuilderErr(err error) error {
	switch {
	case errors.Is(err, builder.ErrBadPrefix):
		return ErrBadPrefix
	case errors.Is(err, builder.ErrEmptyLiteral):
		return ErrEmptyLiteral
	case errors.Is(err, builder.ErrBadGlob):
		return ErrBadGlob
	case errors.Is(err, builder.ErrDuplicateSelector):
		return ErrDuplicateSelector
	case errors.Is(err, builder.ErrTooLarge):
		return ErrTooLarge
	default:
		return err
	}
}

