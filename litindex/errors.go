// Package litindex implements the open-addressed literal lookup table
// described in spec section 4.5: 64-bit fingerprints over a densely packed
// entry array, linear probing on collision, and a byte-for-byte (or
// ASCII-case-folded) verification of the stored literal against the query.
package litindex

import "errors"

var (
	// ErrCorrupt indicates a table slot or literal-text offset that cannot
	// be trusted: out of bounds, or an occupied byte other than empty/occupied.
	ErrCorrupt = errors.New("litindex: corrupt table")
	// ErrFull indicates Build was asked to pack more entries than the
	// chosen table capacity can hold at an acceptable load factor.
	ErrFull = errors.New("litindex: table capacity exceeded")
)
