// Package builder accumulates IP/CIDR, literal, and glob-pattern rules in
// memory and, on Build, finalizes them into a single immutable compiled
// database image: the mandatory MaxMind-compatible prefix (IP trie, shared
// data section) followed by the optional PARAGLOB suffix (Aho-Corasick
// automaton, literal index, pattern/literal text storage).
package builder

import "errors"

var (
	// ErrBadPrefix indicates an unparseable IP prefix or one with an
	// out-of-range length.
	ErrBadPrefix = errors.New("builder: bad ip prefix")
	// ErrEmptyLiteral indicates an empty literal string was added.
	ErrEmptyLiteral = errors.New("builder: empty literal")
	// ErrBadGlob indicates a glob pattern failed to compile.
	ErrBadGlob = errors.New("builder: malformed glob pattern")
	// ErrDuplicateSelector indicates a selector was already registered and
	// the builder is configured to reject rather than overwrite.
	ErrDuplicateSelector = errors.New("builder: duplicate selector")
	// ErrTooLarge indicates the finalized image would exceed the 4 GiB
	// offset space addressable by 32-bit offsets.
	ErrTooLarge = errors.New("builder: database would exceed 4GiB")
)
