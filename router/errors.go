// Package router opens a compiled database image and answers lookup
// queries against it: longest-prefix-match for IP addresses, exact match
// for literals, and candidate-then-verify glob matching for patterns, all
// read directly out of a memory-mapped, offset-addressed byte slice.
package router

import "errors"

var (
	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("router: database file not found")
	// ErrIO indicates a read, stat, or mmap system call failed.
	ErrIO = errors.New("router: i/o error")
	// ErrBadMagic indicates the mandatory metadata marker could not be
	// located, or the PARAGLOB magic was present but malformed.
	ErrBadMagic = errors.New("router: bad magic")
	// ErrUnsupportedVersion indicates a PARAGLOB version this package does
	// not understand.
	ErrUnsupportedVersion = errors.New("router: unsupported paraglob version")
	// ErrCorrupt indicates a structural inconsistency: an out-of-bounds
	// offset, a malformed record, a cycle in the failure-link graph. Record
	// alignment is not checked. A Faulted handle also reports ErrCorrupt.
	ErrCorrupt = errors.New("router: corrupt database")
	// ErrInvalidQuery indicates an empty query, or a Match.Get index
	// outside the match.
	ErrInvalidQuery = errors.New("router: invalid query")
	// ErrClosed indicates an operation was attempted on a Closed handle.
	ErrClosed = errors.New("router: database handle is not mapped")
)
