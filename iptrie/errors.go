// Package iptrie implements the binary search tree over IP address bits
// described in spec section 4.2: a node has two children, each either
// another node index, a data-section offset, or absent, with longest-prefix
// match resolved by walking address bits MSB-first from the root.
package iptrie

import "errors"

var (
	// ErrCorrupt indicates a node offset, record size, or data-section
	// offset that cannot be trusted: out of bounds, or the walk exceeded
	// the address width without terminating.
	ErrCorrupt = errors.New("iptrie: corrupt tree")
	// ErrUnsupportedRecordSize indicates a record size other than 24, 28,
	// or 32 bits.
	ErrUnsupportedRecordSize = errors.New("iptrie: unsupported record size")
	// ErrTooManyNodes indicates a built tree has more nodes than the
	// chosen record size can address.
	ErrTooManyNodes = errors.New("iptrie: node count exceeds record size capacity")
)
