// Package ahocorasick implements the offset-addressed Aho-Corasick
// automaton described in spec section 4.4: a flat, memory-mappable node
// array with sorted edge arrays for binary-search goto lookups, failure
// links precomputed breadth-first at build time, and linear-time scanning
// that appends matched pattern IDs into a caller-supplied buffer.
package ahocorasick

import "errors"

var (
	// ErrCorrupt indicates an offset outside the section, a non-root node
	// missing its failure link, or a failure-link chain that does not
	// terminate at the root within the node count's worth of hops.
	ErrCorrupt = errors.New("ahocorasick: corrupt automaton")
)
