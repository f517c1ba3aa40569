// Package glob implements the anchored, full-string glob matcher described
// in spec section 4.3: literal runs, `*` (any byte run), `?` (any single
// UTF-8 scalar value), and `[...]`/`[!...]` character classes, with ASCII-
// only case folding and literal-segment extraction for the Aho-Corasick
// prefilter.
package glob

import "errors"

// ErrSyntax indicates a pattern with a dangling escape, an unterminated
// character class, an empty character class, or a class range whose high
// bound precedes its low bound.
var ErrSyntax = errors.New("glob: invalid pattern syntax")
