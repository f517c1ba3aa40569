package litindex

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns the 64-bit hash used both to place an entry in the
// table and to locate it again at lookup time. seed is mixed in ahead of
// the text so a single build-time seed (stored in the metadata map's
// literal_seed field)
// determines the table's layout deterministically without needing a
// seeded-hash constructor from the underlying library. When caseInsensitive
// is set, text is ASCII-folded before hashing so a query folded the same
// way lands on the same fingerprint regardless of the literal's original
// casing.
func Fingerprint(seed uint64, text []byte, caseInsensitive bool) uint64 {
	d := xxhash.New()
	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], seed)
	_, _ = d.Write(seedBytes[:])
	if caseInsensitive {
		folded := make([]byte, len(text))
		for i, b := range text {
			folded[i] = foldASCII(b)
		}
		_, _ = d.Write(folded)
	} else {
		_, _ = d.Write(text)
	}
	return d.Sum64()
}

func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}
