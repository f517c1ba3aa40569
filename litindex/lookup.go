package litindex

import (
	"encoding/binary"

	"github.com/mxydb/matchy/internal/format"
)

// Lookup probes table for query, verifying each fingerprint-matching
// candidate against the literal bytes stored at TextOffset/TextLen within
// dataSection. seed and caseInsensitive must match the values used to
// Build the table. It returns the entry's value offset and true on an
// exact (or case-folded) match, or false if query is absent.
func Lookup(table []byte, capacity uint32, dataSection []byte, seed uint64, query []byte, caseInsensitive bool) (uint32, bool, error) {
	if capacity == 0 {
		return 0, false, nil
	}
	if int(capacity)*format.LiteralEntrySize > len(table) {
		return 0, false, ErrCorrupt
	}
	mask := capacity - 1
	h := Fingerprint(seed, query, caseInsensitive)
	idx := uint32(h) & mask

	for probe := uint32(0); probe < capacity; probe++ {
		slot := (idx + probe) & mask
		off := int(slot) * format.LiteralEntrySize
		rec := table[off : off+format.LiteralEntrySize]

		switch rec[20] {
		case format.LiteralEmptySlot:
			return 0, false, nil
		case format.LiteralOccupiedSlot:
			entryHash := binary.BigEndian.Uint64(rec[0:8])
			if entryHash != h {
				continue
			}
			textOff := binary.BigEndian.Uint32(rec[8:12])
			textLen := binary.BigEndian.Uint32(rec[12:16])
			valueOff := binary.BigEndian.Uint32(rec[16:20])

			end := int(textOff) + int(textLen)
			if end > len(dataSection) || end < int(textOff) {
				return 0, false, ErrCorrupt
			}
			if equalText(dataSection[textOff:end], query, caseInsensitive) {
				return valueOff, true, nil
			}
		default:
			return 0, false, ErrCorrupt
		}
	}
	return 0, false, nil
}

func equalText(stored, query []byte, caseInsensitive bool) bool {
	if len(stored) != len(query) {
		return false
	}
	if !caseInsensitive {
		for i := range stored {
			if stored[i] != query[i] {
				return false
			}
		}
		return true
	}
	for i := range stored {
		if foldASCII(stored[i]) != foldASCII(query[i]) {
			return false
		}
	}
	return true
}
