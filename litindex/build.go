package litindex

import (
	"encoding/binary"

	"github.com/mxydb/matchy/internal/format"
)

// Entry is one literal-to-value binding ready for table placement. Hash is
// computed by Fingerprint over the literal's original bytes; TextOffset and
// TextLen locate those same bytes within the data section the caller
// manages (the literal is stored once there regardless of how many table
// slots a collision chain spans).
type Entry struct {
	Hash        uint64
	TextOffset  uint32
	TextLen     uint32
	ValueOffset uint32
}

// Build packs entries into an open-addressed table with linear probing,
// sized for a load factor no worse than 70%, and returns the table bytes
// together with its slot capacity (always a power of two).
func Build(entries []Entry) ([]byte, uint32, error) {
	capacity := pickCapacity(len(entries))
	table := make([]byte, int(capacity)*format.LiteralEntrySize)
	occupied := make([]bool, capacity)
	mask := capacity - 1

	for _, e := range entries {
		idx := uint32(e.Hash) & mask
		placed := false
		for probe := uint32(0); probe < capacity; probe++ {
			slot := (idx + probe) & mask
			if !occupied[slot] {
				writeEntry(table, slot, e)
				occupied[slot] = true
				placed = true
				break
			}
		}
		if !placed {
			return nil, 0, ErrFull
		}
	}
	return table, capacity, nil
}

func writeEntry(table []byte, slot uint32, e Entry) {
	off := int(slot) * format.LiteralEntrySize
	rec := table[off : off+format.LiteralEntrySize]
	binary.BigEndian.PutUint64(rec[0:8], e.Hash)
	binary.BigEndian.PutUint32(rec[8:12], e.TextOffset)
	binary.BigEndian.PutUint32(rec[12:16], e.TextLen)
	binary.BigEndian.PutUint32(rec[16:20], e.ValueOffset)
	rec[20] = format.LiteralOccupiedSlot
}

// pickCapacity returns the smallest power of two capacity keeping n entries
// at or under a 70% load factor, with a floor of 4 slots.
func pickCapacity(n int) uint32 {
	capacity := uint32(4)
	for float64(n) > 0.7*float64(capacity) {
		capacity *= 2
	}
	return capacity
}
