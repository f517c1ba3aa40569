package litindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTable packs literal strings against a shared data section and
// returns the table image, its capacity, and the data section bytes.
func buildTable(t *testing.T, seed uint64, caseInsensitive bool, literals []string, valueOffsets []uint32) ([]byte, uint32, []byte) {
	t.Helper()
	require.Equal(t, len(literals), len(valueOffsets))

	var data []byte
	entries := make([]Entry, 0, len(literals))
	for i, lit := range literals {
		off := uint32(len(data))
		data = append(data, lit...)
		entries = append(entries, Entry{
			Hash:        Fingerprint(seed, []byte(lit), caseInsensitive),
			TextOffset:  off,
			TextLen:     uint32(len(lit)),
			ValueOffset: valueOffsets[i],
		})
	}

	table, capacity, err := Build(entries)
	require.NoError(t, err)
	return table, capacity, data
}

func TestLookup_ExactHit(t *testing.T) {
	table, capacity, data := buildTable(t, 7, false, []string{"alpha", "beta", "gamma"}, []uint32{10, 20, 30})

	off, ok, err := Lookup(table, capacity, data, 7, []byte("beta"), false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(20), off)
}

func TestLookup_Miss(t *testing.T) {
	table, capacity, data := buildTable(t, 7, false, []string{"alpha", "beta"}, []uint32{1, 2})

	_, ok, err := Lookup(table, capacity, data, 7, []byte("delta"), false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLookup_ResolvesCollisionChain(t *testing.T) {
	// Four literals in the eight-slot table Build sizes for them, so home
	// slots are likely to collide; whether one does depends on the
	// fingerprints. Every literal must be found either way.
	const seed = 99
	literals := []string{"one", "two", "three", "four"}
	var data []byte
	entries := make([]Entry, 0, len(literals))
	for i, lit := range literals {
		off := uint32(len(data))
		data = append(data, lit...)
		entries = append(entries, Entry{
			Hash:        Fingerprint(seed, []byte(lit), false),
			TextOffset:  off,
			TextLen:     uint32(len(lit)),
			ValueOffset: uint32(100 + i),
		})
	}
	table, capacity, err := Build(entries)
	require.NoError(t, err)

	for i, lit := range literals {
		off, ok, err := Lookup(table, capacity, data, seed, []byte(lit), false)
		require.NoError(t, err)
		require.True(t, ok, "literal %q should be found", lit)
		require.Equal(t, uint32(100+i), off)
	}
}

func TestLookup_CaseInsensitiveMatch(t *testing.T) {
	table, capacity, data := buildTable(t, 3, true, []string{"Example.COM"}, []uint32{5})

	off, ok, err := Lookup(table, capacity, data, 3, []byte("example.com"), true)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(5), off)
}

func TestLookup_CaseSensitiveMismatch(t *testing.T) {
	table, capacity, data := buildTable(t, 3, false, []string{"Example.COM"}, []uint32{5})

	_, ok, err := Lookup(table, capacity, data, 3, []byte("example.com"), false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLookup_CorruptTextOffset(t *testing.T) {
	table, capacity, data := buildTable(t, 1, false, []string{"onlyone"}, []uint32{1})

	// Truncate the data section so the stored entry's text range runs
	// past the end of what the caller actually supplies.
	_, _, err := Lookup(table, capacity, data[:2], 1, []byte("onlyone"), false)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLookup_CorruptSlotByte(t *testing.T) {
	table, capacity, data := buildTable(t, 1, false, []string{"x"}, []uint32{1})

	h := Fingerprint(1, []byte("x"), false)
	slot := uint32(h) & (capacity - 1)
	off := int(slot) * 24
	table[off+20] = 0xAB // neither empty nor occupied

	_, _, err := Lookup(table, capacity, data, 1, []byte("x"), false)
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestLookup_EmptyTable(t *testing.T) {
	off, ok, err := Lookup(nil, 0, nil, 0, []byte("anything"), false)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, uint32(0), off)
}

func TestBuild_ErrFullNeverOccursWithinLoadFactor(t *testing.T) {
	entries := make([]Entry, 0, 100)
	for i := 0; i < 100; i++ {
		entries = append(entries, Entry{Hash: uint64(i) * 2654435761, ValueOffset: uint32(i)})
	}
	_, capacity, err := Build(entries)
	require.NoError(t, err)
	require.GreaterOrEqual(t, float64(capacity), float64(len(entries))/0.7)
}
