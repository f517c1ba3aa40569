package ahocorasick

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildClassic(t *testing.T) ([]byte, uint32, map[uint32]string) {
	t.Helper()
	patterns := map[uint32]string{
		0: "he",
		1: "she",
		2: "his",
		3: "hers",
	}
	b := NewBuilder()
	for id, lit := range patterns {
		b.AddPattern([]byte(lit), id)
	}
	nodeCount := uint32(b.NodeCount())
	img, err := b.Finalize()
	require.NoError(t, err)
	return img, nodeCount, patterns
}

func idsOf(ids []uint32, patterns map[uint32]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, patterns[id])
	}
	sort.Strings(out)
	return out
}

func TestScan_ClassicExample(t *testing.T) {
	img, nodeCount, patterns := buildClassic(t)

	ids, err := Scan(img, nodeCount, []byte("ushers"), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"he", "hers", "she"}, idsOf(ids, patterns))
}

func TestScan_NoMatch(t *testing.T) {
	img, nodeCount, _ := buildClassic(t)
	ids, err := Scan(img, nodeCount, []byte("xyz"), nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestScan_ReusesOutputBuffer(t *testing.T) {
	img, nodeCount, patterns := buildClassic(t)
	buf := make([]uint32, 0, 8)
	buf, err := Scan(img, nodeCount, []byte("ushers"), buf)
	require.NoError(t, err)
	require.Equal(t, []string{"he", "hers", "she"}, idsOf(buf, patterns))
}

func TestScan_SinglePatternAtBoundary(t *testing.T) {
	b := NewBuilder()
	b.AddPattern([]byte("abc"), 42)
	nodeCount := uint32(b.NodeCount())
	img, err := b.Finalize()
	require.NoError(t, err)

	ids, err := Scan(img, nodeCount, []byte("xxabcxx"), nil)
	require.NoError(t, err)
	require.Equal(t, []uint32{42}, ids)

	ids, err = Scan(img, nodeCount, []byte("ab"), nil)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestScan_CorruptTruncatedData(t *testing.T) {
	img, nodeCount, _ := buildClassic(t)
	_, err := Scan(img[:5], nodeCount, []byte("ushers"), nil)
	require.ErrorIs(t, err, ErrCorrupt)
}
