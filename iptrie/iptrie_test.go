package iptrie

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mxydb/matchy/internal/format"
)

func mustPrefix(t *testing.T, s string) netip.Prefix {
	t.Helper()
	p, err := netip.ParsePrefix(s)
	require.NoError(t, err)
	return p
}

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}

func TestLongestPrefixMatch_SingleV4Prefix(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "10.0.0.0/8"), 42)

	img, err := b.Finalize(format.RecordSize24)
	require.NoError(t, err)

	off, plen, ok, err := LongestPrefixMatch(img, format.RecordSize24, uint32(b.NodeCount()), mustAddr(t, "10.1.2.3"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(42), off)
	require.Equal(t, format.IPv4InIPv6PrefixBits+8, plen)

	_, _, ok, err = LongestPrefixMatch(img, format.RecordSize24, uint32(b.NodeCount()), mustAddr(t, "11.0.0.1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLongestPrefixMatch_MoreSpecificOverride(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "8.8.8.0/24"), 100)
	b.Insert(mustPrefix(t, "8.8.8.8/32"), 200)

	for _, rs := range []int{format.RecordSize24, format.RecordSize28, format.RecordSize32} {
		img, err := b.Finalize(rs)
		require.NoError(t, err)

		off, plen, ok, err := LongestPrefixMatch(img, rs, uint32(b.NodeCount()), mustAddr(t, "8.8.8.8"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint32(200), off)
		require.Equal(t, format.IPv4InIPv6PrefixBits+32, plen)

		off, plen, ok, err = LongestPrefixMatch(img, rs, uint32(b.NodeCount()), mustAddr(t, "8.8.8.9"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint32(100), off)
		require.Equal(t, format.IPv4InIPv6PrefixBits+24, plen)
	}
}

func TestLongestPrefixMatch_IPv6(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "2001:db8::/32"), 7)

	img, err := b.Finalize(format.RecordSize32)
	require.NoError(t, err)

	off, plen, ok, err := LongestPrefixMatch(img, format.RecordSize32, uint32(b.NodeCount()), mustAddr(t, "2001:db8::1"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(7), off)
	require.Equal(t, 32, plen)

	_, _, ok, err = LongestPrefixMatch(img, format.RecordSize32, uint32(b.NodeCount()), mustAddr(t, "2001:db9::1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLongestPrefixMatch_IPv4MappedEquivalence(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "192.168.0.0/16"), 9)
	img, err := b.Finalize(format.RecordSize24)
	require.NoError(t, err)

	offV4, _, okV4, err := LongestPrefixMatch(img, format.RecordSize24, uint32(b.NodeCount()), mustAddr(t, "192.168.1.1"))
	require.NoError(t, err)
	offMapped, _, okMapped, err := LongestPrefixMatch(img, format.RecordSize24, uint32(b.NodeCount()), mustAddr(t, "::ffff:192.168.1.1"))
	require.NoError(t, err)

	require.Equal(t, okV4, okMapped)
	require.Equal(t, offV4, offMapped)
}

func TestFinalize_RejectsUnsupportedRecordSize(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "10.0.0.0/8"), 1)
	_, err := b.Finalize(20)
	require.ErrorIs(t, err, ErrUnsupportedRecordSize)
}

func TestLongestPrefixMatch_CorruptNodeIndex(t *testing.T) {
	b := NewBuilder()
	b.Insert(mustPrefix(t, "10.0.0.0/8"), 1)
	img, err := b.Finalize(format.RecordSize24)
	require.NoError(t, err)

	_, _, _, err = LongestPrefixMatch(img, format.RecordSize24, 0, mustAddr(t, "10.0.0.1"))
	require.ErrorIs(t, err, ErrCorrupt)
}
