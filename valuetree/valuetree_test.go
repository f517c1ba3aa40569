package valuetree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_Scalars(t *testing.T) {
	cases := []Value{
		Uint32(42),
		Uint64(1 << 40),
		Uint128(0x1122334455667788, 0x99aabbccddeeff00),
		Int32(-7),
		Double(3.14159),
		Bool(true),
		Bool(false),
		String(""),
		String("hello, world"),
		Bytes([]byte{0xde, 0xad, 0xbe, 0xef}),
	}
	for _, v := range cases {
		e := NewEncoder()
		off, err := e.Put(v)
		require.NoError(t, err)
		got, err := Decode(e.Bytes(), off)
		require.NoError(t, err)
		require.True(t, v.Equal(got), "round-trip mismatch for %v", v.Kind())
	}
}

func TestEncodeDecode_ArrayAndMap(t *testing.T) {
	v := Map(
		MapEntry{Key: "tag", Val: String("phish")},
		MapEntry{Key: "scores", Val: Array(Uint32(1), Uint32(2), Uint32(3))},
		MapEntry{Key: "edge", Val: Bool(true)},
	)
	e := NewEncoder()
	off, err := e.Put(v)
	require.NoError(t, err)

	got, err := Decode(e.Bytes(), off)
	require.NoError(t, err)
	require.True(t, v.Equal(got))
}

func TestEncode_DeduplicatesIdenticalStrings(t *testing.T) {
	e := NewEncoder()
	off1, err := e.Put(String("shared"))
	require.NoError(t, err)
	sizeAfterFirst := e.Len()

	off2, err := e.Put(String("shared"))
	require.NoError(t, err)

	require.Equal(t, off1, off2)
	require.Equal(t, sizeAfterFirst, e.Len(), "second Put of an identical string must not grow the buffer")
}

func TestEncode_DeduplicatesIdenticalComposites(t *testing.T) {
	e := NewEncoder()
	a := Array(Uint32(1), Uint32(2))
	off1, err := e.Put(a)
	require.NoError(t, err)
	sizeAfterFirst := e.Len()

	off2, err := e.Put(Array(Uint32(1), Uint32(2)))
	require.NoError(t, err)

	require.Equal(t, off1, off2)
	require.Equal(t, sizeAfterFirst, e.Len())
}

func TestNavigate_MapAndArray(t *testing.T) {
	v := Map(
		MapEntry{Key: "asn", Val: Uint32(15169)},
		MapEntry{Key: "tags", Val: Array(String("cloud"), String("dns"))},
	)
	e := NewEncoder()
	off, err := e.Put(v)
	require.NoError(t, err)

	asnOff, err := Navigate(e.Bytes(), off, "asn")
	require.NoError(t, err)
	asn, err := Decode(e.Bytes(), asnOff)
	require.NoError(t, err)
	n, ok := asn.AsUint32()
	require.True(t, ok)
	require.Equal(t, uint32(15169), n)

	tagOff, err := Navigate(e.Bytes(), off, "tags", 1)
	require.NoError(t, err)
	tag, err := Decode(e.Bytes(), tagOff)
	require.NoError(t, err)
	s, ok := tag.AsString()
	require.True(t, ok)
	require.Equal(t, "dns", s)
}

func TestNavigate_NotFoundAndPathType(t *testing.T) {
	v := Map(MapEntry{Key: "a", Val: Uint32(1)})
	e := NewEncoder()
	off, err := e.Put(v)
	require.NoError(t, err)

	_, err = Navigate(e.Bytes(), off, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = Navigate(e.Bytes(), off, "a", "further")
	require.ErrorIs(t, err, ErrPathType)

	_, err = Navigate(e.Bytes(), off, 0)
	require.ErrorIs(t, err, ErrPathType)
}

func TestEqual_MapOrderMatters(t *testing.T) {
	a := Map(MapEntry{Key: "x", Val: Uint32(1)}, MapEntry{Key: "y", Val: Uint32(2)})
	b := Map(MapEntry{Key: "y", Val: Uint32(2)}, MapEntry{Key: "x", Val: Uint32(1)})
	require.False(t, a.Equal(b))
}
