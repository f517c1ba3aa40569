package router_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mxydb/matchy/builder"
	"github.com/mxydb/matchy/router"
	"github.com/mxydb/matchy/valuetree"
)

func buildImage(t *testing.T, opts *builder.Options) ([]byte, *builder.Builder) {
	t.Helper()
	b := builder.New(opts)
	image, err := b.Build()
	require.NoError(t, err)
	return image, b
}

func openImage(t *testing.T, image []byte) *router.Database {
	t.Helper()
	db, err := router.OpenBytes(image, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLookup_ExactPrefixOverlapPicksLongestMatch(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddPrefix("203.0.113.0/24", valuetree.String("isp-a"))
	require.NoError(t, err)
	_, err = b.AddPrefix("203.0.113.128/25", valuetree.String("isp-b"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("203.0.113.200"))
	require.NoError(t, err)
	require.NotNil(t, m)
	v, err := m.Get(0)
	require.NoError(t, err)
	s, ok := v.AsString()
	require.True(t, ok)
	require.Equal(t, "isp-b", s)

	m2, err := db.Lookup([]byte("203.0.113.5"))
	require.NoError(t, err)
	require.NotNil(t, m2)
	v2, err := m2.Get(0)
	require.NoError(t, err)
	s2, _ := v2.AsString()
	require.Equal(t, "isp-a", s2)
}

func TestLookup_UnmatchedIPReturnsNilMatch(t *testing.T) {
	image, _ := buildImage(t, nil)
	db := openImage(t, image)

	m, err := db.Lookup([]byte("198.51.100.7"))
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestLookup_LiteralExactMatchDoesNotMatchSuffix(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddLiteral("foo", valuetree.String("foo-value"))
	require.NoError(t, err)
	_, err = b.AddLiteral("foobar", valuetree.String("foobar-value"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("foo"))
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Len(t, m.RuleIDs, 1)
	v, err := m.Get(0)
	require.NoError(t, err)
	s, _ := v.AsString()
	require.Equal(t, "foo-value", s)

	m2, err := db.Lookup([]byte("foobar"))
	require.NoError(t, err)
	require.NotNil(t, m2)
	v2, err := m2.Get(0)
	require.NoError(t, err)
	s2, _ := v2.AsString()
	require.Equal(t, "foobar-value", s2)
}

func TestLookup_GlobPatternMatchesSuffix(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddPattern("*.phish.example", valuetree.String("phish"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("login.phish.example"))
	require.NoError(t, err)
	require.NotNil(t, m)
	v, err := m.Get(0)
	require.NoError(t, err)
	s, _ := v.AsString()
	require.Equal(t, "phish", s)

	m2, err := db.Lookup([]byte("login.safe.example"))
	require.NoError(t, err)
	require.Nil(t, m2)
}

func TestLookup_UnconditionalPatternMatchesEveryStringQuery(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddPattern("*", valuetree.String("catch-all"))
	require.NoError(t, err)
	_, err = b.AddLiteral("example.com", valuetree.String("known"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("anything-at-all"))
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Len(t, m.RuleIDs, 1)

	m2, err := db.Lookup([]byte("example.com"))
	require.NoError(t, err)
	require.NotNil(t, m2)
	require.Len(t, m2.RuleIDs, 2, "a literal hit and the catch-all pattern both match")
}

func TestLookup_BracketedIPv6Address(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddPrefix("2001:db8::/32", valuetree.String("doc-net"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("[2001:db8::1]"))
	require.NoError(t, err)
	require.NotNil(t, m)
	v, err := m.Get(0)
	require.NoError(t, err)
	s, _ := v.AsString()
	require.Equal(t, "doc-net", s)
}

func TestLookup_ManyPatternsResolveByDistinctSuffix(t *testing.T) {
	b := builder.New(nil)
	for i := 0; i < 200; i++ {
		_, err := b.AddPattern("*.tenant"+strconv.Itoa(i)+".internal", valuetree.Uint32(uint32(i)))
		require.NoError(t, err)
	}
	image, err := b.Build()
	require.NoError(t, err)

	db := openImage(t, image)

	m, err := db.Lookup([]byte("host.tenant137.internal"))
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Len(t, m.RuleIDs, 1)
	v, err := m.Get(0)
	require.NoError(t, err)
	n, ok := v.AsUint32()
	require.True(t, ok)
	require.Equal(t, uint32(137), n)
}

func TestLookup_EmptyQueryIsRejected(t *testing.T) {
	image, _ := buildImage(t, nil)
	db := openImage(t, image)

	_, err := db.Lookup(nil)
	require.ErrorIs(t, err, router.ErrInvalidQuery)
}

func TestOpenBytes_CorruptParaglobMagicFailsAtOpen(t *testing.T) {
	b := builder.New(nil)
	_, err := b.AddPrefix("192.0.2.0/24", valuetree.String("tn-net"))
	require.NoError(t, err)
	_, err = b.AddLiteral("example.com", valuetree.String("known"))
	require.NoError(t, err)
	image, err := b.Build()
	require.NoError(t, err)

	corrupt := append([]byte(nil), image...)
	for i := range corrupt {
		if string(corrupt[i:min(i+8, len(corrupt))]) == "PARAGLOB" {
			corrupt[i] = 'X'
			break
		}
	}

	_, err = router.OpenBytes(corrupt, nil)
	require.Error(t, err, "a corrupted PARAGLOB magic must fail validation at open time")
}

func TestDatabase_CloseRejectsFurtherLookups(t *testing.T) {
	image, _ := buildImage(t, nil)
	db, err := router.OpenBytes(image, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Lookup([]byte("198.51.100.1"))
	require.ErrorIs(t, err, router.ErrClosed)
}
