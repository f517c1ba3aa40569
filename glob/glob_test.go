package glob

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustMatch(t *testing.T, pattern, text string, ci bool) bool {
	t.Helper()
	ok, err := Match(pattern, text, ci)
	require.NoError(t, err)
	return ok
}

func TestMatch_LiteralAndStar(t *testing.T) {
	cases := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"hello", "hello", true},
		{"hello", "hell", false},
		{"hello*", "hello world", true},
		{"*world", "hello world", true},
		{"*", "", true},
		{"*", "anything", true},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "ac", false},
		{"a*c", "abc", true},
		{"a*c", "ac", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, mustMatch(t, tc.pattern, tc.text, false), "pattern=%q text=%q", tc.pattern, tc.text)
	}
}

func TestMatch_QuestionMark(t *testing.T) {
	require.True(t, mustMatch(t, "h?llo", "hello", false))
	require.False(t, mustMatch(t, "h?llo", "hllo", false))
	require.True(t, mustMatch(t, "h?llo", "héllo", false), "? matches a single multi-byte scalar")
}

func TestMatch_CharacterClass(t *testing.T) {
	require.True(t, mustMatch(t, "[abc]at", "cat", false))
	require.False(t, mustMatch(t, "[abc]at", "dat", false))
	require.True(t, mustMatch(t, "[a-z]at", "bat", false))
	require.True(t, mustMatch(t, "[!abc]at", "dat", false))
	require.False(t, mustMatch(t, "[!abc]at", "bat", false))
	require.True(t, mustMatch(t, "[^abc]at", "dat", false), "^ negates like !")
}

func TestMatch_Escape(t *testing.T) {
	require.True(t, mustMatch(t, `\*literal`, "*literal", false))
	require.False(t, mustMatch(t, `\*literal`, "Xliteral", false))
}

func TestMatch_CaseInsensitiveASCIIOnly(t *testing.T) {
	require.True(t, mustMatch(t, "Hello", "HELLO", true))
	require.False(t, mustMatch(t, "Hello", "HELLO", false))
	// non-ASCII letters are never folded, matching ASCII-only guarantee.
	require.False(t, mustMatch(t, "É", "é", true))
}

func TestCompile_SyntaxErrors(t *testing.T) {
	_, err := Compile(`trailing\`, false)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = Compile("[abc", false)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = Compile("[]", false)
	require.ErrorIs(t, err, ErrSyntax)

	_, err = Compile("[z-a]", false)
	require.ErrorIs(t, err, ErrSyntax)
}

func TestPattern_LiteralsAndUnconditional(t *testing.T) {
	p, err := Compile("foo*bar", false)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("foo"), []byte("bar")}, p.Literals())
	require.False(t, p.Unconditional())

	p2, err := Compile("*", false)
	require.NoError(t, err)
	require.Empty(t, p2.Literals())
	require.True(t, p2.Unconditional())

	p3, err := Compile("a?c", false)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("c")}, p3.Literals())
	require.False(t, p3.Unconditional())
}

func TestMatch_EmptyTextVsStarBoundary(t *testing.T) {
	require.True(t, mustMatch(t, "*", "", false))
	require.False(t, mustMatch(t, "a*", "", false))
	require.True(t, mustMatch(t, "a*", "a", false))
}
