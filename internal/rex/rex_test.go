package rex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileMatch(t *testing.T, pattern, flags, input string, start int) (*Match, bool) {
	t.Helper()
	re, err := NewRegex(pattern, flags)
	require.NoError(t, err)
	return re.Match(input, start)
}

func TestLiteralMatch(t *testing.T) {
	m, ok := compileMatch(t, "abc", "", "xxabcyy", 0)
	require.True(t, ok)
	assert.Equal(t, "abc", m.Text())
	assert.Equal(t, 2, m.Start)
	assert.Equal(t, 5, m.End)
}

func TestNoMatch(t *testing.T) {
	_, ok := compileMatch(t, "abc", "", "xyz", 0)
	assert.False(t, ok)
}

func TestQuantifierGreedyStar(t *testing.T) {
	m, ok := compileMatch(t, "a*b", "", "aaab", 0)
	require.True(t, ok)
	assert.Equal(t, "aaab", m.Text())
}

func TestQuantifierLazy(t *testing.T) {
	m, ok := compileMatch(t, "a+?", "", "aaa", 0)
	require.True(t, ok)
	assert.Equal(t, "a", m.Text())
}

func TestQuantifierRange(t *testing.T) {
	m, ok := compileMatch(t, "a{2,3}", "", "aaaa", 0)
	require.True(t, ok)
	assert.Equal(t, "aaa", m.Text())
}

func TestAlternation(t *testing.T) {
	m, ok := compileMatch(t, "cat|dog", "", "i have a dog", 0)
	require.True(t, ok)
	assert.Equal(t, "dog", m.Text())
}

func TestCharClassAndNegation(t *testing.T) {
	m, ok := compileMatch(t, "[a-c]+", "", "abcxyz", 0)
	require.True(t, ok)
	assert.Equal(t, "abc", m.Text())

	m, ok = compileMatch(t, "[^a-c]+", "", "abcxyz", 0)
	require.True(t, ok)
	assert.Equal(t, "xyz", m.Text())
}

func TestShorthandClasses(t *testing.T) {
	m, ok := compileMatch(t, `\d+`, "", "abc123def", 0)
	require.True(t, ok)
	assert.Equal(t, "123", m.Text())
}

func TestCapturingGroups(t *testing.T) {
	m, ok := compileMatch(t, `(\d+)-(\d+)`, "", "x 12-34 y", 0)
	require.True(t, ok)
	g1, ok1 := m.Group(1)
	g2, ok2 := m.Group(2)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, "12", g1)
	assert.Equal(t, "34", g2)
}

func TestNonCapturingGroupDoesNotCountInGroups(t *testing.T) {
	re, err := NewRegex(`(?:abc)(def)`, "")
	require.NoError(t, err)
	assert.Equal(t, 1, re.GroupCount)
}

func TestBackreference(t *testing.T) {
	m, ok := compileMatch(t, `(\w+) \1`, "", "hello hello world", 0)
	require.True(t, ok)
	assert.Equal(t, "hello hello", m.Text())

	_, ok = compileMatch(t, `(\w+) \1`, "", "hello world", 0)
	assert.False(t, ok)
}

func TestLookaheadPositiveAndNegative(t *testing.T) {
	m, ok := compileMatch(t, `foo(?=bar)`, "", "foobar", 0)
	require.True(t, ok)
	assert.Equal(t, "foo", m.Text())

	_, ok = compileMatch(t, `foo(?=bar)`, "", "foobaz", 0)
	assert.False(t, ok)

	m, ok = compileMatch(t, `foo(?!baz)`, "", "foobar", 0)
	require.True(t, ok)
	assert.Equal(t, "foo", m.Text())
}

func TestLookbehindPositiveAndNegative(t *testing.T) {
	m, ok := compileMatch(t, `(?<=foo)bar`, "", "foobar", 0)
	require.True(t, ok)
	assert.Equal(t, "bar", m.Text())

	_, ok = compileMatch(t, `(?<=foo)bar`, "", "xxxbar", 0)
	assert.False(t, ok)

	m, ok = compileMatch(t, `(?<!foo)bar`, "", "xxxbar", 0)
	require.True(t, ok)
	assert.Equal(t, "bar", m.Text())
}

func TestAnchors(t *testing.T) {
	m, ok := compileMatch(t, `^abc$`, "", "abc", 0)
	require.True(t, ok)
	assert.Equal(t, "abc", m.Text())

	_, ok = compileMatch(t, `^abc$`, "", "xabc", 0)
	assert.False(t, ok)
}

func TestWordBoundary(t *testing.T) {
	m, ok := compileMatch(t, `\bcat\b`, "", "a cat sat", 0)
	require.True(t, ok)
	assert.Equal(t, "cat", m.Text())

	_, ok = compileMatch(t, `\bcat\b`, "", "concatenate", 0)
	assert.False(t, ok)
}

func TestIgnoreCaseFlag(t *testing.T) {
	m, ok := compileMatch(t, `abc`, "i", "XYZ ABC", 0)
	require.True(t, ok)
	assert.Equal(t, "ABC", m.Text())
}

func TestDotAllFlag(t *testing.T) {
	_, ok := compileMatch(t, `a.b`, "", "a\nb", 0)
	assert.False(t, ok)

	m, ok := compileMatch(t, `a.b`, "s", "a\nb", 0)
	require.True(t, ok)
	assert.Equal(t, "a\nb", m.Text())
}

func TestPerfectFlagRequiresFullMatch(t *testing.T) {
	_, ok := compileMatch(t, `abc`, "p", "xabc", 0)
	assert.False(t, ok)

	m, ok := compileMatch(t, `abc`, "p", "abc", 0)
	require.True(t, ok)
	assert.Equal(t, "abc", m.Text())
}

func TestUnknownFlagErrors(t *testing.T) {
	_, err := NewRegex("abc", "z")
	assert.Error(t, err)
}

// TestToStringFormatsSourceAndFlags covers spec.md §8's property:
// `to_str(R) == "/" + T + "/" + F`, F being the flag letters in the
// fixed i/m/s/u/p order regardless of the order they were given in.
func TestToStringFormatsSourceAndFlags(t *testing.T) {
	re, err := NewRegex(`[a-z]+`, "")
	require.NoError(t, err)
	assert.Equal(t, `/[a-z]+/`, re.String())

	re, err = NewRegex(`([a-z]+)([0-9]+)`, "puim")
	require.NoError(t, err)
	assert.Equal(t, `/([a-z]+)([0-9]+)/imup`, re.String())
}
