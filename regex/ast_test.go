package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accepts determinizes n's folded automaton and runs s through it,
// byte by byte, reporting whether s lands on a final state.
func accepts(t *testing.T, n Node, s string) bool {
	t.Helper()
	a := n.Automata()
	a.Determinize()
	cur := a.Start()
	for i := 0; i < len(s); i++ {
		cur = cur.NextState(string(s[i]))
		if cur == nil {
			return false
		}
	}
	return cur.IsFinal()
}

func TestSymbolAccepts(t *testing.T) {
	n := Symbol{Char: 'a'}
	assert.True(t, accepts(t, n, "a"))
	assert.False(t, accepts(t, n, "b"))
	assert.False(t, accepts(t, n, "aa"))
}

func TestConcatAccepts(t *testing.T) {
	n := Concat{Left: Symbol{Char: 'a'}, Right: Symbol{Char: 'b'}}
	assert.True(t, accepts(t, n, "ab"))
	assert.False(t, accepts(t, n, "a"))
	assert.False(t, accepts(t, n, "ba"))
}

func TestAltAccepts(t *testing.T) {
	n := Alt{Left: Symbol{Char: 'a'}, Right: Symbol{Char: 'b'}}
	assert.True(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "b"))
	assert.False(t, accepts(t, n, "c"))
}

func TestStarAccepts(t *testing.T) {
	n := Star{Body: Symbol{Char: 'a'}}
	assert.True(t, accepts(t, n, ""))
	assert.True(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "aaaa"))
	assert.False(t, accepts(t, n, "aab"))
}

func TestPlusAccepts(t *testing.T) {
	n := Plus{Body: Symbol{Char: 'a'}}
	assert.False(t, accepts(t, n, ""))
	assert.True(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "aaa"))
}

func TestQuestionAccepts(t *testing.T) {
	n := Question{Body: Symbol{Char: 'a'}}
	assert.True(t, accepts(t, n, ""))
	assert.True(t, accepts(t, n, "a"))
	assert.False(t, accepts(t, n, "aa"))
}

func TestIntervalExactAccepts(t *testing.T) {
	n := Interval{Body: Symbol{Char: 'a'}, Lower: 2, Upper: 2}
	assert.False(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "aa"))
	assert.False(t, accepts(t, n, "aaa"))
}

func TestIntervalRangeAccepts(t *testing.T) {
	n := Interval{Body: Symbol{Char: 'a'}, Lower: 2, Upper: 4}
	assert.False(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "aa"))
	assert.True(t, accepts(t, n, "aaa"))
	assert.True(t, accepts(t, n, "aaaa"))
	assert.False(t, accepts(t, n, "aaaaa"))
}

func TestIntervalUnboundedAccepts(t *testing.T) {
	n := Interval{Body: Symbol{Char: 'a'}, Lower: 2, Upper: -1}
	assert.False(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "aa"))
	assert.True(t, accepts(t, n, "aaaaaa"))
}

func TestIntervalZeroUpperAcceptsOnlyEmpty(t *testing.T) {
	n := Interval{Body: Symbol{Char: 'a'}, Lower: 0, Upper: 0}
	assert.True(t, accepts(t, n, ""))
	assert.False(t, accepts(t, n, "a"))
}

func TestCharSelectAccepts(t *testing.T) {
	n := NewCharSelect([]byte{'a', 'b', 'c'})
	assert.True(t, accepts(t, n, "a"))
	assert.True(t, accepts(t, n, "c"))
	assert.False(t, accepts(t, n, "d"))
}

func TestWildcardAccepts(t *testing.T) {
	n := Wildcard{}
	assert.True(t, accepts(t, n, "x"))
	assert.True(t, accepts(t, n, "\t"))
	assert.False(t, accepts(t, n, "\n"))
}

func TestParsedIntegerRegex(t *testing.T) {
	n, err := Parse("[0-9]+", 1, 1)
	require.NoError(t, err)
	assert.True(t, accepts(t, n, "0"))
	assert.True(t, accepts(t, n, "42"))
	assert.False(t, accepts(t, n, ""))
	assert.False(t, accepts(t, n, "4a"))
}

func TestParsedWhitespaceRegex(t *testing.T) {
	n, err := Parse(`[ \t\n]+`, 1, 1)
	require.NoError(t, err)
	assert.True(t, accepts(t, n, " "))
	assert.True(t, accepts(t, n, " \t\n "))
	assert.False(t, accepts(t, n, "a"))
}
