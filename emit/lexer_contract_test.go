package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ephing/yunolex/emit/yunolexrt"
	"github.com/ephing/yunolex/tokenspec"
)

// compile parses a full specification file and returns its tokens
// compiled down to minimized DFAs, in declaration order, exercising
// the whole D -> C -> B -> A pipeline the way the CLI does.
func compile(t *testing.T, spec string) []Compiled {
	t.Helper()
	tokens, err := tokenspec.ParseSpec(strings.NewReader(spec))
	require.NoError(t, err)

	compiled := make([]Compiled, len(tokens))
	for i, tok := range tokens {
		dfa := tok.Regex.Automata()
		dfa.Determinize()
		dfa.Minimize()
		compiled[i] = Compiled{Token: tok, DFA: dfa}
	}
	return compiled
}

// lexerFor compiles spec and builds a yunolexrt.Lexer directly from
// the runtime automata, without round-tripping through generated Go
// source text — this is the "go/build-free direct package use" the
// contract tests exercise.
func lexerFor(t *testing.T, spec string) *yunolexrt.Lexer {
	t.Helper()
	compiled := compile(t, spec)
	runtimeAutomata := make([]*yunolexrt.Automaton, len(compiled))
	for i, c := range compiled {
		runtimeAutomata[i] = BuildRuntimeAutomaton(c)
	}
	return yunolexrt.NewLexer(runtimeAutomata)
}

func TestScenarioStarRepetitionLongestMatch(t *testing.T) {
	l := lexerFor(t, "[A]\nregex = ab*\n")
	toks, err := l.Lex([]byte("abbb"))
	require.NoError(t, err)
	require.Len(t, toks, 1)
	assert.Equal(t, "A", toks[0].Name)
	assert.Equal(t, "abbb", toks[0].Lexeme)
}

func TestScenarioWhitespaceSuppressed(t *testing.T) {
	l := lexerFor(t, "[D]\nregex = [0-9]+\n\n[W]\nregex = [ \\t]+\nskip = true\n")
	toks, err := l.Lex([]byte("12 34"))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "D", toks[0].Name)
	assert.Equal(t, "12", toks[0].Lexeme)
	assert.Equal(t, "D", toks[1].Name)
	assert.Equal(t, "34", toks[1].Lexeme)
}

func TestScenarioScopedParens(t *testing.T) {
	spec := "[LP]\nregex = \\(\nenter = inside\n\n" +
		"[RP]\nregex = \\)\nleave = inside\nin = inside\n\n" +
		"[ID]\nregex = [a-z]+\nin = $ inside\n"
	l := lexerFor(t, spec)
	toks, err := l.Lex([]byte("a(b)"))
	require.NoError(t, err)
	require.Len(t, toks, 4)
	names := []string{toks[0].Name, toks[1].Name, toks[2].Name, toks[3].Name}
	lexemes := []string{toks[0].Lexeme, toks[1].Lexeme, toks[2].Lexeme, toks[3].Lexeme}
	assert.Equal(t, []string{"ID", "LP", "ID", "RP"}, names)
	assert.Equal(t, []string{"a", "(", "b", ")"}, lexemes)
}

func TestScenarioIntervalStopsAtUpperBound(t *testing.T) {
	// a{2,4} stops consuming after the 4th "a", leaving a single
	// trailing "a" to drive the next match; a separate rule is needed
	// to consume it, since an isolated "a" never satisfies a{2,4} on
	// its own.
	l := lexerFor(t, "[A]\nregex = a{2,4}\n\n[B]\nregex = a\n")
	toks, err := l.Lex([]byte("aaaaa"))
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "A", toks[0].Name)
	assert.Equal(t, "aaaa", toks[0].Lexeme)
	assert.Equal(t, "B", toks[1].Name)
	assert.Equal(t, "a", toks[1].Lexeme)
}

func TestScenarioKeywordBeatsIdentOnTie(t *testing.T) {
	spec := "[KW]\nregex = if\n\n[ID]\nregex = [a-z]+\n"

	l1 := lexerFor(t, spec)
	toks1, err := l1.Lex([]byte("if"))
	require.NoError(t, err)
	require.Len(t, toks1, 1)
	assert.Equal(t, "KW", toks1[0].Name)

	l2 := lexerFor(t, spec)
	toks2, err := l2.Lex([]byte("iff"))
	require.NoError(t, err)
	require.Len(t, toks2, 1)
	assert.Equal(t, "ID", toks2[0].Name)
	assert.Equal(t, "iff", toks2[0].Lexeme)
}

func TestScenarioErrorTokenRaisesLexError(t *testing.T) {
	l := lexerFor(t, "[BAD]\nregex = #\nerror \"bad char\"\n")
	_, err := l.Lex([]byte("#"))
	require.Error(t, err)
	lexErr, ok := err.(*yunolexrt.LexError)
	require.True(t, ok)
	assert.Equal(t, "bad char", lexErr.Msg)
}
