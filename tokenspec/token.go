// Package tokenspec parses a declarative token-specification file into
// a list of Token descriptors, each carrying the regex AST that
// regex.Parse produced for it plus its scope and error/skip metadata.
package tokenspec

import "github.com/ephing/yunolex/regex"

// OuterScope is the scope every lexer session starts in, and the
// default In set for a token that specifies none.
const OuterScope = "$"

// Token describes one named rule of a specification file.
type Token struct {
	Name     string
	Regex    regex.Node
	In       map[string]bool
	Enter    map[string]bool
	Leave    map[string]bool
	Skip     bool
	Error    bool
	ErrorMsg string
}

func newToken(name string) *Token {
	return &Token{
		Name:  name,
		In:    make(map[string]bool),
		Enter: make(map[string]bool),
		Leave: make(map[string]bool),
	}
}

// valid reports whether t is complete enough to compile, defaulting In
// to {OuterScope} when the spec left it empty. It mirrors the
// behavior of the original token verifier: a missing regex fails
// validation, an empty In set is filled in rather than failing.
func (t *Token) valid() bool {
	if t.Regex == nil {
		return false
	}
	if len(t.In) == 0 {
		t.In[OuterScope] = true
	}
	return true
}
