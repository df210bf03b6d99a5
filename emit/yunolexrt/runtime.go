// Package yunolexrt is the runtime a generated lexer links against.
// Its source is shipped twice: once as an ordinary importable Go
// package (so it can be built and tested on its own), and once
// byte-for-byte as the template the emitter copies to the head of
// every generated file, ahead of the per-token Automaton registration
// it appends. Both copies are the same file; there is exactly one
// place this logic is written.
package yunolexrt

import "fmt"

// DefaultScope is the scope a Lexer starts in.
const DefaultScope = "$"

// Position marks where a token begins and ends in the source text.
// Lines are 1-based; columns are 0-based and count consumed bytes
// since the start of the line.
type Position struct {
	SLine, SCol int
	ELine, ECol int
}

// Token is one lexeme recognized by the lexer, tagged with the name
// of the Automaton that matched it.
type Token struct {
	Name   string
	Lexeme string
	Pos    Position
}

// LexError is raised when no automaton in scope can extend the
// current lexeme and none has ever reached a final state, or when the
// winning automaton is itself an error token.
type LexError struct {
	Lexeme string
	Pos    Position
	Msg    string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s (at %d:%d)", e.Msg, e.Pos.SLine, e.Pos.SCol)
	}
	return fmt.Sprintf("unexpected input %q (at %d:%d)", e.Lexeme, e.Pos.SLine, e.Pos.SCol)
}

// Automaton is one compiled token rule: a DFA plus the scope and
// disposition metadata the lexer consults once it lands on a final
// state. Transitions is keyed by state id, then by input byte.
type Automaton struct {
	Name        string
	Start       string
	Transitions map[string]map[byte]string
	Finals      map[string]bool
	In          map[string]bool
	Enter       map[string]bool
	Leave       map[string]bool
	Skip        bool
	Error       bool
	ErrorMsg    string

	current string
	dead    bool
}

func (a *Automaton) reset() {
	a.current = a.Start
	a.dead = false
}

func (a *Automaton) inScope(scope map[string]bool) bool {
	for s := range a.In {
		if scope[s] {
			return true
		}
	}
	return false
}

func (a *Automaton) step(c byte) bool {
	next, ok := a.Transitions[a.current][c]
	if !ok {
		a.dead = true
		return false
	}
	a.current = next
	return true
}

func (a *Automaton) isFinal() bool { return a.Finals[a.current] }

type bestFit struct {
	endIndex  int
	token     Token
	automaton *Automaton
}

// Lexer drives the per-character stepping contract over every
// registered Automaton, applying longest-match-wins with ties broken
// in favor of whichever automaton was registered earliest.
type Lexer struct {
	automata  []*Automaton
	scope     map[string]bool
	startLine int
	startCol  int
	curLine   int
	curCol    int
	lexeme    []byte
	best      *bestFit
	tokens    []Token
}

// NewLexer builds a Lexer over automata, in the order they should be
// registered (earliest first). automata must not be shared across
// concurrent Lexer instances: Automaton carries mutable scan state.
func NewLexer(automata []*Automaton) *Lexer {
	l := &Lexer{
		automata:  automata,
		scope:     map[string]bool{DefaultScope: true},
		startLine: 1,
		startCol:  0,
		curLine:   1,
		curCol:    0,
	}
	for _, a := range l.automata {
		a.reset()
	}
	return l
}

// Lex runs every byte of input through the stepping contract and
// returns the emitted token stream, or the first LexError raised.
func (l *Lexer) Lex(input []byte) ([]Token, error) {
	i := 0
	for i < len(input) {
		c := input[i]
		l.lexeme = append(l.lexeme, c)

		endLine, endCol := l.curLine, l.curCol
		if c == '\n' {
			endLine++
			endCol = 0
		} else {
			endCol++
		}

		anyAlive := false
		for k := len(l.automata) - 1; k >= 0; k-- {
			a := l.automata[k]
			if !a.inScope(l.scope) || a.dead {
				continue
			}
			if !a.step(c) {
				continue
			}
			anyAlive = true
			if a.isFinal() {
				l.best = &bestFit{
					endIndex: i,
					token: Token{
						Name:   a.Name,
						Lexeme: string(l.lexeme),
						Pos:    Position{SLine: l.startLine, SCol: l.startCol, ELine: endLine, ECol: endCol},
					},
					automaton: a,
				}
			}
		}
		l.curLine, l.curCol = endLine, endCol

		if !anyAlive {
			if l.best == nil {
				return nil, &LexError{Lexeme: string(l.lexeme), Pos: Position{SLine: l.startLine, SCol: l.startCol, ELine: endLine, ECol: endCol}}
			}
			if err := l.accept(); err != nil {
				return nil, err
			}
			i = l.best.endIndex
			l.best = nil
			i++
			continue
		}
		i++
	}

	if len(l.lexeme) > 0 {
		if l.best == nil {
			return nil, &LexError{Lexeme: string(l.lexeme), Pos: Position{SLine: l.startLine, SCol: l.startCol, ELine: l.curLine, ECol: l.curCol}}
		}
		if err := l.accept(); err != nil {
			return nil, err
		}
	}
	return l.tokens, nil
}

func (l *Lexer) accept() error {
	b := l.best
	if !b.automaton.Skip {
		l.tokens = append(l.tokens, b.token)
	}
	for s := range b.automaton.Enter {
		l.scope[s] = true
	}
	for s := range b.automaton.Leave {
		delete(l.scope, s)
	}

	l.startLine, l.startCol = b.token.Pos.ELine, b.token.Pos.ECol
	l.curLine, l.curCol = b.token.Pos.ELine, b.token.Pos.ECol
	l.lexeme = l.lexeme[:0]
	for _, a := range l.automata {
		a.reset()
	}

	if b.automaton.Error {
		return &LexError{Lexeme: b.token.Lexeme, Pos: b.token.Pos, Msg: b.automaton.ErrorMsg}
	}
	return nil
}
