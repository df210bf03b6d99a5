// Package regex holds the regex abstract-syntax model and the
// Thompson-style fold from that AST into an ε-NFA (automata.Automaton).
package regex

import "github.com/ephing/yunolex/automata"

// printableASCII is the wildcard's alphabet: printable ASCII plus tab.
// Newline is deliberately excluded here and re-added only when a
// character class is negated (see CharSelect and Parser.charSelect).
func printableASCII() []byte {
	out := make([]byte, 0, 126-32+1+1)
	for c := byte(32); c <= 126; c++ {
		out = append(out, c)
	}
	return append(out, '\t')
}

// Node is a regex AST node. Each variant knows how to fold itself into
// a freshly constructed NFA fragment.
type Node interface {
	// Automata builds a fresh NFA fragment for this node. Every call
	// produces brand new states; node trees are never shared across
	// folds.
	Automata() *automata.Automaton
	// kind names the variant. The Parser's peephole algebra switches
	// on the concrete type and does not call it.
	kind() string
}

// Symbol matches a single literal byte.
type Symbol struct {
	Char byte
}

func (Symbol) kind() string { return "Symbol" }

func (n Symbol) Automata() *automata.Automaton {
	start := automata.NewState(false)
	end := automata.NewState(true)
	start.AddEdge(end, string(n.Char))
	a := automata.Construct(start)
	a.AssumeState(end)
	return a
}

// CharSelect matches any one byte from Set.
type CharSelect struct {
	Set map[byte]bool
}

func NewCharSelect(bytes []byte) CharSelect {
	set := make(map[byte]bool, len(bytes))
	for _, b := range bytes {
		set[b] = true
	}
	return CharSelect{Set: set}
}

func (CharSelect) kind() string { return "CharSelect" }

func (n CharSelect) Automata() *automata.Automaton {
	start := automata.NewState(false)
	end := automata.NewState(true)
	for c := range n.Set {
		start.AddEdge(end, string(c))
	}
	a := automata.Construct(start)
	a.AssumeState(end)
	return a
}

// Wildcard is shorthand for CharSelect({32..126} ∪ {'\t'}).
type Wildcard struct{}

func (Wildcard) kind() string { return "Wildcard" }

func (Wildcard) Automata() *automata.Automaton {
	return NewCharSelect(printableASCII()).Automata()
}

// Concat matches Left followed immediately by Right.
type Concat struct {
	Left, Right Node
}

func (Concat) kind() string { return "Concat" }

func (n Concat) Automata() *automata.Automaton {
	left := n.Left.Automata()
	right := n.Right.Automata()
	left.ConcatenateSubsume(right)
	return left
}

// Alt matches Left or Right.
type Alt struct {
	Left, Right Node
}

func (Alt) kind() string { return "Alt" }

func (n Alt) Automata() *automata.Automaton {
	start := automata.NewState(false)
	a := automata.Construct(start)
	left := n.Left.Automata()
	right := n.Right.Automata()
	start.AddEdge(left.Start(), automata.Epsilon)
	start.AddEdge(right.Start(), automata.Epsilon)
	a.AssumeStates(left.States())
	a.AssumeStates(right.States())
	return a
}

// Star matches zero or more repetitions of Body.
type Star struct {
	Body Node
}

func (Star) kind() string { return "Star" }

func (n Star) Automata() *automata.Automaton {
	start := automata.NewState(true)
	a := automata.Construct(start)
	body := n.Body.Automata()
	start.AddEdge(body.Start(), automata.Epsilon)
	for _, f := range body.FinalStates() {
		f.AddEdge(start, automata.Epsilon)
	}
	body.ClearFinal()
	a.AssumeStates(body.States())
	return a
}

// Plus matches one or more repetitions of Body. It is defined as
// Concat(Body, Star(Body)) — note that Body is folded twice, producing
// fresh states both times.
type Plus struct {
	Body Node
}

func (Plus) kind() string { return "Plus" }

func (n Plus) Automata() *automata.Automaton {
	return Concat{Left: n.Body, Right: Star{Body: n.Body}}.Automata()
}

// Question matches zero or one occurrence of Body.
type Question struct {
	Body Node
}

func (Question) kind() string { return "Question" }

func (n Question) Automata() *automata.Automaton {
	start := automata.NewState(false)
	a := automata.Construct(start)
	end := automata.NewState(true)
	a.AssumeState(end)
	start.AddEdge(end, automata.Epsilon)

	body := n.Body.Automata()
	start.AddEdge(body.Start(), automata.Epsilon)
	for _, f := range body.FinalStates() {
		f.AddEdge(end, automata.Epsilon)
	}
	body.ClearFinal()
	a.AssumeStates(body.States())
	return a
}

// Interval matches between Lower and Upper repetitions of Body
// (inclusive). Upper == -1 means unbounded.
type Interval struct {
	Body         Node
	Lower, Upper int
}

func (Interval) kind() string { return "Interval" }

func (n Interval) Automata() *automata.Automaton {
	start := automata.NewState(true)
	a := automata.Construct(start)
	if n.Upper == 0 {
		return a
	}

	for i := 0; i < n.Lower; i++ {
		a.ConcatenateSubsume(n.Body.Automata())
	}
	if n.Lower == n.Upper {
		return a
	}
	if n.Upper == -1 {
		a.ConcatenateSubsume(Star{Body: n.Body}.Automata())
		return a
	}

	// n < k <= m: chain m-n further optional stages, keeping every
	// stage boundary final so k may stop anywhere in [n,m].
	stageFinals := a.FinalStates()
	for i := 0; i < n.Upper-n.Lower; i++ {
		stage := n.Body.Automata()
		for _, f := range stageFinals {
			f.AddEdge(stage.Start(), automata.Epsilon)
		}
		stageFinals = stage.FinalStates()
		a.AssumeStates(stage.States())
	}
	return a
}
