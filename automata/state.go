// Package automata implements the state/transition model used by the
// regex-to-NFA fold and the NFA-to-DFA pipeline: ε-elimination, subset
// construction, and the approximate minimization pass.
package automata

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Epsilon is the distinguished transition symbol consumed without
// reading an input byte.
const Epsilon = "ε"

var stateCounter int64

// nextSingletonID mints a process-wide unique id for a freshly
// constructed singleton state. It is safe to call concurrently so that
// a caller may parallelize token compilation without corrupting ids.
func nextSingletonID() int64 {
	return atomic.AddInt64(&stateCounter, 1) - 1
}

// Transition is an ordered (source, destination, symbol) edge. Symbol
// is either a one-byte string or Epsilon.
type Transition struct {
	Source *State
	Dest   *State
	Symbol string
}

// State is a node in an NFA or DFA. Identity is the string returned by
// ID; two singleton states are never equal, while two set-states with
// identical flattened membership share an id (and so are structurally
// interchangeable).
type State struct {
	id          string
	final       bool
	isSet       bool
	members     []*State // flattened singletons; empty for a singleton state
	outbound    map[string]*Transition // keyed by dest.id + "\x00" + symbol
}

// NewState mints a fresh singleton state with identity "q<n>".
func NewState(final bool) *State {
	return &State{
		id:       fmt.Sprintf("q%d", nextSingletonID()),
		final:    final,
		outbound: make(map[string]*Transition),
	}
}

// NewSetState builds a set-state out of the given members, flattening
// any nested set-states so a set-state never contains another
// set-state, and deduplicating by id. Its identity is
// "S_<sorted concatenation of member ids>_" so two set-states with the
// same flattened membership are structurally equal by id.
func NewSetState(members []*State) *State {
	flat := flattenMembers(members)
	sort.Slice(flat, func(i, j int) bool { return flat[i].id < flat[j].id })

	var b strings.Builder
	b.WriteString("S_")
	final := false
	for _, m := range flat {
		b.WriteString(m.id)
		if m.final {
			final = true
		}
	}
	b.WriteString("_")

	return &State{
		id:       b.String(),
		final:    final,
		isSet:    true,
		members:  flat,
		outbound: make(map[string]*Transition),
	}
}

func flattenMembers(members []*State) []*State {
	seen := make(map[string]*State)
	var walk func(*State)
	walk = func(s *State) {
		if s.isSet {
			for _, m := range s.members {
				walk(m)
			}
			return
		}
		if _, ok := seen[s.id]; !ok {
			seen[s.id] = s
		}
	}
	for _, m := range members {
		walk(m)
	}
	out := make([]*State, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	return out
}

// ID returns the state's stable string identity.
func (s *State) ID() string { return s.id }

// IsFinal reports whether the state is currently marked final.
func (s *State) IsFinal() bool { return s.final }

// SetFinal sets the final flag directly; callers that care about the
// automaton-level final projection must also update it (see
// Automaton.ClearFinal and Automaton.AssumeState).
func (s *State) SetFinal(f bool) { s.final = f }

// IsSet reports whether this state is a set-state produced by subset
// construction.
func (s *State) IsSet() bool { return s.isSet }

// Members returns the flattened singleton membership of a set-state
// (nil for a singleton state).
func (s *State) Members() []*State { return s.members }

// Outbound returns the outgoing transitions of this state.
func (s *State) Outbound() []*Transition {
	out := make([]*Transition, 0, len(s.outbound))
	for _, t := range s.outbound {
		out = append(out, t)
	}
	return out
}

func edgeKey(dest *State, symbol string) string {
	return dest.id + "\x00" + symbol
}

// AddEdge inserts a transition to dest on symbol. Duplicate insertion
// (same destination and symbol) is a no-op.
func (s *State) AddEdge(dest *State, symbol string) {
	key := edgeKey(dest, symbol)
	if _, ok := s.outbound[key]; ok {
		return
	}
	s.outbound[key] = &Transition{Source: s, Dest: dest, Symbol: symbol}
}

// RemoveEdge deletes t from this state's outbound set, if present.
func (s *State) RemoveEdge(t *Transition) {
	delete(s.outbound, edgeKey(t.Dest, t.Symbol))
}

// ContainsEdge reports whether a transition to dest on symbol exists.
func (s *State) ContainsEdge(dest *State, symbol string) bool {
	_, ok := s.outbound[edgeKey(dest, symbol)]
	return ok
}

// NextState returns the destination of the (unique, in a DFA)
// transition on symbol, or nil if there is none.
func (s *State) NextState(symbol string) *State {
	for _, t := range s.outbound {
		if t.Symbol == symbol {
			return t.Dest
		}
	}
	return nil
}

// EpsilonClosure returns the transitive reflexive closure of s
// restricted to ε edges, including s itself.
func (s *State) EpsilonClosure() []*State {
	visited := map[string]*State{s.id: s}
	stack := []*State{s}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range cur.outbound {
			if t.Symbol != Epsilon {
				continue
			}
			if _, ok := visited[t.Dest.id]; !ok {
				visited[t.Dest.id] = t.Dest
				stack = append(stack, t.Dest)
			}
		}
	}
	out := make([]*State, 0, len(visited))
	for _, v := range visited {
		out = append(out, v)
	}
	return out
}

// SemanticallyEquivalent is the approximate bisimulation check used by
// Automaton.Minimize: same finality, and every reachable symbol leads
// to equivalent destinations, with a self-loop exception so that
// s1 --a--> s1 is considered equivalent to s2 --a--> s2.
func (s *State) SemanticallyEquivalent(other *State) bool {
	return s.semanticallyEquivalent(other, make(map[string]bool))
}

func pairKey(a, b *State) string {
	if a.id < b.id {
		return a.id + "\x00" + b.id
	}
	return b.id + "\x00" + a.id
}

func (s *State) semanticallyEquivalent(other *State, seen map[string]bool) bool {
	if other == nil || s.final != other.final {
		return false
	}
	if s == other || s.id == other.id {
		return true
	}
	key := pairKey(s, other)
	if seen[key] {
		return true
	}
	seen[key] = true

	for _, t := range s.outbound {
		o := other.NextState(t.Symbol)
		if o == s && t.Dest == other {
			continue
		}
		if o == other && t.Dest == s {
			continue
		}
		if !t.Dest.semanticallyEquivalent(o, seen) {
			return false
		}
	}
	for _, t := range other.outbound {
		d := s.NextState(t.Symbol)
		if d == s && t.Dest == other {
			continue
		}
		if d == other && t.Dest == s {
			continue
		}
		if !t.Dest.semanticallyEquivalent(d, seen) {
			return false
		}
	}
	return true
}

func escapeDotSymbol(sym string) string {
	sym = strings.ReplaceAll(sym, "\\", "\\\\")
	sym = strings.ReplaceAll(sym, "\"", "\\\"")
	return sym
}
