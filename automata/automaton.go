package automata

import (
	"fmt"
	"sort"
	"strings"
)

// Automaton owns a distinguished start state plus every state
// reachable from it. Ownership is transferred, never shared: once a
// state has been assumed by an Automaton, the donor must not use it
// independently.
type Automaton struct {
	start  *State
	states map[string]*State
	finals map[string]*State
}

// Construct builds a new automaton owning only the given start state.
func Construct(start *State) *Automaton {
	a := &Automaton{
		states: make(map[string]*State),
		finals: make(map[string]*State),
	}
	a.start = start
	a.AssumeState(start)
	return a
}

// Start returns the automaton's start state.
func (a *Automaton) Start() *State { return a.start }

// States returns the set of states owned by this automaton.
func (a *Automaton) States() map[string]*State { return a.states }

// FinalStates returns the derived final-state projection.
func (a *Automaton) FinalStates() map[string]*State { return a.finals }

// AssumeState takes ownership of a single state from another
// automaton (or a freshly minted one), updating the final projection.
func (a *Automaton) AssumeState(s *State) {
	a.states[s.id] = s
	if s.final {
		a.finals[s.id] = s
	}
}

// AssumeStates takes ownership of many states at once.
func (a *Automaton) AssumeStates(states map[string]*State) {
	for id, s := range states {
		a.states[id] = s
		if s.final {
			a.finals[id] = s
		}
	}
}

// ClearFinal marks every current final state non-final and empties the
// final projection.
func (a *Automaton) ClearFinal() {
	for _, s := range a.finals {
		s.final = false
	}
	a.finals = make(map[string]*State)
}

// ConcatenateSubsume adds an ε-transition from every current final
// state to other's start, clears this automaton's finality, and
// assumes all of other's states. other is left empty; the caller owns
// disposing of it.
func (a *Automaton) ConcatenateSubsume(other *Automaton) {
	for _, f := range a.finals {
		f.AddEdge(other.start, Epsilon)
	}
	a.ClearFinal()
	a.AssumeStates(other.states)
	other.states = make(map[string]*State)
	other.finals = make(map[string]*State)
}

// RemoveEpsilonTransitions replaces every ε-edge with the direct edges
// it stands for, per state: s becomes final iff any state in its
// ε-closure is final, and s's outbound set becomes the deduplicated
// union of non-ε edges reachable from any state in that closure. States
// no longer reachable from start are then pruned.
func (a *Automaton) RemoveEpsilonTransitions() {
	type rewrite struct {
		final bool
		edges map[string]*Transition // key -> representative transition (dest/symbol only matter)
	}
	plan := make(map[string]*rewrite, len(a.states))

	for id, s := range a.states {
		closure := s.EpsilonClosure()
		r := &rewrite{edges: make(map[string]*Transition)}
		for _, u := range closure {
			if u.final {
				r.final = true
			}
			for _, t := range u.outbound {
				if t.Symbol == Epsilon {
					continue
				}
				key := edgeKey(t.Dest, t.Symbol)
				if _, ok := r.edges[key]; !ok {
					r.edges[key] = t
				}
			}
		}
		plan[id] = r
	}

	for id, s := range a.states {
		r := plan[id]
		s.outbound = make(map[string]*Transition)
		for _, t := range r.edges {
			s.AddEdge(t.Dest, t.Symbol)
		}
		s.final = s.final || r.final
	}

	a.removeUnreachable()

	a.finals = make(map[string]*State)
	for id, s := range a.states {
		if s.final {
			a.finals[id] = s
		}
	}
}

func (a *Automaton) removeUnreachable() {
	visited := make(map[string]bool)
	var walk func(*State)
	walk = func(s *State) {
		if visited[s.id] {
			return
		}
		visited[s.id] = true
		for _, t := range s.outbound {
			walk(t.Dest)
		}
	}
	walk(a.start)

	for id, s := range a.states {
		if !visited[id] {
			delete(a.states, id)
			delete(a.finals, id)
		}
	}
}

// Determinize (the DFAify operation) eliminates ε-edges and performs
// classical subset construction. The new start is the set-state
// {start}; set-states are reused by structural (string) identity.
func (a *Automaton) Determinize() {
	a.RemoveEpsilonTransitions()

	startSet := NewSetState([]*State{a.start})
	newStates := map[string]*State{startSet.id: startSet}
	worklist := []*State{startSet}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		bySymbol := make(map[string][]*State)
		for _, member := range cur.members {
			for _, t := range member.outbound {
				bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t.Dest)
			}
		}

		for symbol, targets := range bySymbol {
			candidate := NewSetState(targets)
			next, exists := newStates[candidate.id]
			if !exists {
				next = candidate
				newStates[next.id] = next
				worklist = append(worklist, next)
			}
			cur.AddEdge(next, symbol)
		}
	}

	a.start = startSet
	a.states = newStates
	a.finals = make(map[string]*State)
	for id, s := range newStates {
		if s.final {
			a.finals[id] = s
		}
	}
}

// Minimize iterates to a fixed point, merging semantically equivalent
// state pairs (see State.SemanticallyEquivalent) until no pair merges.
// This is an approximation of canonical DFA minimization, sufficient
// for the small automata this generator produces.
func (a *Automaton) Minimize() {
	for {
		merged := false
		ids := a.sortedIDs()
	pairs:
		for _, id1 := range ids {
			s1, ok := a.states[id1]
			if !ok {
				continue
			}
			for _, id2 := range ids {
				if id1 == id2 {
					continue
				}
				s2, ok := a.states[id2]
				if !ok {
					continue
				}
				if s2 == a.start {
					continue
				}
				if s1.SemanticallyEquivalent(s2) {
					a.redirect(s2, s1)
					delete(a.states, s2.id)
					delete(a.finals, s2.id)
					merged = true
					break pairs
				}
			}
		}
		if !merged {
			break
		}
	}
}

func (a *Automaton) sortedIDs() []string {
	ids := make([]string, 0, len(a.states))
	for id := range a.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// redirect rewrites every incoming edge to drop so it instead points
// at keep.
func (a *Automaton) redirect(drop, keep *State) {
	for _, s := range a.states {
		if s == drop {
			continue
		}
		for _, t := range s.outbound {
			if t.Dest == drop {
				s.AddEdge(keep, t.Symbol)
				s.RemoveEdge(t)
			}
		}
	}
}

// Dot renders the automaton as a DOT graph for debugging.
func (a *Automaton) Dot(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n\ts [shape=none,label=\"\"]\n", name)
	for _, s := range a.states {
		shape := "circle"
		if s.final {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "\t%q [shape=%s]\n", s.id, shape)
	}
	fmt.Fprintf(&b, "\ts -> %q []\n", a.start.id)
	for _, s := range a.states {
		for _, t := range s.outbound {
			fmt.Fprintf(&b, "\t%q -> %q [label=%q]\n", s.id, t.Dest.id, escapeDotSymbol(t.Symbol))
		}
	}
	b.WriteString("}\n")
	return b.String()
}
