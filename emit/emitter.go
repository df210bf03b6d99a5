// Package emit turns a compiled set of token automata into a
// self-contained Go source file: the yunolexrt runtime template
// verbatim, followed by a generated registration of every token's
// minimized DFA.
package emit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ephing/yunolex/automata"
	"github.com/ephing/yunolex/emit/yunolexrt"
	"github.com/ephing/yunolex/tokenspec"
)

// Compiled pairs a token descriptor with its minimized DFA, in the
// order the token was declared in the specification file. Order is
// significant: it is the registration order the generated runtime
// uses to break matching ties (earlier wins).
type Compiled struct {
	Token *tokenspec.Token
	DFA   *automata.Automaton
}

// BuildRuntimeAutomaton converts a minimized DFA and its token
// metadata into the wire representation the yunolexrt runtime
// consumes directly. It is used both by Emitter (to serialize the
// equivalent Go literal) and by tests that want to exercise the
// runtime without round-tripping through generated source text.
func BuildRuntimeAutomaton(c Compiled) *yunolexrt.Automaton {
	states := c.DFA.States()
	trans := make(map[string]map[byte]string, len(states))
	finals := make(map[string]bool, len(c.DFA.FinalStates()))

	for id, s := range states {
		row := make(map[byte]string, len(s.Outbound()))
		for _, t := range s.Outbound() {
			if len(t.Symbol) != 1 {
				continue // ε edges are gone after Determinize; defensive only
			}
			row[t.Symbol[0]] = t.Dest.ID()
		}
		trans[id] = row
		if s.IsFinal() {
			finals[id] = true
		}
	}

	return &yunolexrt.Automaton{
		Name:        c.Token.Name,
		Start:       c.DFA.Start().ID(),
		Transitions: trans,
		Finals:      finals,
		In:          c.Token.In,
		Enter:       c.Token.Enter,
		Leave:       c.Token.Leave,
		Skip:        c.Token.Skip,
		Error:       c.Token.Error,
		ErrorMsg:    c.Token.ErrorMsg,
	}
}

// Emitter writes the verbatim runtime template plus a generated
// registration tail to a Go source file.
type Emitter struct{}

// Emit writes the complete generated lexer source to w: the runtime
// template, then the GeneratedAutomata registration, then a
// NewGeneratedLexer constructor over that registration.
func (Emitter) Emit(w io.Writer, compiled []Compiled) error {
	if _, err := io.WriteString(w, runtimeTemplate); err != nil {
		return err
	}
	if !strings.HasSuffix(runtimeTemplate, "\n") {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	var b strings.Builder
	b.WriteString("\n// GeneratedAutomata holds one compiled Automaton per token rule,\n")
	b.WriteString("// in declaration order from the specification file.\n")
	b.WriteString("var GeneratedAutomata = []*Automaton{\n")
	for _, c := range compiled {
		writeAutomatonLiteral(&b, BuildRuntimeAutomaton(c))
	}
	b.WriteString("}\n\n")
	b.WriteString("// NewGeneratedLexer builds a Lexer over every registered automaton.\n")
	b.WriteString("func NewGeneratedLexer() *Lexer {\n\treturn NewLexer(GeneratedAutomata)\n}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// EmitFile is the CLI-facing convenience wrapper: it creates path,
// calls Emit, and wraps any failure as ErrEmitIO.
func (e Emitter) EmitFile(path string, compiled []Compiled) error {
	f, err := os.Create(path)
	if err != nil {
		return &ErrEmitIO{Path: path, Err: err}
	}
	defer f.Close()

	if err := e.Emit(f, compiled); err != nil {
		return &ErrEmitIO{Path: path, Err: err}
	}
	return nil
}

func writeAutomatonLiteral(b *strings.Builder, a *yunolexrt.Automaton) {
	fmt.Fprintf(b, "\t{\n")
	fmt.Fprintf(b, "\t\tName:  %q,\n", a.Name)
	fmt.Fprintf(b, "\t\tStart: %q,\n", a.Start)
	writeTransitionsLiteral(b, a.Transitions)
	writeFinalsLiteral(b, a.Finals)
	writeStringSetLiteral(b, "In", a.In)
	writeStringSetLiteral(b, "Enter", a.Enter)
	writeStringSetLiteral(b, "Leave", a.Leave)
	fmt.Fprintf(b, "\t\tSkip:     %v,\n", a.Skip)
	fmt.Fprintf(b, "\t\tError:    %v,\n", a.Error)
	fmt.Fprintf(b, "\t\tErrorMsg: %q,\n", a.ErrorMsg)
	fmt.Fprintf(b, "\t},\n")
}

func writeTransitionsLiteral(b *strings.Builder, trans map[string]map[byte]string) {
	b.WriteString("\t\tTransitions: map[string]map[byte]string{\n")
	for _, id := range sortedKeys(trans) {
		row := trans[id]
		fmt.Fprintf(b, "\t\t\t%q: {", id)
		keys := make([]int, 0, len(row))
		for c := range row {
			keys = append(keys, int(c))
		}
		sort.Ints(keys)
		for i, c := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%d: %q", c, row[byte(c)])
		}
		b.WriteString("},\n")
	}
	b.WriteString("\t\t},\n")
}

func writeFinalsLiteral(b *strings.Builder, finals map[string]bool) {
	b.WriteString("\t\tFinals: map[string]bool{")
	ids := make([]string, 0, len(finals))
	for id := range finals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%q: true", id)
	}
	b.WriteString("},\n")
}

func writeStringSetLiteral(b *strings.Builder, field string, set map[string]bool) {
	fmt.Fprintf(b, "\t\t%s: map[string]bool{", field)
	items := make([]string, 0, len(set))
	for s := range set {
		items = append(items, s)
	}
	sort.Strings(items)
	for i, s := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%q: true", s)
	}
	b.WriteString("},\n")
}

func sortedKeys(m map[string]map[byte]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
