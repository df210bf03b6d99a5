// Command yunolex compiles a declarative token specification into a
// table-driven Go lexer.
package main

import (
	"os"
	"path/filepath"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"

	"github.com/ephing/yunolex/automata"
	"github.com/ephing/yunolex/emit"
	"github.com/ephing/yunolex/tokenspec"
)

type options struct {
	input  string
	output string
	dotDir string
}

func parseFlags() *options {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("yunolex compiles a token specification into a table-driven Go lexer.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.input, "input", "i", "", "token specification file to compile"),
	)
	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.output, "output", "o", "lexer.go", "path to write the generated lexer to"),
		flagSet.StringVarP(&opts.dotDir, "dot", "d", "", "directory to dump each token's DFA as a .dot file"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not parse flags: %s", err)
	}
	if opts.input == "" {
		gologger.Fatal().Msgf("-i/--input is required")
	}
	return opts
}

func main() {
	opts := parseFlags()

	gologger.Info().Msgf("reading specification from %s", opts.input)
	f, err := os.Open(opts.input)
	if err != nil {
		gologger.Fatal().Msgf("could not open %s: %s", opts.input, err)
	}
	tokens, err := tokenspec.ParseSpec(f)
	f.Close()
	if err != nil {
		gologger.Fatal().Msgf("specification invalid: %s", err)
	}
	gologger.Info().Msgf("parsed %d token(s)", len(tokens))

	compiled := make([]emit.Compiled, 0, len(tokens))
	for _, tok := range tokens {
		gologger.Info().Msgf("compiling token %s", tok.Name)
		dfa := tok.Regex.Automata()
		dfa.Determinize()
		dfa.Minimize()

		if opts.dotDir != "" {
			if err := writeDot(opts.dotDir, tok.Name, dfa); err != nil {
				gologger.Fatal().Msgf("could not write dot file for %s: %s", tok.Name, err)
			}
		}

		compiled = append(compiled, emit.Compiled{Token: tok, DFA: dfa})
	}

	gologger.Info().Msgf("writing generated lexer to %s", opts.output)
	if err := (emit.Emitter{}).EmitFile(opts.output, compiled); err != nil {
		gologger.Fatal().Msgf("%s", err)
	}

	gologger.Info().Msgf("done")
}

func writeDot(dir, name string, a *automata.Automaton) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name+".dot")
	return os.WriteFile(path, []byte(a.Dot(name)), 0o644)
}
