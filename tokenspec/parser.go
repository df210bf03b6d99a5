package tokenspec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/projectdiscovery/gologger"

	"github.com/ephing/yunolex/regex"
)

// SpecError is one diagnostic produced while parsing a specification
// file: a malformed field, a missing regex, or a propagated regex
// syntax error.
type SpecError struct {
	Line    int
	Message string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrSpecInvalid aggregates every SpecError found while parsing a
// specification file. At least one malformed token is enough to fail
// the parse as a whole, even though parsing itself continues past
// each individual failure so all errors can be reported together.
type ErrSpecInvalid struct {
	Errors []error
}

func (e *ErrSpecInvalid) Error() string {
	return fmt.Sprintf("token specification invalid: %d error(s)", len(e.Errors))
}

// ParseSpec reads a token-specification file per the field grammar:
// a line starting with '[' opens a token named by its bracketed body;
// subsequent lines are "field = value" (or "error \"msg\"")
// assignments to the most recently opened token. A malformed field
// is reported and the rest of its token's lines are skipped up to the
// next '['; ParseSpec still returns every token it opened, malformed
// ones included, together with an *ErrSpecInvalid carrying every
// diagnostic if any token was malformed.
func ParseSpec(r io.Reader) ([]*Token, error) {
	scanner := bufio.NewScanner(r)

	var tokens []*Token
	var diags []error
	skip := false
	line := 0

	fail := func(l int, format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		gologger.Error().Msgf("%s [line %d]", msg, l)
		diags = append(diags, &SpecError{Line: l, Message: msg})
	}

	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		if raw[0] == '[' {
			skip = false
			if len(tokens) > 0 {
				if !tokens[len(tokens)-1].valid() {
					fail(line, "token %q has no regex", tokens[len(tokens)-1].Name)
				}
			}
			if !strings.HasSuffix(raw, "]") {
				fail(line, "expected ']' to close token header")
				skip = true
				continue
			}
			tokens = append(tokens, newToken(raw[1:len(raw)-1]))
			continue
		}

		if skip {
			continue
		}
		if len(tokens) == 0 {
			fail(line, "field assignment before any token header")
			continue
		}
		cur := tokens[len(tokens)-1]

		switch {
		case strings.HasPrefix(raw, "regex"):
			eq := strings.Index(raw, "=")
			if eq < 0 {
				fail(line, "malformed regex field, expected '='")
				skip = true
				continue
			}
			value, col := fieldValue(raw, eq)
			node, err := regex.Parse(value, line, col)
			if err != nil {
				fail(line, "regex error: %s", err)
				skip = true
				continue
			}
			cur.Regex = node

		case strings.HasPrefix(raw, "enter"):
			eq := strings.Index(raw, "=")
			if eq < 0 {
				fail(line, "malformed enter field, expected '='")
				skip = true
				continue
			}
			value, _ := fieldValue(raw, eq)
			parseSet(value, cur.Enter)

		case strings.HasPrefix(raw, "leave"):
			eq := strings.Index(raw, "=")
			if eq < 0 {
				fail(line, "malformed leave field, expected '='")
				skip = true
				continue
			}
			value, _ := fieldValue(raw, eq)
			parseSet(value, cur.Leave)

		case strings.HasPrefix(raw, "in"):
			eq := strings.Index(raw, "=")
			if eq < 0 {
				fail(line, "malformed in field, expected '='")
				skip = true
				continue
			}
			value, _ := fieldValue(raw, eq)
			parseSet(value, cur.In)
			if len(cur.In) == 0 {
				fail(line, "tokens must be within at least one scope")
				skip = true
				continue
			}

		case strings.HasPrefix(raw, "skip"):
			eq := strings.Index(raw, "=")
			if eq < 0 {
				fail(line, "malformed skip field, expected '='")
				skip = true
				continue
			}
			value, _ := fieldValue(raw, eq)
			cur.Skip = value == "true"

		case strings.HasPrefix(raw, "error"):
			cur.Error = true
			open := strings.Index(raw, "\"")
			if !strings.HasSuffix(raw, "\"") || open < 0 || open == len(raw)-1 {
				fail(line, "error message must be enclosed in quotation marks")
				skip = true
				continue
			}
			cur.ErrorMsg = raw[open+1 : len(raw)-1]

		default:
			fail(line, "unrecognized field %q", raw)
			skip = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(tokens) > 0 {
		if !tokens[len(tokens)-1].valid() {
			fail(line, "token %q has no regex", tokens[len(tokens)-1].Name)
		}
	}

	if len(diags) > 0 {
		return tokens, &ErrSpecInvalid{Errors: diags}
	}
	return tokens, nil
}

// fieldValue trims the text after '=' and computes its 1-based column
// in the whitespace-trimmed line, for attaching to downstream regex
// errors.
func fieldValue(raw string, eq int) (string, int) {
	rest := raw[eq+1:]
	trimmed := strings.TrimLeft(rest, " \t")
	col := eq + 1 + (len(rest) - len(trimmed)) + 1
	return strings.TrimSpace(rest), col
}

func parseSet(value string, into map[string]bool) {
	for _, s := range strings.Fields(value) {
		into[s] = true
	}
}
