package grammarfile

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/golalr/lr"
	"golang.org/x/exp/ebnf"
)

// ParseEBNF reads a grammar in EBNF format. The first syntactic production
// of the file is declared as the start symbol.
func ParseEBNF(filename string, r io.Reader) (*Spec, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	prods := make([]*ebnf.Production, 0, len(grammar))
	for _, p := range grammar {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Pos().Offset < prods[j].Pos().Offset
	})
	var start string
	for _, p := range prods {
		if !isLexical(p.Name.String) {
			start = p.Name.String
			break
		}
	}
	if start == "" {
		return nil, fmt.Errorf("grammar contains no syntactic productions")
	}
	if err = ebnf.Verify(grammar, start); err != nil {
		return nil, err
	}
	tr := &translator{
		grammar:  grammar,
		terminal: make(map[string]bool),
		pattern:  make(map[string]string),
		helpers:  make(map[string]int),
	}
	var rules []lr.Declaration
	for _, p := range prods {
		if isLexical(p.Name.String) {
			continue
		}
		rules = append(rules, tr.production(p.Name.String, p.Expr)...)
	}
	if tr.err != nil {
		return nil, tr.err
	}
	spec := &Spec{}
	spec.Declarations = append(spec.Declarations, lr.Declaration{Kind: lr.StartDecl, Head: start})
	for _, name := range tr.terminals {
		d := lr.Declaration{Kind: lr.TerminalDecl, Head: name}
		if isLexical(name) && grammar[name] != nil {
			if d.Pattern, err = tr.regex(name); err != nil {
				return nil, err
			}
		}
		spec.Declarations = append(spec.Declarations, d)
	}
	spec.Declarations = append(spec.Declarations, rules...)
	return spec, nil
}

// isLexical is true for names of lexical productions, i.e. names starting
// with a lower case letter.
func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// translator rewrites syntactic EBNF productions into rule declarations.
type translator struct {
	grammar   ebnf.Grammar
	terminals []string          // terminals in order of first occurence
	terminal  map[string]bool   // set of terminals
	pattern   map[string]string // regex cache for lexical productions
	helpers   map[string]int    // number of helper non-terminals per production
	err       error
}

// production translates the right hand side of a syntactic production into
// one or more rule declarations. The first one is for lhs, further ones are
// for helper non-terminals.
func (tr *translator) production(lhs string, expr ebnf.Expression) []lr.Declaration {
	var helpers []lr.Declaration
	var alts [][]string
	if alt, ok := expr.(ebnf.Alternative); ok {
		for _, x := range alt {
			alts = append(alts, tr.sequence(lhs, x, &helpers))
		}
	} else {
		alts = [][]string{tr.sequence(lhs, expr, &helpers)}
	}
	d := lr.Declaration{Kind: lr.RuleDecl, Head: lhs, Alternatives: alts}
	return append([]lr.Declaration{d}, helpers...)
}

// sequence translates an expression into a sequence of symbol names. Nested
// constructs are replaced by helper non-terminals, which are collected in
// helpers.
func (tr *translator) sequence(lhs string, expr ebnf.Expression, helpers *[]lr.Declaration) []string {
	var seq []string
	switch x := expr.(type) {
	case nil:
		return []string{}
	case ebnf.Sequence:
		for _, e := range x {
			seq = append(seq, tr.sequence(lhs, e, helpers)...)
		}
		return seq
	case *ebnf.Name:
		if isLexical(x.String) {
			tr.addTerminal(x.String)
		}
		return []string{x.String}
	case *ebnf.Token:
		tr.addTerminal(x.String)
		return []string{x.String}
	case *ebnf.Group:
		h := tr.helper(lhs)
		*helpers = append(*helpers, tr.production(h, x.Body)...)
		return []string{h}
	case *ebnf.Option: // H → Body | ε
		h := tr.helper(lhs)
		decls := tr.production(h, x.Body)
		decls[0].Alternatives = append(decls[0].Alternatives, []string{})
		*helpers = append(*helpers, decls...)
		return []string{h}
	case *ebnf.Repetition: // H → H Body | ε
		h := tr.helper(lhs)
		decls := tr.production(h, x.Body)
		for i, alt := range decls[0].Alternatives {
			decls[0].Alternatives[i] = append([]string{h}, alt...)
		}
		decls[0].Alternatives = append(decls[0].Alternatives, []string{})
		*helpers = append(*helpers, decls...)
		return []string{h}
	case ebnf.Alternative:
		h := tr.helper(lhs)
		*helpers = append(*helpers, tr.production(h, x)...)
		return []string{h}
	default:
		if tr.err == nil {
			tr.err = fmt.Errorf("%v: %T not allowed in syntactic production %s", expr.Pos(), expr, lhs)
		}
	}
	return seq
}

func (tr *translator) helper(lhs string) string {
	tr.helpers[lhs]++
	return fmt.Sprintf("%s$%d", lhs, tr.helpers[lhs])
}

func (tr *translator) addTerminal(name string) {
	if !tr.terminal[name] {
		tr.terminal[name] = true
		tr.terminals = append(tr.terminals, name)
	}
}

// --- Lexical productions ---------------------------------------------------

// regex derives a regular expression in lexmachine syntax for a lexical
// production.
func (tr *translator) regex(name string) (string, error) {
	if re, ok := tr.pattern[name]; ok {
		if re == "" {
			return "", fmt.Errorf("lexical production %s is recursive", name)
		}
		return re, nil
	}
	tr.pattern[name] = "" // marks production as in progress
	var b strings.Builder
	if err := tr.writeRegex(&b, tr.grammar[name].Expr); err != nil {
		return "", fmt.Errorf("lexical production %s: %w", name, err)
	}
	tr.pattern[name] = b.String()
	tracer().Debugf("pattern for %s is %q", name, b.String())
	return b.String(), nil
}

func (tr *translator) writeRegex(b *strings.Builder, expr ebnf.Expression) error {
	switch x := expr.(type) {
	case nil:
	case ebnf.Sequence:
		for _, e := range x {
			if err := tr.writeRegex(b, e); err != nil {
				return err
			}
		}
	case ebnf.Alternative:
		b.WriteByte('(')
		for i, e := range x {
			if i > 0 {
				b.WriteByte('|')
			}
			if err := tr.writeRegex(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	case *ebnf.Group:
		return tr.wrapRegex(b, x.Body, "")
	case *ebnf.Option:
		return tr.wrapRegex(b, x.Body, "?")
	case *ebnf.Repetition:
		return tr.wrapRegex(b, x.Body, "*")
	case *ebnf.Token:
		for _, r := range x.String {
			writeRune(b, r)
		}
	case *ebnf.Range:
		b.WriteByte('[')
		writeRune(b, firstRune(x.Begin.String))
		b.WriteByte('-')
		writeRune(b, firstRune(x.End.String))
		b.WriteByte(']')
	case *ebnf.Name:
		re, err := tr.regex(x.String)
		if err != nil {
			return err
		}
		b.WriteByte('(')
		b.WriteString(re)
		b.WriteByte(')')
	default:
		return fmt.Errorf("%v: unsupported expression %T", expr.Pos(), expr)
	}
	return nil
}

func (tr *translator) wrapRegex(b *strings.Builder, body ebnf.Expression, op string) error {
	b.WriteByte('(')
	if err := tr.writeRegex(b, body); err != nil {
		return err
	}
	b.WriteByte(')')
	b.WriteString(op)
	return nil
}

// writeRune writes r to a regular expression, escaping punctuation and
// symbols.
func writeRune(b *strings.Builder, r rune) {
	switch {
	case r == '\t':
		b.WriteString(`\t`)
	case r == '\n':
		b.WriteString(`\n`)
	case r == '\r':
		b.WriteString(`\r`)
	case unicode.IsPunct(r) || unicode.IsSymbol(r):
		b.WriteByte('\\')
		b.WriteRune(r)
	default:
		b.WriteRune(r)
	}
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
