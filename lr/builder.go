package lr

import (
	"fmt"

	"github.com/npillmayer/golalr"
)

// GrammarBuilder is a builder type for grammars. Create one with
// NewGrammarBuilder and add rules with LHS:
//
//	b := NewGrammarBuilder("Expr")
//	b.Terminal("+", '+').Left(1)
//	b.LHS("E").N("E").T("+", '+').N("E").End()
//	b.LHS("E").T("id", scanner.Ident).End()
//	g, err := b.Grammar()
//
// The left hand side of the first rule is the start symbol, unless Start
// is called. The builder collects declarations and hands them to
// FromDeclarations, so grammars from both sources are validated identically.
type GrammarBuilder struct {
	name      string
	start     string
	terminals []*Declaration
	termIndex map[string]*Declaration
	rules     []Declaration
	errs      []error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar to build.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      gname,
		termIndex: make(map[string]*Declaration),
	}
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(s string) *RuleBuilder {
	if gb.start == "" {
		gb.start = s
	}
	return &RuleBuilder{gb: gb, decl: Declaration{Kind: RuleDecl, Head: s}}
}

// Start sets the start symbol of the grammar.
func (gb *GrammarBuilder) Start(s string) *GrammarBuilder {
	gb.start = s
	return gb
}

// Terminal declares a terminal with a token type. Use the returned
// TerminalBuilder to set precedence or a lexical pattern.
func (gb *GrammarBuilder) Terminal(name string, tokval int) *TerminalBuilder {
	d := gb.terminal(name, TokTypeRef(golalr.TokType(tokval)))
	return &TerminalBuilder{decl: d}
}

func (gb *GrammarBuilder) terminal(name string, t *golalr.TokType) *Declaration {
	if d, ok := gb.termIndex[name]; ok {
		if t != nil {
			if d.TokType == nil {
				d.TokType = t
			} else if *d.TokType != *t {
				gb.errs = append(gb.errs, grammarErr(nil, SymbolClash, name,
					"terminal used with token types %d and %d", *d.TokType, *t))
			}
		}
		return d
	}
	d := &Declaration{Kind: TerminalDecl, Head: name, TokType: t}
	gb.terminals = append(gb.terminals, d)
	gb.termIndex[name] = d
	return d
}

// Declarations returns the declarations collected so far.
func (gb *GrammarBuilder) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(gb.terminals)+len(gb.rules)+1)
	if gb.start != "" {
		decls = append(decls, Declaration{Kind: StartDecl, Head: gb.start})
	}
	for _, d := range gb.terminals {
		decls = append(decls, *d)
	}
	return append(decls, gb.rules...)
}

// Grammar returns the grammar built so far, or an error if the grammar is
// not valid.
func (gb *GrammarBuilder) Grammar(opts ...Option) (*Grammar, error) {
	if len(gb.errs) > 0 {
		if e, ok := gb.errs[0].(*GrammarError); ok {
			e.Grammar = gb.name
		}
		return nil, gb.errs[0]
	}
	return FromDeclarations(gb.name, gb.Declarations(), opts...)
}

// --- Terminals -------------------------------------------------------------

// TerminalBuilder sets properties of a terminal declaration.
type TerminalBuilder struct {
	decl *Declaration
}

// Left declares a terminal to be left-associative with precedence level.
func (tb *TerminalBuilder) Left(level int) *TerminalBuilder {
	tb.decl.Prec = &Precedence{Level: level, Assoc: LeftAssoc}
	return tb
}

// Right declares a terminal to be right-associative with precedence level.
func (tb *TerminalBuilder) Right(level int) *TerminalBuilder {
	tb.decl.Prec = &Precedence{Level: level, Assoc: RightAssoc}
	return tb
}

// NonAssoc declares a terminal to be non-associative with precedence level.
func (tb *TerminalBuilder) NonAssoc(level int) *TerminalBuilder {
	tb.decl.Prec = &Precedence{Level: level, Assoc: NonAssoc}
	return tb
}

// Pattern sets a lexical pattern (a regular expression) for the terminal.
func (tb *TerminalBuilder) Pattern(p string) *TerminalBuilder {
	tb.decl.Pattern = p
	return tb
}

// --- Rules -----------------------------------------------------------------

// RuleBuilder is a builder type for rules.
type RuleBuilder struct {
	gb   *GrammarBuilder
	decl Declaration
	rhs  []string
}

// N appends a non-terminal to the builder.
// The internal rule is modified and the builder is returned.
func (rb *RuleBuilder) N(s string) *RuleBuilder {
	rb.rhs = append(rb.rhs, s)
	return rb
}

// T appends a terminal to the builder.
// The internal rule is modified and the builder is returned.
func (rb *RuleBuilder) T(s string, tokval int) *RuleBuilder {
	rb.gb.terminal(s, TokTypeRef(golalr.TokType(tokval)))
	rb.rhs = append(rb.rhs, s)
	return rb
}

// L appends a literal terminal, i.e. a terminal without an explicit token type.
// Its token type is derived from its name (see FromDeclarations).
func (rb *RuleBuilder) L(s string) *RuleBuilder {
	rb.gb.terminal(s, nil)
	rb.rhs = append(rb.rhs, s)
	return rb
}

// Prec sets an explicit precedence for the rule, overriding the precedence
// of its rightmost terminal.
func (rb *RuleBuilder) Prec(level int, assoc Assoc) *RuleBuilder {
	rb.decl.Prec = &Precedence{Level: level, Assoc: assoc}
	return rb
}

// Unreachable marks the left hand side of the rule as intentionally
// unreachable from the start symbol.
func (rb *RuleBuilder) Unreachable() *RuleBuilder {
	rb.decl.Unreachable = true
	return rb
}

// End a rule.
// The rule is appended to the grammar and the grammar builder is returned.
func (rb *RuleBuilder) End() *GrammarBuilder {
	rb.decl.Alternatives = [][]string{rb.rhs}
	rb.gb.rules = append(rb.gb.rules, rb.decl)
	return rb.gb
}

// Epsilon sets epsilon as the RHS of a production.
// This must be called directly after rb.LHS(...).
// It closes the rule, thus no call to End() must follow.
func (rb *RuleBuilder) Epsilon() *GrammarBuilder {
	if len(rb.rhs) > 0 {
		rb.gb.errs = append(rb.gb.errs, fmt.Errorf("epsilon rule for %s has symbols %v", rb.decl.Head, rb.rhs))
	}
	rb.rhs = []string{}
	return rb.End()
}
