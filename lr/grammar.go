package lr

import (
	"bytes"
	"fmt"
	"text/scanner"

	"github.com/npillmayer/golalr"
)

// Names of the symbols every grammar carries implicitly.
const (
	EOFName       = "#eof" // end of input marker
	AugmentedName = "S'"   // left hand side of the augmented start rule
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, either a terminal or a non-terminal.
// Terminals and non-terminals live in separate namespaces and are numbered
// separately: Value is the index of a symbol within its namespace.
type Symbol struct {
	Name     string
	Value    int // serial number within terminals or non-terminals
	terminal bool
	tokType  golalr.TokType // terminals only
	pattern  string         // lexical pattern for terminals, may be empty
	prec     Precedence     // terminals only
}

// IsTerminal returns true if this symbol represents a terminal.
func (A *Symbol) IsTerminal() bool {
	return A.terminal
}

// TokenType returns the token type a terminal is bound to. For non-terminals
// it returns 0.
func (A *Symbol) TokenType() golalr.TokType {
	return A.tokType
}

// Pattern returns the lexical pattern declared for a terminal. An empty pattern
// means the terminal matches its name literally.
func (A *Symbol) Pattern() string {
	return A.pattern
}

// Precedence returns the precedence declared for a terminal.
func (A *Symbol) Precedence() Precedence {
	return A.prec
}

// IsEOF is true for the end of input marker.
func (A *Symbol) IsEOF() bool {
	return A.terminal && A.Value == 0
}

func (A *Symbol) String() string {
	return A.Name
}

// --- Precedence ------------------------------------------------------------

// Assoc is the associativity of an operator.
type Assoc int

// Associativities. NoAssoc means no associativity has been declared.
const (
	NoAssoc Assoc = iota
	LeftAssoc
	RightAssoc
	NonAssoc
)

func (a Assoc) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	case NonAssoc:
		return "nonassoc"
	}
	return "none"
}

// Precedence is a precedence level together with an associativity.
// Higher levels bind tighter. Level 0 means no precedence.
type Precedence struct {
	Level int
	Assoc Assoc
}

// IsSet is true if a precedence level has been declared.
func (p Precedence) IsSet() bool {
	return p.Level > 0
}

func (p Precedence) String() string {
	if !p.IsSet() {
		return "<no prec>"
	}
	return fmt.Sprintf("<%s %d>", p.Assoc, p.Level)
}

// --- Rules -----------------------------------------------------------------

// Rule is a type for rules of a grammar. Rules are immutable after grammar
// construction. Serial is the stable index of a rule, used as a tag for
// reduce actions.
type Rule struct {
	Serial int
	LHS    *Symbol
	rhs    []*Symbol
	prec   Precedence
}

// RHS returns a copy of the right hand side of a rule.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the number of symbols of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for rules with an empty right hand side.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// Precedence returns the effective precedence of a rule: either declared
// explicitly or inherited from its rightmost terminal with a precedence.
func (r *Rule) Precedence() Precedence {
	return r.prec
}

func (r *Rule) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("[%s] ::= [", r.LHS))
	for i, sym := range r.rhs {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.Name)
	}
	b.WriteString("]")
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar. Rule 0 is always the
// augmented start rule S' → S, terminal 0 is always the end of input marker
// and non-terminal 0 is always S'. Grammars are created by a GrammarBuilder
// or from declarations (see FromDeclarations) and are immutable.
type Grammar struct {
	Name         string
	rules        []*Rule
	terminals    []*Symbol
	nonterminals []*Symbol
	rulesByLHS   [][]*Rule // indexed by non-terminal value
	symbols      map[string]*Symbol
	byTokType    map[golalr.TokType]*Symbol
	start        *Symbol
	tolerated    map[*Symbol]bool // unreachable, but marked as intended
	warnings     []Diagnostic     // non-fatal findings of grammar validation
}

func newGrammar(name string) *Grammar {
	g := &Grammar{
		Name:      name,
		symbols:   make(map[string]*Symbol),
		byTokType: make(map[golalr.TokType]*Symbol),
		tolerated: make(map[*Symbol]bool),
	}
	eof := &Symbol{Name: EOFName, terminal: true, tokType: golalr.TokType(scanner.EOF)}
	g.terminals = append(g.terminals, eof)
	g.symbols[EOFName] = eof
	g.byTokType[eof.tokType] = eof
	sprime := &Symbol{Name: AugmentedName}
	g.nonterminals = append(g.nonterminals, sprime)
	g.symbols[AugmentedName] = sprime
	return g
}

// Rule returns the rule with serial number no, or nil.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Start returns the start symbol of the grammar (not the augmented one).
func (g *Grammar) Start() *Symbol {
	return g.start
}

// EOF returns the end of input marker.
func (g *Grammar) EOF() *Symbol {
	return g.terminals[0]
}

// Augmented returns the left hand side of the augmented start rule.
func (g *Grammar) Augmented() *Symbol {
	return g.nonterminals[0]
}

// TerminalCount returns the number of terminals, including the EOF marker.
func (g *Grammar) TerminalCount() int {
	return len(g.terminals)
}

// NonTerminalCount returns the number of non-terminals, including S'.
func (g *Grammar) NonTerminalCount() int {
	return len(g.nonterminals)
}

// Terminal returns the terminal with value n, or nil.
func (g *Grammar) Terminal(n int) *Symbol {
	if n < 0 || n >= len(g.terminals) {
		return nil
	}
	return g.terminals[n]
}

// NonTerminal returns the non-terminal with value n, or nil.
func (g *Grammar) NonTerminal(n int) *Symbol {
	if n < 0 || n >= len(g.nonterminals) {
		return nil
	}
	return g.nonterminals[n]
}

// SymbolByName returns a grammar symbol, given its name.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symbols[name]
}

// TerminalByTokType returns the terminal bound to a token type, or nil.
func (g *Grammar) TerminalByTokType(t golalr.TokType) *Symbol {
	return g.byTokType[t]
}

// RulesFor returns all rules with non-terminal N as their left hand side,
// ordered by serial number.
func (g *Grammar) RulesFor(N *Symbol) []*Rule {
	if N == nil || N.terminal || N.Value >= len(g.rulesByLHS) {
		return nil
	}
	return g.rulesByLHS[N.Value]
}

// IsTolerated returns true for a non-terminal which is unreachable from the
// start symbol, but has been declared as intentionally unreachable.
func (g *Grammar) IsTolerated(N *Symbol) bool {
	return g.tolerated[N]
}

// Warnings returns non-fatal findings of grammar validation.
func (g *Grammar) Warnings() []Diagnostic {
	return append([]Diagnostic(nil), g.warnings...)
}

// EachTerminal iterates over all terminals of the grammar, in order of their
// value. The EOF marker is included. Return values of the mapper function
// are collected.
func (g *Grammar) EachTerminal(mapper func(A *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.terminals {
		r = append(r, mapper(A))
	}
	return r
}

// EachNonTerminal iterates over all non-terminals of the grammar, in order of
// their value. S' is not included.
func (g *Grammar) EachNonTerminal(mapper func(N *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, N := range g.nonterminals[1:] {
		r = append(r, mapper(N))
	}
	return r
}

// EachSymbol iterates over all symbols of the grammar, terminals first.
// The pseudo symbols EOF and S' are not included.
func (g *Grammar) EachSymbol(mapper func(A *Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.terminals[1:] {
		r = append(r, mapper(A))
	}
	for _, N := range g.nonterminals[1:] {
		r = append(r, mapper(N))
	}
	return r
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	tracer().Debugf("start symbol = %s", g.start)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}
