package lr

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/golalr"
)

// DeclKind is the kind of a grammar declaration.
type DeclKind int

// Kinds of declarations.
const (
	RuleDecl DeclKind = iota + 1
	TerminalDecl
	StartDecl
)

func (k DeclKind) String() string {
	switch k {
	case RuleDecl:
		return "rule"
	case TerminalDecl:
		return "terminal"
	case StartDecl:
		return "start"
	}
	return "?"
}

// Declaration is the abstract syntax of a grammar source. Grammar readers
// (see package grammarfile) produce a sequence of declarations, which is turned
// into a validated grammar by FromDeclarations.
//
//	{Kind: RuleDecl, Head: "E", Alternatives: [][]string{{"E", "+", "E"}, {"id"}}}
//	{Kind: TerminalDecl, Head: "+", Prec: &Precedence{1, LeftAssoc}}
//	{Kind: StartDecl, Head: "E"}
//
// An empty alternative denotes an epsilon-production. Several rule declarations
// may share a head; rules are numbered in order of declaration.
type Declaration struct {
	Kind         DeclKind
	Head         string
	Alternatives [][]string      // rules only
	Prec         *Precedence     // rules and terminals, optional
	Unreachable  bool            // rules only: non-terminal is unreachable on purpose
	TokType      *golalr.TokType // terminals only, optional
	Pattern      string          // terminals only, optional lexical pattern
}

func (d Declaration) String() string {
	switch d.Kind {
	case RuleDecl:
		return fmt.Sprintf("rule %s → %v", d.Head, d.Alternatives)
	case TerminalDecl:
		return fmt.Sprintf("terminal %s", d.Head)
	}
	return fmt.Sprintf("%s %s", d.Kind, d.Head)
}

// TokTypeRef is a helper for declaring terminals with a fixed token type.
func TokTypeRef(t golalr.TokType) *golalr.TokType {
	return &t
}

// FromDeclarations creates a validated grammar from a sequence of declarations.
// Rule 0 of the resulting grammar is the augmented start rule S' → S.
//
// If the declarations do not describe a valid grammar, a *GrammarError is
// returned. Non-terminals which are unreachable from the start symbol are an
// error, unless their declaration is flagged as Unreachable. In this case they
// are reported as warnings (see Grammar.Warnings).
func FromDeclarations(name string, decls []Declaration, opts ...Option) (*Grammar, error) {
	cfg := makeConfig(opts)
	g := newGrammar(name)
	heads, err := checkNamespaces(g, decls)
	if err != nil {
		return nil, err
	}
	if err = declareTerminals(g, decls); err != nil {
		return nil, err
	}
	startName, err := findStart(g, decls, heads)
	if err != nil {
		return nil, err
	}
	if err = declareRules(g, decls, startName); err != nil {
		return nil, err
	}
	if err = checkReachability(g, decls); err != nil {
		return nil, err
	}
	for _, A := range g.terminals[1:] {
		if !isUsed(g, A) {
			g.warnings = append(g.warnings, Diagnostic{
				Severity: Info,
				Kind:     "unused-terminal",
				State:    -1,
				Symbol:   A.Name,
				Message:  fmt.Sprintf("terminal %s is not used by any rule", A.Name),
			})
		}
	}
	cfg.observer.GrammarLoaded(g)
	for _, d := range g.warnings {
		cfg.observer.Diagnostic(d)
	}
	return g, nil
}

// checkNamespaces collects the heads of rule declarations and checks that no
// name is declared as both terminal and non-terminal.
func checkNamespaces(g *Grammar, decls []Declaration) (map[string]bool, error) {
	heads := make(map[string]bool)
	terms := make(map[string]bool)
	ruleCount := 0
	for _, d := range decls {
		if d.Head == EOFName || d.Head == AugmentedName {
			return nil, grammarErr(g, SymbolClash, d.Head, "name is reserved")
		}
		switch d.Kind {
		case RuleDecl:
			if d.Head == "" {
				return nil, grammarErr(g, UndefinedSymbol, "", "rule declaration without head")
			}
			heads[d.Head] = true
			ruleCount += len(d.Alternatives)
		case TerminalDecl:
			if terms[d.Head] {
				return nil, grammarErr(g, SymbolClash, d.Head, "terminal declared twice")
			}
			terms[d.Head] = true
		}
	}
	for _, d := range decls {
		if d.Kind == RuleDecl && terms[d.Head] {
			return nil, grammarErr(g, SymbolClash, d.Head, "declared as terminal and as non-terminal")
		}
	}
	if ruleCount == 0 {
		return nil, grammarErr(g, EmptyGrammar, "", "no rules declared")
	}
	return heads, nil
}

// declareTerminals creates the terminal symbols and binds them to token types.
// Token types have to be unique. Terminals without an explicit token type get
// their rune value, if the name consists of a single rune. All others get
// ascending values beyond the range of runes and of all assigned values.
func declareTerminals(g *Grammar, decls []Declaration) error {
	var pending []*Symbol
	maxAssigned := golalr.TokType(unicode.MaxRune)
	bind := func(A *Symbol, t golalr.TokType) error {
		if other, ok := g.byTokType[t]; ok {
			return grammarErr(g, SymbolClash, A.Name, "token type %d already bound to %s", t, other.Name)
		}
		A.tokType = t
		g.byTokType[t] = A
		if t > maxAssigned {
			maxAssigned = t
		}
		return nil
	}
	for _, d := range decls {
		if d.Kind != TerminalDecl {
			continue
		}
		A := &Symbol{Name: d.Head, Value: len(g.terminals), terminal: true, pattern: d.Pattern}
		if d.Prec != nil {
			A.prec = *d.Prec
		}
		g.terminals = append(g.terminals, A)
		g.symbols[A.Name] = A
		if d.TokType != nil {
			if err := bind(A, *d.TokType); err != nil {
				return err
			}
		} else {
			pending = append(pending, A)
		}
	}
	var rest []*Symbol
	for _, A := range pending {
		if r, size := utf8.DecodeRuneInString(A.Name); size == len(A.Name) && r != utf8.RuneError {
			if _, taken := g.byTokType[golalr.TokType(r)]; !taken {
				_ = bind(A, golalr.TokType(r))
				continue
			}
		}
		rest = append(rest, A)
	}
	for _, A := range rest {
		if err := bind(A, maxAssigned+1); err != nil {
			return err
		}
	}
	return nil
}

func findStart(g *Grammar, decls []Declaration, heads map[string]bool) (string, error) {
	start := ""
	for _, d := range decls {
		if d.Kind != StartDecl {
			continue
		}
		if start != "" {
			return "", grammarErr(g, DuplicateStartSymbol, d.Head, "start symbol already declared as %s", start)
		}
		start = d.Head
	}
	if start == "" {
		return "", grammarErr(g, MissingStartSymbol, "", "no start symbol declared")
	}
	if !heads[start] {
		if A, ok := g.symbols[start]; ok && A.terminal {
			return "", grammarErr(g, MissingStartSymbol, start, "start symbol is a terminal")
		}
		return "", grammarErr(g, MissingStartSymbol, start, "start symbol has no rules")
	}
	return start, nil
}

// declareRules creates the rules in order of declaration, preceded by the
// augmented start rule. Non-terminals are numbered in order of their first
// rule.
func declareRules(g *Grammar, decls []Declaration, start string) error {
	nonterm := func(name string) *Symbol {
		if N, ok := g.symbols[name]; ok {
			return N
		}
		N := &Symbol{Name: name, Value: len(g.nonterminals)}
		g.nonterminals = append(g.nonterminals, N)
		g.symbols[name] = N
		return N
	}
	for _, d := range decls { // create non-terminals first, so forward references resolve
		if d.Kind == RuleDecl && len(d.Alternatives) > 0 {
			nonterm(d.Head)
		}
	}
	for _, d := range decls {
		if _, ok := g.symbols[d.Head]; !ok && d.Kind == RuleDecl {
			return grammarErr(g, UndefinedSymbol, d.Head, "non-terminal has no rules")
		}
	}
	g.start = g.symbols[start]
	g.rules = append(g.rules, &Rule{Serial: 0, LHS: g.nonterminals[0], rhs: []*Symbol{g.start}})
	for _, d := range decls {
		if d.Kind != RuleDecl {
			continue
		}
		lhs := g.symbols[d.Head]
		for _, alt := range d.Alternatives {
			r := &Rule{Serial: len(g.rules), LHS: lhs}
			for _, name := range alt {
				A, ok := g.symbols[name]
				if !ok || A == g.nonterminals[0] || A == g.terminals[0] {
					return grammarErr(g, UndefinedSymbol, name, "used in rule for %s", d.Head)
				}
				r.rhs = append(r.rhs, A)
			}
			if d.Prec != nil && d.Prec.IsSet() {
				r.prec = *d.Prec
			} else {
				for i := len(r.rhs) - 1; i >= 0; i-- {
					if r.rhs[i].terminal && r.rhs[i].prec.IsSet() {
						r.prec = r.rhs[i].prec
						break
					}
				}
			}
			g.rules = append(g.rules, r)
		}
	}
	g.rulesByLHS = make([][]*Rule, len(g.nonterminals))
	for _, r := range g.rules {
		g.rulesByLHS[r.LHS.Value] = append(g.rulesByLHS[r.LHS.Value], r)
	}
	return nil
}

// checkReachability computes the closure of non-terminals reachable from the
// start symbol.
func checkReachability(g *Grammar, decls []Declaration) error {
	reached := make([]bool, len(g.nonterminals))
	reached[0] = true
	queue := []*Symbol{g.nonterminals[0]}
	for len(queue) > 0 {
		N := queue[0]
		queue = queue[1:]
		for _, r := range g.rulesByLHS[N.Value] {
			for _, A := range r.rhs {
				if !A.terminal && !reached[A.Value] {
					reached[A.Value] = true
					queue = append(queue, A)
				}
			}
		}
	}
	intended := make(map[string]bool)
	for _, d := range decls {
		if d.Kind == RuleDecl && d.Unreachable {
			intended[d.Head] = true
		}
	}
	for _, N := range g.nonterminals {
		if reached[N.Value] {
			continue
		}
		if !intended[N.Name] {
			return grammarErr(g, UnreachableNonterminal, N.Name, "no derivation from start symbol %s", g.start)
		}
		g.tolerated[N] = true
		g.warnings = append(g.warnings, Diagnostic{
			Severity: Warning,
			Kind:     "unreachable",
			State:    -1,
			Symbol:   N.Name,
			Message:  fmt.Sprintf("non-terminal %s is unreachable from %s", N.Name, g.start),
		})
	}
	return nil
}

func isUsed(g *Grammar, A *Symbol) bool {
	for _, r := range g.rules {
		for _, B := range r.rhs {
			if A == B {
				return true
			}
		}
	}
	return false
}

// Declarations returns a canonical declaration sequence for grammar g.
// FromDeclarations will re-create an equivalent grammar from it, with identical
// numbering of symbols and rules.
func (g *Grammar) Declarations() []Declaration {
	decls := []Declaration{{Kind: StartDecl, Head: g.start.Name}}
	for _, A := range g.terminals[1:] {
		d := Declaration{
			Kind:    TerminalDecl,
			Head:    A.Name,
			TokType: TokTypeRef(A.tokType),
			Pattern: A.pattern,
		}
		if A.prec.IsSet() {
			p := A.prec
			d.Prec = &p
		}
		decls = append(decls, d)
	}
	for _, r := range g.rules[1:] {
		alt := make([]string, len(r.rhs))
		for i, A := range r.rhs {
			alt[i] = A.Name
		}
		d := Declaration{
			Kind:         RuleDecl,
			Head:         r.LHS.Name,
			Alternatives: [][]string{alt},
			Unreachable:  g.tolerated[r.LHS],
		}
		if r.prec.IsSet() {
			p := r.prec
			d.Prec = &p
		}
		decls = append(decls, d)
	}
	return decls
}
