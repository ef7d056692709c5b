package lr

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cnf/structhash"
	"github.com/npillmayer/golalr/lr/sparse"
)

// TableGenerator is a generator object to construct LALR(1) parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LALR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	cfg          *config
	dfa          *CFSM
	tables       *Tables
	diagnostics  []Diagnostic
	HasConflicts bool // true if any conflict has been found, resolved or not
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis, opts ...Option) *TableGenerator {
	return &TableGenerator{
		g:   ga.Grammar(),
		ga:  ga,
		cfg: makeConfig(opts),
	}
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = buildCFSM(lrgen.ga)
	}
	return lrgen.dfa
}

// Tables returns the tables created by CreateTables, or nil.
func (lrgen *TableGenerator) Tables() *Tables {
	return lrgen.tables
}

// Diagnostics returns all findings of the last call to CreateTables, including
// fatal ones.
func (lrgen *TableGenerator) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), lrgen.diagnostics...)
}

// CreateTables creates the ACTION and GOTO tables for an LALR(1) parser.
// If a conflict cannot be resolved, a *ConflictError is returned and no
// tables are created. All conflicts are reported as diagnostics, not just the
// first one.
func (lrgen *TableGenerator) CreateTables() (*Tables, error) {
	lrgen.diagnostics = nil
	lrgen.HasConflicts = false
	lrgen.tables = nil
	dfa := lrgen.CFSM()
	t := &Tables{
		g:      lrgen.g,
		states: dfa.StateCount(),
		repr:   lrgen.cfg.repr,
	}
	t.action = newMatrix(lrgen.cfg.repr, t.states, lrgen.g.TerminalCount())
	t.gotoT = newMatrix(lrgen.cfg.repr, t.states, lrgen.g.NonTerminalCount())
	tracer().Infof("ACTION table of size %d x %d", t.states, lrgen.g.TerminalCount())
	var firstErr error
	dfa.EachState(func(s *CFSMState) {
		for A, to := range s.next {
			if !A.IsTerminal() {
				t.gotoT.Set(s.ID, A.Value, int32(to.ID))
			}
		}
		for _, a := range lrgen.g.terminals {
			act, err := lrgen.resolve(s, a)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if act.Type != NoAction {
				t.action.Set(s.ID, a.Value, encodeAction(act))
			}
		}
	})
	for _, d := range lrgen.diagnostics {
		lrgen.cfg.observer.Diagnostic(d)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	t.diagnostics = append(lrgen.g.Warnings(), lrgen.diagnostics...)
	lrgen.tables = t
	lrgen.cfg.observer.TablesBuilt(t)
	return t, nil
}

func newMatrix(repr Representation, m, n int) sparse.Matrix {
	if repr == Dense {
		return sparse.NewDenseMatrix(m, n, sparse.DefaultNullValue)
	}
	return sparse.NewIntMatrix(m, n, sparse.DefaultNullValue)
}

// resolve computes the action for state s and lookahead a. Candidates are
// collected first: a shift, if s has an edge labelled a, and a reduce for
// every complete item with a in its lookahead.
func (lrgen *TableGenerator) resolve(s *CFSMState, a *Symbol) (Action, error) {
	var reduces []*Rule
	for _, red := range s.reductions {
		if red.Lookahead.Has(a.Value) {
			reduces = append(reduces, red.Rule)
		}
	}
	sort.Slice(reduces, func(i, j int) bool { return reduces[i].Serial < reduces[j].Serial })
	shift := s.next[a]
	if len(reduces) == 0 {
		if shift == nil {
			return Action{}, nil
		}
		return Action{Type: Shift, Target: shift.ID}, nil
	}
	r := reduces[0]
	if len(reduces) > 1 {
		lrgen.HasConflicts = true
		lrgen.report(Warning, ReduceReduceConflict, s, a, serials(reduces),
			"reduce/reduce conflict on %s, preferring rule %d: %v", a, r.Serial, r)
	}
	if shift == nil {
		return reduceAction(r), nil
	}
	lrgen.HasConflicts = true
	rp, tp := r.Precedence(), a.Precedence()
	assoc := NoAssoc
	if rp.IsSet() && tp.IsSet() {
		if rp.Level > tp.Level {
			return reduceAction(r), nil
		} else if rp.Level < tp.Level {
			return Action{Type: Shift, Target: shift.ID}, nil
		}
		assoc = rp.Assoc
		if assoc == NoAssoc {
			assoc = tp.Assoc
		}
	} else if rp.IsSet() {
		assoc = rp.Assoc
	}
	switch assoc {
	case LeftAssoc:
		return reduceAction(r), nil
	case RightAssoc:
		return Action{Type: Shift, Target: shift.ID}, nil
	case NonAssoc:
		if lrgen.cfg.lenientNonAssoc {
			lrgen.report(Warning, NonAssocConflict, s, a, []int{r.Serial},
				"non-associative %s after %v is a syntax error", a, r)
			return Action{Type: Error}, nil
		}
		lrgen.report(Fatal, NonAssocConflict, s, a, []int{r.Serial},
			"non-associative %s after %v", a, r)
		return Action{Type: Error}, &ConflictError{Kind: NonAssocConflict,
			State: s.ID, Symbol: a.Name, Rules: []int{r.Serial}}
	}
	if lrgen.cfg.preferShift {
		lrgen.report(Warning, ShiftPreferred, s, a, []int{r.Serial},
			"shift/reduce conflict on %s with %v, preferring shift", a, r)
		return Action{Type: Shift, Target: shift.ID}, nil
	}
	lrgen.report(Fatal, UnresolvedConflict, s, a, []int{r.Serial},
		"shift/reduce conflict on %s with %v", a, r)
	return Action{}, &ConflictError{Kind: UnresolvedConflict, State: s.ID, Symbol: a.Name,
		Rules: []int{r.Serial}}
}

func reduceAction(r *Rule) Action {
	if r.Serial == 0 {
		return Action{Type: Accept}
	}
	return Action{Type: Reduce, Target: r.Serial}
}

func serials(rules []*Rule) []int {
	s := make([]int, len(rules))
	for i, r := range rules {
		s[i] = r.Serial
	}
	return s
}

func (lrgen *TableGenerator) report(sev Severity, kind ConflictKind, s *CFSMState, a *Symbol,
	rules []int, format string, args ...interface{}) {
	lrgen.diagnostics = append(lrgen.diagnostics, Diagnostic{
		Severity: sev,
		Kind:     kind.String(),
		State:    s.ID,
		Symbol:   a.Name,
		Rules:    rules,
		Message:  fmt.Sprintf(format, args...),
	})
}

// --- Tables ----------------------------------------------------------------

// Tables holds the ACTION and GOTO tables of an LALR(1) parser, together with
// the grammar they have been generated for. Columns of the ACTION table are
// indexed by terminal value, columns of the GOTO table by non-terminal value.
//
// Tables are immutable and may be shared between any number of parsers.
type Tables struct {
	g           *Grammar
	states      int
	action      sparse.Matrix
	gotoT       sparse.Matrix
	repr        Representation
	diagnostics []Diagnostic
}

// Grammar returns the grammar the tables have been generated for.
func (t *Tables) Grammar() *Grammar {
	return t.g
}

// StateCount returns the number of parser states.
func (t *Tables) StateCount() int {
	return t.states
}

// Diagnostics returns the non-fatal findings of grammar validation and table
// generation.
func (t *Tables) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), t.diagnostics...)
}

// Action returns the ACTION table entry for a state and a terminal.
func (t *Tables) Action(state int, a *Symbol) Action {
	if a == nil || !a.IsTerminal() {
		return Action{}
	}
	return decodeAction(t.action.Value(state, a.Value), t.action.NullValue())
}

// Goto returns the GOTO table entry for a state and a non-terminal. The
// second return value is false if there is no entry.
func (t *Tables) Goto(state int, N *Symbol) (int, bool) {
	if N == nil || N.IsTerminal() {
		return 0, false
	}
	v := t.gotoT.Value(state, N.Value)
	if v == t.gotoT.NullValue() {
		return 0, false
	}
	return int(v), true
}

// Expected returns the terminals which have a non-error action in a state,
// ordered by terminal value.
func (t *Tables) Expected(state int) []*Symbol {
	var exp []*Symbol
	for _, a := range t.g.terminals {
		if !t.Action(state, a).IsError() {
			exp = append(exp, a)
		}
	}
	return exp
}

// ActionCount returns the number of entries of the ACTION table, including
// explicit error entries.
func (t *Tables) ActionCount() int {
	return t.action.ValueCount()
}

// GotoCount returns the number of entries of the GOTO table.
func (t *Tables) GotoCount() int {
	return t.gotoT.ValueCount()
}

type tableDigest struct {
	Grammar string
	Rules   []string
	Symbols []string
	States  int
	Action  []string
	Goto    []string
}

// Fingerprint returns a hash over the grammar and the table entries. Two
// table sets with identical fingerprints drive parsers identically.
func (t *Tables) Fingerprint() string {
	d := tableDigest{Grammar: t.g.Name, States: t.states}
	for _, r := range t.g.rules {
		d.Rules = append(d.Rules, r.String())
	}
	for _, a := range t.g.terminals {
		d.Symbols = append(d.Symbols, fmt.Sprintf("%s=%d", a.Name, a.tokType))
	}
	t.action.Each(func(i, j int, v int32) {
		d.Action = append(d.Action, fmt.Sprintf("%d,%d:%d", i, j, v))
	})
	t.gotoT.Each(func(i, j int, v int32) {
		d.Goto = append(d.Goto, fmt.Sprintf("%d,%d:%d", i, j, v))
	})
	h, err := structhash.Hash(d, 1)
	if err != nil {
		tracer().Errorf("cannot compute fingerprint of tables: %v", err)
		return ""
	}
	return h
}

// Dump writes the tables in tabular form to w, one row per state.
func (t *Tables) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 2, 4, 1, ' ', tabwriter.AlignRight|tabwriter.Debug)
	header := []string{"state"}
	for _, a := range t.g.terminals {
		header = append(header, a.Name)
	}
	for _, N := range t.g.nonterminals[1:] {
		header = append(header, N.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for s := 0; s < t.states; s++ {
		row := []string{fmt.Sprintf("%d", s)}
		for _, a := range t.g.terminals {
			row = append(row, t.Action(s, a).String())
		}
		for _, N := range t.g.nonterminals[1:] {
			cell := ""
			if to, ok := t.Goto(s, N); ok {
				cell = fmt.Sprintf("%d", to)
			}
			row = append(row, cell)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

func (t *Tables) String() string {
	return fmt.Sprintf("LALR(1) tables for %s: %d states, %d actions, %d gotos",
		t.g.Name, t.states, t.ActionCount(), t.GotoCount())
}
