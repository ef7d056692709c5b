package lr

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"golang.org/x/tools/container/intsets"
)

// Refer to "Compilers: Principles, Techniques, and Tools" by Aho, Lam, Sethi
// and Ullman, section 4.7.5 (Efficient Construction of LALR Parsing Tables).
// States are created as LR(0) item sets, identified by their kernel. Lookaheads
// are attached to kernel items afterwards, by propagating them along the edges
// of the automaton until nothing changes any more.

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID         int               // serial ID of this state
	Accept     bool              // is this an accepting state?
	kernel     []Item            // kernel items, sorted
	lookaheads []*intsets.Sparse // lookaheads of kernel items, parallel to kernel
	kernelIdx  map[Item]int      // position of an item within the kernel
	next       map[*Symbol]*CFSMState
	reductions []Reduction // complete items of the closure
}

// Reduction is a complete item of a CFSM state together with its lookahead set.
type Reduction struct {
	Rule      *Rule
	Lookahead *intsets.Sparse
}

// CFSM edge between 2 states, directed and labelled with a grammar symbol
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

func newState(id int, kernel []Item) *CFSMState {
	s := &CFSMState{
		ID:         id,
		kernel:     kernel,
		lookaheads: make([]*intsets.Sparse, len(kernel)),
		kernelIdx:  make(map[Item]int, len(kernel)),
		next:       make(map[*Symbol]*CFSMState),
	}
	for k, i := range kernel {
		s.lookaheads[k] = &intsets.Sparse{}
		s.kernelIdx[i] = k
		if i.rule.Serial == 0 && i.IsComplete() {
			s.Accept = true
		}
	}
	return s
}

// Kernel returns the kernel items of a state.
func (s *CFSMState) Kernel() []Item {
	return append([]Item(nil), s.kernel...)
}

// Lookahead returns the lookahead set of kernel item k. The set must not be
// modified.
func (s *CFSMState) Lookahead(k int) *intsets.Sparse {
	return s.lookaheads[k]
}

// Reductions returns the complete items of a state with their lookaheads.
func (s *CFSMState) Reductions() []Reduction {
	return s.reductions
}

// Goto returns the successor state for a symbol, or nil.
func (s *CFSMState) Goto(A *Symbol) *CFSMState {
	return s.next[A]
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, len(s.kernel))
}

// Dump is a debugging helper
func (s *CFSMState) Dump(g *Grammar) {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for k, i := range s.kernel {
		tracer().Debugf("  %v, %v", i, terminalNames(g, s.lookaheads[k]))
	}
	tracer().Debugf("-------------------------")
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for a LALR(1) grammar, i.e. the
// LR(0) state diagram with lookaheads attached to its items. Will be constructed
// by a TableGenerator. Clients normally do not use it directly. Nevertheless,
// there are some methods defined on it, e.g, for debugging purposes.
type CFSM struct {
	g      *Grammar
	ga     *LRAnalysis
	states *treeset.Set       // all the states, ordered by ID
	edges  *arraylist.List    // all the edges between states
	byCore *linkedhashmap.Map // kernel core → state
	index  []*CFSMState       // states by ID
	S0     *CFSMState         // start state
}

// create an empty (initial) CFSM automata.
func emptyCFSM(ga *LRAnalysis) *CFSM {
	return &CFSM{
		g:      ga.Grammar(),
		ga:     ga,
		states: treeset.NewWith(stateComparator),
		edges:  arraylist.New(),
		byCore: linkedhashmap.New(),
	}
}

// StateCount returns the number of states of the CFSM.
func (c *CFSM) StateCount() int {
	return len(c.index)
}

// State returns the state with serial ID id, or nil.
func (c *CFSM) State(id int) *CFSMState {
	if id < 0 || id >= len(c.index) {
		return nil
	}
	return c.index[id]
}

// EachState calls f for every state, in order of the state IDs.
func (c *CFSM) EachState(f func(s *CFSMState)) {
	it := c.states.Iterator()
	for it.Next() {
		f(it.Value().(*CFSMState))
	}
}

// Add a state to the CFSM, if no state with the same kernel is present.
// Returns the state and a flag indicating if it has been created.
func (c *CFSM) addState(kernel []Item) (*CFSMState, bool) {
	key := coreKey(kernel)
	if s, ok := c.byCore.Get(key); ok {
		return s.(*CFSMState), false
	}
	s := newState(len(c.index), kernel)
	c.byCore.Put(key, s)
	c.states.Add(s)
	c.index = append(c.index, s)
	return s, true
}

func (c *CFSM) addEdge(from, to *CFSMState, label *Symbol) {
	c.edges.Add(&cfsmEdge{from: from, to: to, label: label})
	from.next[label] = to
}

// closure0 computes the LR(0) closure of a kernel. Items are returned in
// order of discovery.
func (c *CFSM) closure0(kernel []Item) []Item {
	C := append([]Item(nil), kernel...)
	seen := make(map[Item]bool, len(kernel))
	for _, i := range kernel {
		seen[i] = true
	}
	for k := 0; k < len(C); k++ {
		B := C[k].PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		for _, r := range c.g.RulesFor(B) {
			if i := StartItem(r); !seen[i] {
				seen[i] = true
				C = append(C, i)
			}
		}
	}
	return C
}

// closure1 computes the LR(1) closure of the kernel of state s, using the
// current lookaheads of its kernel items. For an item A → α • B β with
// lookahead L, every item B → • γ gets lookahead FIRST(β), plus L if β is
// nullable.
func (c *CFSM) closure1(s *CFSMState) ([]Item, map[Item]*intsets.Sparse) {
	items := append([]Item(nil), s.kernel...)
	la := make(map[Item]*intsets.Sparse, len(items))
	for k, i := range s.kernel {
		la[i] = &intsets.Sparse{}
		la[i].Copy(s.lookaheads[k])
	}
	queue := append([]Item(nil), s.kernel...)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		B := i.PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		f, nullable := c.ga.FirstOfSequence(i.Rest())
		if nullable {
			f.UnionWith(la[i])
		}
		for _, r := range c.g.RulesFor(B) {
			j := StartItem(r)
			L, ok := la[j]
			if !ok {
				L = &intsets.Sparse{}
				la[j] = L
				items = append(items, j)
			}
			if unionGrew(L, f) || !ok {
				queue = append(queue, j)
			}
		}
	}
	return items, la
}

// buildLR0 discovers the LR(0) states breadth-first, starting from the
// closure of S' → • S. Successors are visited in grammar symbol order, which
// makes state numbering deterministic.
func (c *CFSM) buildLR0() {
	c.S0, _ = c.addState([]Item{StartItem(c.g.Rule(0))})
	var symbols []*Symbol
	c.g.EachSymbol(func(A *Symbol) interface{} {
		symbols = append(symbols, A)
		return nil
	})
	for k := 0; k < len(c.index); k++ {
		s := c.index[k]
		closure := c.closure0(s.kernel)
		for _, A := range symbols {
			var kernel []Item
			for _, i := range closure {
				if i.PeekSymbol() == A {
					kernel = append(kernel, i.Advance())
				}
			}
			if len(kernel) == 0 {
				continue
			}
			sortItems(kernel)
			snew, created := c.addState(kernel)
			if created {
				tracer().Debugf("new state %d from %d on %s", snew.ID, s.ID, A)
			}
			c.addEdge(s, snew, A)
		}
	}
}

// propagateLookaheads attaches lookaheads to kernel items, until a fixed
// point is reached. All states are queued initially; a state is re-queued
// whenever one of its kernel lookahead sets grows.
func (c *CFSM) propagateLookaheads() {
	c.S0.lookaheads[0].Insert(c.g.EOF().Value)
	worklist := treeset.NewWith(utils.IntComparator)
	for _, s := range c.index {
		worklist.Add(s.ID)
	}
	rounds := 0
	for !worklist.Empty() {
		it := worklist.Iterator()
		it.First()
		id := it.Value().(int)
		worklist.Remove(id)
		rounds++
		s := c.index[id]
		items, la := c.closure1(s)
		for _, i := range items {
			A := i.PeekSymbol()
			if A == nil {
				continue
			}
			t := s.next[A]
			k := t.kernelIdx[i.Advance()]
			if unionGrew(t.lookaheads[k], la[i]) {
				worklist.Add(t.ID)
			}
		}
	}
	tracer().Debugf("lookahead propagation finished after %d state visits", rounds)
}

// collectReductions records the complete items of every state, including
// epsilon-items reached by closure, together with their lookaheads.
func (c *CFSM) collectReductions() {
	for _, s := range c.index {
		items, la := c.closure1(s)
		s.reductions = nil
		for _, i := range items {
			if i.IsComplete() {
				s.reductions = append(s.reductions, Reduction{Rule: i.rule, Lookahead: la[i]})
			}
		}
	}
}

// buildCFSM constructs the LALR(1) automaton for a grammar. Construction
// cannot fail.
func buildCFSM(ga *LRAnalysis) *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	c := emptyCFSM(ga)
	c.buildLR0()
	c.propagateLookaheads()
	c.collectReductions()
	tracer().Infof("CFSM for %s has %d states", c.g.Name, len(c.index))
	return c
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	c.EachState(func(s *CFSMState) {
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(c.g, s)))
	})
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n",
			edge.from.ID, edge.to.ID, escapeDot(edge.label.Name)))
	}
	b.WriteString("}\n")
	_, err := w.Write(b.Bytes())
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(g *Grammar, s *CFSMState) string {
	var b bytes.Buffer
	for k, i := range s.kernel {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeDot(i.String()))
		b.WriteString(" ")
		b.WriteString(escapeDot(strings.Join(terminalNames(g, s.lookaheads[k]), " ")))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotEscaper = strings.NewReplacer(
	`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`, `[`, `\[`, `]`, `\]`,
)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
