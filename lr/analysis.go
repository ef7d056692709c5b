package lr

import (
	"golang.org/x/tools/container/intsets"
)

// LRAnalysis is an object for grammar analysis (computing FIRST and FOLLOW
// sets and the set of nullable non-terminals). Sets of terminals are
// represented as sparse integer sets over terminal values.
type LRAnalysis struct {
	g        *Grammar
	nullable []bool           // indexed by non-terminal value
	first    []intsets.Sparse // indexed by non-terminal value
	follow   []intsets.Sparse // indexed by non-terminal value
}

// Analysis creates an analyser for a grammar and runs the analysis.
// The analysis is a sequence of fixed-point computations over the rules of
// the grammar and cannot fail.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:        g,
		nullable: make([]bool, g.NonTerminalCount()),
		first:    make([]intsets.Sparse, g.NonTerminalCount()),
		follow:   make([]intsets.Sparse, g.NonTerminalCount()),
	}
	ga.computeNullable()
	ga.computeFirst()
	ga.computeFollow()
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// IsNullable returns true if symbol A may derive the empty word.
// Terminals are never nullable.
func (ga *LRAnalysis) IsNullable(A *Symbol) bool {
	if A.IsTerminal() {
		return false
	}
	return ga.nullable[A.Value]
}

// First returns the FIRST set of a symbol, i.e. the set of values of
// terminals which may start a derivation of A. The set must not be modified.
func (ga *LRAnalysis) First(A *Symbol) *intsets.Sparse {
	if A.IsTerminal() {
		s := &intsets.Sparse{}
		s.Insert(A.Value)
		return s
	}
	return &ga.first[A.Value]
}

// Follow returns the FOLLOW set of a non-terminal. The set must not be modified.
func (ga *LRAnalysis) Follow(N *Symbol) *intsets.Sparse {
	if N.IsTerminal() {
		return &intsets.Sparse{}
	}
	return &ga.follow[N.Value]
}

// FirstOfSequence computes FIRST(β) for a sequence of symbols β. The second
// return value is true if β is nullable (in particular, if β is empty).
func (ga *LRAnalysis) FirstOfSequence(beta []*Symbol) (*intsets.Sparse, bool) {
	f := &intsets.Sparse{}
	for _, A := range beta {
		if A.IsTerminal() {
			f.Insert(A.Value)
			return f, false
		}
		f.UnionWith(&ga.first[A.Value])
		if !ga.nullable[A.Value] {
			return f, false
		}
	}
	return f, true
}

// TerminalNames returns the names of the terminals of a set, in order of
// their values.
func (ga *LRAnalysis) TerminalNames(set *intsets.Sparse) []string {
	return terminalNames(ga.g, set)
}

func terminalNames(g *Grammar, set *intsets.Sparse) []string {
	var names []string
	for _, t := range set.AppendTo(nil) {
		names = append(names, g.Terminal(t).Name)
	}
	return names
}

func (ga *LRAnalysis) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.nullable[r.LHS.Value] {
				continue
			}
			all := true
			for _, A := range r.rhs {
				if A.IsTerminal() || !ga.nullable[A.Value] {
					all = false
					break
				}
			}
			if all {
				ga.nullable[r.LHS.Value] = true
				changed = true
			}
		}
	}
}

// unionGrew adds x to s and reports whether s has grown. The result of
// intsets.Sparse.UnionWith may signal a change even if x ⊆ s.
func unionGrew(s, x *intsets.Sparse) bool {
	n := s.Len()
	s.UnionWith(x)
	return s.Len() > n
}

func (ga *LRAnalysis) computeFirst() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			f, _ := ga.FirstOfSequence(r.rhs)
			if unionGrew(&ga.first[r.LHS.Value], f) {
				changed = true
			}
		}
	}
}

// computeFollow computes the FOLLOW sets. FOLLOW(S') contains the end of
// input marker.
func (ga *LRAnalysis) computeFollow() {
	ga.follow[0].Insert(ga.g.EOF().Value)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, A := range r.rhs {
				if A.IsTerminal() {
					continue
				}
				f, nullable := ga.FirstOfSequence(r.rhs[i+1:])
				if unionGrew(&ga.follow[A.Value], f) {
					changed = true
				}
				if nullable && unionGrew(&ga.follow[A.Value], &ga.follow[r.LHS.Value]) {
					changed = true
				}
			}
		}
	}
}
