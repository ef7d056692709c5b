package lr

import (
	"testing"
	"text/scanner"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/container/intsets"
)

func TestAnalysis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a", 1).End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b", 2).End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d", 3).End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	assert := assert.New(t)
	sym := g.SymbolByName
	assert.False(ga.IsNullable(sym("S")))
	assert.True(ga.IsNullable(sym("A")))
	assert.True(ga.IsNullable(sym("B")))
	assert.False(ga.IsNullable(sym("a")))
	assert.Equal([]string{"a", "b", "d"}, ga.TerminalNames(ga.First(sym("S"))))
	assert.Equal([]string{"b", "d"}, ga.TerminalNames(ga.First(sym("A"))))
	assert.Equal([]string{"a"}, ga.TerminalNames(ga.Follow(sym("A"))))
	assert.Equal([]string{"a", "d"}, ga.TerminalNames(ga.Follow(sym("B"))))
	assert.Equal([]string{EOFName}, ga.TerminalNames(ga.Follow(sym("S"))))
	//
	f, nullable := ga.FirstOfSequence([]*Symbol{sym("B"), sym("D")})
	assert.True(nullable)
	assert.Equal([]string{"b", "d"}, ga.TerminalNames(f))
	f, nullable = ga.FirstOfSequence([]*Symbol{sym("B"), sym("a"), sym("D")})
	assert.False(nullable)
	assert.Equal([]string{"a", "b"}, ga.TerminalNames(f))
}

func TestFirstAndFollowOfAlternatives(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Sum")
	b.LHS("E").N("E").T("+", '+').N("T").End()
	b.LHS("E").N("T").End()
	b.LHS("T").T("(", '(').N("E").T(")", ')').End()
	b.LHS("T").T("id", scanner.Ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	assert := assert.New(t)
	sym := g.SymbolByName
	assert.False(ga.IsNullable(sym("E")))
	assert.Equal([]string{"(", "id"}, ga.TerminalNames(ga.First(sym("E"))))
	assert.Equal([]string{"(", "id"}, ga.TerminalNames(ga.First(sym("T"))))
	assert.Equal([]string{EOFName, "+", ")"}, ga.TerminalNames(ga.Follow(sym("E"))))
	assert.Equal([]string{EOFName, "+", ")"}, ga.TerminalNames(ga.Follow(sym("T"))))
}

func TestUnionGrew(t *testing.T) {
	var s, x intsets.Sparse
	s.Insert(1)
	s.Insert(200)
	x.Insert(200)
	assert.False(t, unionGrew(&s, &x), "merging a subset must not report growth")
	x.Insert(3)
	assert.True(t, unionGrew(&s, &x))
	assert.Equal(t, 3, s.Len())
	assert.False(t, unionGrew(&s, &x))
}
