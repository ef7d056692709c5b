package grammarfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/lalr"
	"github.com/npillmayer/golalr/lr/scanner"
	"github.com/npillmayer/golalr/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestLoadTOML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.grammarfile")
	defer teardown()
	//
	g, err := Load("testdata/expr.toml", "")
	if err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.Equal("Expr", g.Name)
	assert.Equal("E", g.Start().Name)
	assert.Equal("[E] ::= [E + E]", g.Rule(1).String())
	assert.Equal(lr.Precedence{Level: 1, Assoc: lr.LeftAssoc}, g.Rule(1).Precedence())
	assert.Equal(lr.Precedence{Level: 2, Assoc: lr.LeftAssoc}, g.Rule(2).Precedence())
	id := g.SymbolByName("id")
	assert.Equal(golalr.TokType(scanner.Ident), id.TokenType())
	assert.Equal("[a-z]+", id.Pattern())
	//
	tables, err := lr.NewTableGenerator(lr.Analysis(g)).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	tree, err := lalr.NewParser(tables).Parse(scanner.GoTokenizer("toml", strings.NewReader("a + b * c")))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal("(E (E id) + (E (E id) * (E id)))", tree.String())
}

func TestTOMLRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.grammarfile")
	defer teardown()
	//
	g, err := Load("testdata/expr.toml", "")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = WriteTOML(&buf, g); err != nil {
		t.Fatal(err)
	}
	t.Logf("\n%s", buf.String())
	spec, err := ParseTOML(&buf)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := spec.Grammar("")
	if err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.Equal(g.Size(), g2.Size())
	for i := 0; i < g.Size(); i++ {
		assert.Equal(g.Rule(i).String(), g2.Rule(i).String())
		assert.Equal(g.Rule(i).Precedence(), g2.Rule(i).Precedence())
	}
	assert.Equal(g.SymbolByName("id").Pattern(), g2.SymbolByName("id").Pattern())
}

func TestTOMLErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.grammarfile")
	defer teardown()
	//
	assert := assert.New(t)
	_, err := ParseTOML(strings.NewReader("name = \"G\"\nfoo = 1\n"))
	assert.Error(err, "expected unknown key to be reported")
	_, err = ParseTOML(strings.NewReader("[[terminal]]\nname = \"+\"\nassoc = \"sideways\"\nprec = 1\n"))
	assert.Error(err, "expected unknown associativity to be reported")
	spec, err := ParseTOML(strings.NewReader(`
start = "S"
[[terminal]]
name = "a"
[[rule]]
lhs = "S"
rhs = [ ["a", "X"] ]
`))
	if !assert.NoError(err) {
		return
	}
	_, err = spec.Grammar("")
	var gerr *lr.GrammarError
	if assert.True(errors.As(err, &gerr), "expected grammar error, got %v", err) {
		assert.Equal(lr.UndefinedSymbol, gerr.Kind)
		assert.Equal("X", gerr.Symbol)
	}
	_, err = Load("testdata/expr.yacc", "")
	assert.Error(err)
}

func TestLoadEBNF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.grammarfile")
	defer teardown()
	//
	g, err := Load("testdata/expr.ebnf", "")
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	assert := assert.New(t)
	assert.Equal("expr", g.Name)
	assert.Equal("Expr", g.Start().Name)
	var terminals []string
	for i := 1; i < g.TerminalCount(); i++ {
		terminals = append(terminals, g.Terminal(i).Name)
	}
	assert.Equal([]string{"+", "*", "ident", "number", "(", ")"}, terminals)
	assert.Equal(golalr.TokType('+'), g.SymbolByName("+").TokenType())
	assert.Equal(golalr.TokType(unicode.MaxRune+1), g.SymbolByName("ident").TokenType())
	assert.NotEmpty(g.SymbolByName("ident").Pattern())
	assert.NotNil(g.SymbolByName("Term$1"), "expected helper non-terminal for repetition")
	assert.Nil(g.SymbolByName("letter"), "lexical helper productions must not become symbols")
	assert.Equal("[Term$1] ::= [Term$1 * Factor]", g.RulesFor(g.SymbolByName("Term$1"))[0].String())
	assert.True(g.RulesFor(g.SymbolByName("Term$1"))[1].IsEpsilon())
	//
	tables, err := lr.NewTableGenerator(lr.Analysis(g)).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	LM, err := lexmach.FromGrammar(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := LM.Scanner("foo1 + 42 * (x)")
	if err != nil {
		t.Fatal(err)
	}
	tree, err := lalr.NewParser(tables).Parse(sc)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(golalr.Span{0, 15}, tree.Span)
	assert.True(strings.HasPrefix(tree.String(), "(Expr (Expr (Term (Factor ident) (Term$1))) + (Term (Factor number)"),
		"unexpected tree %s", tree)
}

func TestEBNFStartOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.grammarfile")
	defer teardown()
	//
	g, err := Load("testdata/expr.ebnf", "Term")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Term", g.Start().Name)
	_, err = ParseEBNF("empty", strings.NewReader(`ident = "a" … "z" .`))
	assert.Error(t, err)
}
