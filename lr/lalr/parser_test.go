package lalr

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/scanner"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseNested(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	p := NewParser(tables)
	tree, err := p.Parse(tokens(t, tables, "a", "a", "b", "b"))
	if err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.Equal(StateAccepted, p.State())
	assert.Equal("(S a (S a (S) b) b)", tree.String())
	assert.Equal(golalr.Span{0, 4}, tree.Span)
	inner := tree.Children[1]
	assert.Equal(golalr.Span{1, 3}, inner.Span)
	assert.Equal(golalr.Span{2, 2}, inner.Children[1].Span)
	assert.Equal(3, tree.Depth())
	assert.True(tree.Children[0].IsLeaf())
	assert.Equal(2, inner.Children[1].Rule)
}

func TestSyntaxErrorAtEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	p := NewParser(tables)
	_, err := p.Parse(tokens(t, tables, "a", "a", "b"))
	assert := assert.New(t)
	var serr *SyntaxError
	if assert.True(errors.As(err, &serr), "expected syntax error, got %v", err) {
		assert.Equal([]string{"b"}, serr.Expected)
		assert.Equal(golalr.TokType(scanner.EOF), serr.Token.TokType())
		assert.Equal(golalr.Span{3, 3}, serr.Span)
		assert.Contains(serr.Error(), "end of input")
	}
	assert.Equal(StateSyntaxError, p.State())
	assert.Nil(p.Result())
}

func TestSyntaxErrorAtFirstToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	p := NewParser(tables)
	_, err := p.Parse(tokens(t, tables, "b", "a"))
	assert := assert.New(t)
	var serr *SyntaxError
	if assert.True(errors.As(err, &serr), "expected syntax error, got %v", err) {
		assert.ElementsMatch([]string{"a", lr.EOFName}, serr.Expected)
		assert.Equal("b", serr.Token.Lexeme())
		assert.Equal(golalr.Span{0, 1}, serr.Span)
	}
	assert.Equal(err, p.Err())
}

func TestAssociativity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	cases := []struct {
		name string
		tb   func(b *lr.GrammarBuilder)
		opts []lr.Option
		tree string
	}{
		{"left", func(b *lr.GrammarBuilder) { b.Terminal("+", '+').Left(1) }, nil,
			"(E (E (E id) + (E id)) + (E id))"},
		{"right", func(b *lr.GrammarBuilder) { b.Terminal("+", '+').Right(1) }, nil,
			"(E (E id) + (E (E id) + (E id)))"},
		{"prefer shift", func(b *lr.GrammarBuilder) {}, []lr.Option{lr.PreferShift(true)},
			"(E (E id) + (E (E id) + (E id)))"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := lr.NewGrammarBuilder("Expr")
			c.tb(b)
			b.LHS("E").N("E").T("+", '+').N("E").End()
			b.LHS("E").T("id", scanner.Ident).End()
			tables := createTables(t, b, c.opts...)
			tree, err := NewParser(tables).Parse(scanner.GoTokenizer(c.name, strings.NewReader("x + y + z")))
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, c.tree, tree.String())
			assert.Equal(t, golalr.Span{0, 9}, tree.Span)
		})
	}
}

func TestNonAssocOperator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Cmp")
	b.Terminal("<", '<').NonAssoc(1)
	b.LHS("E").N("E").T("<", '<').N("E").End()
	b.LHS("E").T("id", scanner.Ident).End()
	tables := createTables(t, b, lr.LenientNonAssoc(true))
	p := NewParser(tables)
	_, err := p.Parse(scanner.GoTokenizer("cmp", strings.NewReader("a < b")))
	assert := assert.New(t)
	assert.NoError(err)
	_, err = p.Parse(scanner.GoTokenizer("cmp", strings.NewReader("a < b < c")))
	var serr *SyntaxError
	if assert.True(errors.As(err, &serr), "expected syntax error, got %v", err) {
		assert.Equal("<", serr.Token.Lexeme())
		assert.Equal(golalr.Span{6, 7}, serr.Span)
		assert.Equal([]string{lr.EOFName}, serr.Expected)
	}
}

func TestCalculator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := calcTables(t)
	for input, result := range map[string]int{
		"2 + 3 * 4": 14,
		"2 * 3 + 4": 10,
		"1 + 2 + 3": 6,
		"7":         7,
	} {
		p := NewParser(tables, WithListener(calculator{}))
		tree, err := p.Parse(scanner.GoTokenizer(input, strings.NewReader(input)))
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		assert.Equal(t, result, tree.Value, input)
	}
}

func TestListenerAbort(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := calcTables(t)
	p := NewParser(tables, WithListener(calculator{}))
	_, err := p.Parse(scanner.GoTokenizer("ok", strings.NewReader("1 + 0 * 2")))
	assert := assert.New(t)
	assert.NoError(err)
	p = NewParser(tables, WithListener(calculator{failOn: 2}))
	_, err = p.Parse(scanner.GoTokenizer("fail", strings.NewReader("1 + 3 * 2")))
	assert.True(errors.Is(err, errCalc), "expected calculator error, got %v", err)
	assert.Equal(StateAborted, p.State())
	assert.ErrorIs(p.Push(scanner.MakeDefaultToken(scanner.EOF, "", golalr.Span{})), ErrNotRunning)
}

func TestReduceDoesNotConsume(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	var steps []Step
	p := NewParser(tables, WithStepListener(func(s Step) {
		steps = append(steps, s)
	}))
	if _, err := p.Parse(tokens(t, tables, "a", "a", "b", "b")); err != nil {
		t.Fatal(err)
	}
	consumed, shifts, reduces := 0, 0, 0
	for _, s := range steps {
		switch s.Action.Type {
		case lr.Shift:
			assert.Equal(t, consumed+1, s.Consumed, "shift must consume one token")
			shifts++
		case lr.Reduce:
			assert.Equal(t, consumed, s.Consumed, "reduce must not consume input")
			reduces++
		}
		consumed = s.Consumed
	}
	assert.Equal(t, 4, shifts)
	assert.Equal(t, 3, reduces)
	assert.Equal(t, lr.Accept, steps[len(steps)-1].Action.Type)
}

func TestPushAPI(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	g := tables.Grammar()
	p := NewParser(tables)
	assert := assert.New(t)
	for i, name := range []string{"a", "b"} {
		tok := scanner.MakeDefaultToken(g.SymbolByName(name).TokenType(), name,
			golalr.Span{uint64(i), uint64(i + 1)})
		assert.NoError(p.Push(tok))
		assert.Equal(StateRunning, p.State())
	}
	assert.NoError(p.PushEOF())
	assert.Equal(StateAccepted, p.State())
	if assert.NotNil(p.Result()) {
		assert.Equal("(S a (S) b)", p.Result().String())
	}
	assert.ErrorIs(p.PushEOF(), ErrNotRunning)
	//
	p.Reset()
	var serr *SyntaxError
	err := p.Push(scanner.MakeDefaultToken(9999, "?", golalr.Span{0, 1}))
	assert.True(errors.As(err, &serr), "expected syntax error for unknown token type")
}

func TestParseWithLoadedTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	var buf bytes.Buffer
	if err := lr.WriteTables(&buf, calcTables(t)); err != nil {
		t.Fatal(err)
	}
	tables, err := lr.ReadTables(&buf)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := NewParser(tables, WithListener(calculator{})).Parse(
		scanner.GoTokenizer("loaded", strings.NewReader("6 * 7")))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 42, tree.Value)
}

func TestWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lalr")
	defer teardown()
	//
	tables := abTables(t)
	tree, err := NewParser(tables).Parse(tokens(t, tables, "a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	var visited []string
	tree.Walk(func(n *Node, level int) bool {
		visited = append(visited, strings.Repeat(".", level)+n.Symbol.Name)
		return true
	})
	assert.Equal(t, []string{"S", ".a", ".S", ".b"}, visited)
}

// --- Helpers ---------------------------------------------------------------

// abTables creates tables for S → a S b | ε.
func abTables(t *testing.T) *lr.Tables {
	b := lr.NewGrammarBuilder("AB")
	b.LHS("S").T("a", 'a').N("S").T("b", 'b').End()
	b.LHS("S").Epsilon()
	return createTables(t, b)
}

// calcTables creates tables for E → E + E | E * E | num.
func calcTables(t *testing.T) *lr.Tables {
	b := lr.NewGrammarBuilder("Calc")
	b.Terminal("+", '+').Left(1)
	b.Terminal("*", '*').Left(2)
	b.LHS("E").N("E").T("+", '+').N("E").End()
	b.LHS("E").N("E").T("*", '*').N("E").End()
	b.LHS("E").T("num", scanner.Int).End()
	return createTables(t, b)
}

func createTables(t *testing.T, b *lr.GrammarBuilder, opts ...lr.Option) *lr.Tables {
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	tables, err := lr.NewTableGenerator(lr.Analysis(g), opts...).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	return tables
}

func tokens(t *testing.T, tables *lr.Tables, names ...string) scanner.Tokenizer {
	scan, err := scanner.FromNames(tables.Grammar(), names...)
	if err != nil {
		t.Fatal(err)
	}
	return scan
}

var errCalc = errors.New("calculator failure")

// calculator evaluates E → E + E | E * E | num. It fails on rule failOn,
// if set.
type calculator struct {
	failOn int
}

func (c calculator) Reduce(lhs *lr.Symbol, rule int, rhs []*Node, span golalr.Span) (interface{}, error) {
	if rule == c.failOn {
		return nil, errCalc
	}
	switch rule {
	case 1:
		return rhs[0].Value.(int) + rhs[2].Value.(int), nil
	case 2:
		return rhs[0].Value.(int) * rhs[2].Value.(int), nil
	}
	return rhs[0].Value, nil
}

func (c calculator) Terminal(tok golalr.Token) (interface{}, error) {
	if tok.TokType() == scanner.Int {
		return strconv.Atoi(tok.Lexeme())
	}
	return nil, nil
}
