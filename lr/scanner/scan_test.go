package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var tokenCounts = []int{1, 3, 3, 3, 5}

func TestGoTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.scanner")
	defer teardown()
	//
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		reader := strings.NewReader(input)
		name := fmt.Sprintf("input #%d", i)
		scanner := GoTokenizer(name, reader)
		token := scanner.NextToken()
		count := 0
		for token.TokType() != EOF {
			t.Logf(" %4d | %15s | @%5d", token.TokType(), token.Lexeme(), token.Span().From())
			token = scanner.NextToken()
			count++
		}
		if count != tokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, tokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func TestGoTokenizerRunes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.scanner")
	defer teardown()
	//
	scanner := GoTokenizer("runes", strings.NewReader("a + 'x'"), UnifyStrings(true))
	assert := assert.New(t)
	tok := scanner.NextToken()
	assert.Equal(golalr.TokType(Ident), tok.TokType())
	assert.Equal(golalr.Span{0, 1}, tok.Span())
	tok = scanner.NextToken()
	assert.Equal(golalr.TokType('+'), tok.TokType())
	tok = scanner.NextToken()
	assert.Equal(golalr.TokType(String), tok.TokType())
	assert.Equal(golalr.TokType(EOF), scanner.NextToken().TokType())
}

func TestListTokenizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.scanner")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("AB")
	b.LHS("S").T("a", 'a').N("S").T("b", 'b').End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	lt, err := FromPairs(g, Pair{"a", 1}, Pair{"b", 2})
	if !assert.NoError(err) {
		return
	}
	tok := lt.NextToken()
	assert.Equal(golalr.TokType('a'), tok.TokType())
	assert.Equal(1, tok.Value())
	assert.Equal(golalr.Span{0, 1}, tok.Span())
	tok = lt.NextToken()
	assert.Equal(golalr.TokType('b'), tok.TokType())
	assert.Equal(golalr.Span{1, 2}, tok.Span())
	for i := 0; i < 2; i++ {
		tok = lt.NextToken()
		assert.Equal(golalr.TokType(EOF), tok.TokType())
		assert.Equal(golalr.Span{2, 2}, tok.Span())
	}
	_, err = FromNames(g, "a", "S")
	assert.Error(err)
	_, err = FromNames(g, "c")
	assert.Error(err)
}
