/*
Package scanner defines an interface for scanners to be used with parsers of package lalr.

Three scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', (2) a tokenizer replaying a fixed list of tokens, mainly for tests
and for clients with their own lexers, and (3) an adapter for lexmachine, living
in sub-package `lexmach`.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'golalr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("golalr.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface. After the end of input has been reached,
// NextToken has to return tokens of type EOF.
type Tokenizer interface {
	NextToken() golalr.Token
	SetErrorHandler(func(error))
}

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	unifyStrings bool        // convert single chars to strings
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
// Single characters like '+' are returned with their rune value as token type,
// which matches the token type a grammar assigns to single-rune terminals.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() golalr.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	return DefaultToken{
		kind:   golalr.TokType(t.lastToken),
		lexeme: t.TokenText(),
		span:   golalr.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used as default for the Go
// tokenizer, the list tokenizer as well as the LexMachine scanner.
type DefaultToken struct {
	kind   golalr.TokType
	lexeme string
	Val    interface{}
	span   golalr.Span
}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ golalr.TokType, lexeme string, span golalr.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

// TokType is part of interface golalr.Token.
func (t DefaultToken) TokType() golalr.TokType {
	return t.kind
}

// Value is part of interface golalr.Token.
func (t DefaultToken) Value() interface{} {
	return t.Val
}

// Lexeme is part of interface golalr.Token.
func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

// Span is part of interface golalr.Token.
func (t DefaultToken) Span() golalr.Span {
	return t.span
}

func (t DefaultToken) String() string {
	if t.kind == EOF {
		return "<EOF>"
	}
	return fmt.Sprintf("%q%v", t.lexeme, t.span)
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// --- List tokenizer --------------------------------------------------------

// ListTokenizer replays a fixed sequence of tokens. After the last token
// it returns EOF tokens.
type ListTokenizer struct {
	tokens []golalr.Token
	pos    int
	Error  func(error) // error handler, never called by the list tokenizer itself
}

var _ Tokenizer = (*ListTokenizer)(nil)

// NewListTokenizer creates a tokenizer for a list of tokens.
func NewListTokenizer(tokens ...golalr.Token) *ListTokenizer {
	return &ListTokenizer{tokens: tokens, Error: logError}
}

// SetErrorHandler is part of the Tokenizer interface.
func (lt *ListTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		h = logError
	}
	lt.Error = h
}

// NextToken is part of the Tokenizer interface.
func (lt *ListTokenizer) NextToken() golalr.Token {
	if lt.pos >= len(lt.tokens) {
		end := uint64(0)
		if len(lt.tokens) > 0 {
			end = lt.tokens[len(lt.tokens)-1].Span().To()
		}
		return MakeDefaultToken(EOF, "", golalr.Span{end, end})
	}
	tok := lt.tokens[lt.pos]
	lt.pos++
	return tok
}

// Pair is the name of a terminal together with a payload value.
type Pair struct {
	Name  string
	Value interface{}
}

// FromPairs creates a list tokenizer for a sequence of (terminal, payload)
// pairs. Terminal names are mapped to token types by grammar g. Token k of the
// sequence spans input positions k…k+1.
func FromPairs(g *lr.Grammar, pairs ...Pair) (*ListTokenizer, error) {
	tokens := make([]golalr.Token, len(pairs))
	for k, p := range pairs {
		A := g.SymbolByName(p.Name)
		if A == nil || !A.IsTerminal() || A.IsEOF() {
			return nil, fmt.Errorf("%q is not a terminal of grammar %s", p.Name, g.Name)
		}
		tok := MakeDefaultToken(A.TokenType(), p.Name, golalr.Span{uint64(k), uint64(k + 1)})
		tok.Val = p.Value
		tokens[k] = tok
	}
	return NewListTokenizer(tokens...), nil
}

// FromNames creates a list tokenizer for a sequence of terminal names
// without payload.
func FromNames(g *lr.Grammar, names ...string) (*ListTokenizer, error) {
	pairs := make([]Pair, len(names))
	for k, n := range names {
		pairs[k] = Pair{Name: n}
	}
	return FromPairs(g, pairs...)
}
