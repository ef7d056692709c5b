package lexmach

import (
	"strings"
	"unicode"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'golalr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("golalr.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		adapter.Lexer.Add([]byte(quote(lit)), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// FromGrammar creates a lexmachine adapter for the terminals of a grammar.
// Terminals carrying a lexical pattern are matched by their pattern, all
// other terminals are matched literally by their name. Literal matches take
// precedence over pattern matches of equal length, thus keywords win over
// identifiers. Whitespace is skipped.
//
// init may be nil. If given, it is called after the grammar's rules have been
// added, and may add further rules, e.g., for skipping comments.
func FromGrammar(g *lr.Grammar, init func(*lexmachine.Lexer)) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	var patterns []*lr.Symbol
	g.EachTerminal(func(A *lr.Symbol) interface{} {
		if A.IsEOF() {
			return nil
		}
		if A.Pattern() != "" {
			patterns = append(patterns, A)
			return nil
		}
		tracer().Debugf("lexer literal %q for terminal %s", A.Name, A)
		adapter.Lexer.Add([]byte(quote(A.Name)), MakeToken(A.Name, int(A.TokenType())))
		return nil
	})
	for _, A := range patterns {
		tracer().Debugf("lexer pattern %q for terminal %s", A.Pattern(), A)
		adapter.Lexer.Add([]byte(A.Pattern()), MakeToken(A.Name, int(A.TokenType())))
	}
	adapter.Lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
	if init != nil {
		init(adapter.Lexer)
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// quote escapes a literal for use as a lexmachine pattern. Words are
// used unchanged.
func quote(lit string) string {
	word := true
	for _, r := range lit {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			word = false
			break
		}
	}
	if word {
		return lit
	}
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, end: uint64(len(input))}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	end     uint64 // length of input
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface. Unconsumable input is
// reported to the error handler and skipped. Other errors are reported as
// well; if the scanner cannot advance past an error, input ends there.
func (lms *LMScanner) NextToken() golalr.Token {
	tc := lms.scanner.TC
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		} else if lms.scanner.TC == tc {
			tracer().Errorf("scanner stuck at position %d", tc)
			eof = true
			break
		}
		tc = lms.scanner.TC
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return scanner.MakeDefaultToken(scanner.EOF, "", golalr.Span{lms.end, lms.end})
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	start := uint64(token.TC)
	return scanner.MakeDefaultToken(
		golalr.TokType(token.Type),
		string(token.Lexeme),
		golalr.Span{start, start + uint64(len(token.Lexeme))},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
