package golalr

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Terminals of a grammar are bound to
// token types; the end of input is represented by text/scanner's EOF value.
type TokType int

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point number:
//
//	TokType = Float       // identifier for this kind of tokens (application specific)
//	Lexeme  = "3.1416"    // lexeme how it appeared in the input stream
//	Value   = 3.1416      // is a float64 value
//	Span    = 67…73       // occured from position 67 in the input stream
//
// Value is the payload of a token, passed unchanged into parse tree leafs and
// semantic actions.
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span, as produced by epsilon-reductions.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other. Null spans
// are neutral.
func (s Span) Extend(other Span) Span {
	if other.IsNull() {
		return s
	}
	if s.IsNull() {
		return other
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
