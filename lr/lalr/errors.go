package lalr

import (
	"errors"
	"fmt"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr/scanner"
)

// ErrNotRunning is returned when tokens are pushed to a parser which has
// already accepted its input or failed.
var ErrNotRunning = errors.New("parser is not running")

// ErrStuck is returned if the parse tables lack a GOTO entry the parser
// needs after a reduction. This indicates corrupt tables.
var ErrStuck = errors.New("parser is stuck")

// SyntaxError is returned for a token which has no valid action in the
// current parser state.
type SyntaxError struct {
	State    int          // parser state the error occurred in
	Token    golalr.Token // offending token
	Expected []string     // terminals with a valid action in State
	Span     golalr.Span  // input span of the offending token
}

func (e *SyntaxError) Error() string {
	found := "end of input"
	if e.Token.TokType() != scanner.EOF {
		found = fmt.Sprintf("%q", e.Token.Lexeme())
	}
	return fmt.Sprintf("syntax error at %v: unexpected %s, expected one of %v",
		e.Span, found, e.Expected)
}
