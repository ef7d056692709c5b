package lr

import (
	"fmt"
	"strings"
)

// --- Grammar errors --------------------------------------------------------

// GrammarErrorKind classifies errors found during grammar validation.
type GrammarErrorKind int

// Kinds of grammar errors.
const (
	UndefinedSymbol GrammarErrorKind = iota + 1
	DuplicateStartSymbol
	UnreachableNonterminal
	MissingStartSymbol
	SymbolClash
	EmptyGrammar
)

func (k GrammarErrorKind) String() string {
	switch k {
	case UndefinedSymbol:
		return "undefined symbol"
	case DuplicateStartSymbol:
		return "duplicate start symbol"
	case UnreachableNonterminal:
		return "unreachable non-terminal"
	case MissingStartSymbol:
		return "missing start symbol"
	case SymbolClash:
		return "symbol clash"
	case EmptyGrammar:
		return "empty grammar"
	}
	return "grammar error"
}

// GrammarError is returned if a grammar fails validation. Symbol is the name
// of the offending symbol, if any.
type GrammarError struct {
	Kind    GrammarErrorKind
	Symbol  string
	Grammar string
	Detail  string
}

func (e *GrammarError) Error() string {
	var b strings.Builder
	if e.Grammar != "" {
		b.WriteString(fmt.Sprintf("grammar %s: ", e.Grammar))
	}
	b.WriteString(e.Kind.String())
	if e.Symbol != "" {
		b.WriteString(fmt.Sprintf(" %q", e.Symbol))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func grammarErr(g *Grammar, kind GrammarErrorKind, sym string, detail string, args ...interface{}) *GrammarError {
	e := &GrammarError{Kind: kind, Symbol: sym}
	if g != nil {
		e.Grammar = g.Name
	}
	if detail != "" {
		e.Detail = fmt.Sprintf(detail, args...)
	}
	return e
}

// --- Table build errors ----------------------------------------------------

// ConflictKind classifies conflicts of the parser tables.
type ConflictKind int

// Kinds of conflicts.
const (
	UnresolvedConflict   ConflictKind = iota + 1 // shift/reduce without precedence information
	NonAssocConflict                             // operator declared non-associative used associatively
	ReduceReduceConflict                         // resolved by rule order, reported as warning
	ShiftPreferred                               // resolved to shift by option, reported as warning
)

func (k ConflictKind) String() string {
	switch k {
	case UnresolvedConflict:
		return "unresolved shift/reduce conflict"
	case NonAssocConflict:
		return "non-associative conflict"
	case ReduceReduceConflict:
		return "reduce/reduce conflict"
	case ShiftPreferred:
		return "shift/reduce conflict resolved as shift"
	}
	return "conflict"
}

// ConflictError is the error returned by the table generator if a conflict
// of the parser tables cannot be resolved. Tables are never returned in this
// case.
type ConflictError struct {
	Kind   ConflictKind
	State  int    // CFSM state of the conflict
	Symbol string // lookahead terminal
	Rules  []int  // serials of the rules involved
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s in state %d on %s (rules %v)", e.Kind, e.State, e.Symbol, e.Rules)
}

// --- Diagnostics -----------------------------------------------------------

// Severity of a diagnostic.
type Severity int

// Severities of diagnostics.
const (
	Info Severity = iota
	Warning
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Fatal:
		return "error"
	}
	return "info"
}

// Diagnostic is a finding of grammar validation or table generation. Fatal
// diagnostics accompany an error return, all others are informational and
// never change the semantics of the tables.
type Diagnostic struct {
	Severity Severity
	Kind     string
	State    int // -1 if not state related
	Symbol   string
	Rules    []int
	Message  string
}

func (d Diagnostic) String() string {
	if d.State >= 0 {
		return fmt.Sprintf("%s: state %d: %s", d.Severity, d.State, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
