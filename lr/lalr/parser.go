package lalr

import (
	"fmt"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/scanner"
	"github.com/npillmayer/schuko/gconf"
)

// ParserState is the run state of a parser.
type ParserState int

// A parser is running until it either accepts its input, detects a syntax
// error or is aborted by a failing semantic action.
const (
	StateRunning ParserState = iota
	StateAccepted
	StateSyntaxError
	StateAborted
)

func (s ParserState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAccepted:
		return "accepted"
	case StateSyntaxError:
		return "syntax error"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("ParserState(%d)", int(s))
}

// Listener receives semantic events during a parse. Values returned by a
// listener are stored in the Value field of the corresponding parse tree node.
// If a listener returns an error, the parse is aborted.
type Listener interface {
	Reduce(lhs *lr.Symbol, rule int, rhs []*Node, span golalr.Span) (interface{}, error)
	Terminal(tok golalr.Token) (interface{}, error)
}

// Step describes a single action executed by the parser.
type Step struct {
	State     int        // state on top of stack when the action was looked up
	Action    lr.Action  // action executed
	Lookahead *lr.Symbol // current lookahead terminal
	Consumed  int        // number of tokens consumed after the action
}

// Option configures a parser.
type Option func(p *Parser)

// WithListener sets a listener for semantic actions.
func WithListener(l Listener) Option {
	return func(p *Parser) {
		p.listener = l
	}
}

// WithStepListener sets a function which is called for every action the
// parser executes.
func WithStepListener(f func(Step)) Option {
	return func(p *Parser) {
		p.steps = f
	}
}

// Parser is an LALR(1) parser. Create one with NewParser.
type Parser struct {
	tables   *lr.Tables
	g        *lr.Grammar
	stack    []stackitem // parser stack
	state    ParserState
	result   *Node
	err      error
	consumed int    // number of tokens shifted
	end      uint64 // end position of the last token shifted
	listener Listener
	steps    func(Step)
}

// We store pairs of state-IDs and parse tree nodes on the parse stack.
// The start state has no node.
type stackitem struct {
	state int
	node  *Node
}

// NewParser creates an LALR(1) parser for a set of parse tables. Tables may
// be shared between parsers.
func NewParser(tables *lr.Tables, opts ...Option) *Parser {
	p := &Parser{
		tables: tables,
		g:      tables.Grammar(),
		stack:  make([]stackitem, 0, 64),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset re-arms a parser for a new parse.
func (p *Parser) Reset() {
	p.stack = append(p.stack[:0], stackitem{state: 0})
	p.state = StateRunning
	p.result = nil
	p.err = nil
	p.consumed = 0
	p.end = 0
}

// State returns the run state of the parser.
func (p *Parser) State() ParserState {
	return p.state
}

// Result returns the root of the parse tree after the input has been accepted,
// nil otherwise.
func (p *Parser) Result() *Node {
	return p.result
}

// Err returns the error which stopped the parser, if any.
func (p *Parser) Err() error {
	return p.err
}

// Parse starts a new parse, reading tokens from scan until the input is
// accepted or an error occurs. Parse will not read past an offending token.
//
// Errors reported by the scanner are traced. If the input is accepted
// nevertheless, the first scanner error is returned together with the tree.
func (p *Parser) Parse(scan scanner.Tokenizer) (*Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	p.Reset()
	var scanErr error
	scan.SetErrorHandler(func(e error) {
		tracer().Errorf("scanner error: %v", e)
		if scanErr == nil {
			scanErr = e
		}
	})
	for p.state == StateRunning {
		if err := p.Push(scan.NextToken()); err != nil {
			return nil, err
		}
	}
	if scanErr != nil {
		return p.result, fmt.Errorf("scanner: %w", scanErr)
	}
	return p.result, nil
}

// Push feeds the next input token into the parser. Tokens of type EOF signal
// the end of input. Push executes all reductions the token triggers and
// returns after the token has been shifted or the input has been accepted.
func (p *Parser) Push(tok golalr.Token) error {
	if p.state != StateRunning {
		return ErrNotRunning
	}
	tracer().Debugf("got token %v/%d", tok, tok.TokType())
	A := p.g.TerminalByTokType(tok.TokType())
	if A == nil {
		tracer().Infof("token type %d is not a terminal of %s", tok.TokType(), p.g.Name)
		return p.syntaxError(tok)
	}
	for {
		tos := p.stack[len(p.stack)-1]
		action := p.tables.Action(tos.state, A)
		tracer().Debugf("action(%d,%s)=%v", tos.state, A, action)
		switch action.Type {
		case lr.Shift:
			leaf, err := p.leaf(A, tok)
			if err != nil {
				return err
			}
			p.stack = append(p.stack, stackitem{action.Target, leaf})
			p.consumed++
			p.end = tok.Span().To()
			p.step(tos.state, action, A)
			return nil
		case lr.Reduce:
			rule := p.g.Rule(action.Target)
			if rule == nil {
				return p.abort(stuck(fmt.Sprintf("no rule %d for state %d", action.Target, tos.state)))
			}
			if err := p.reduce(rule, tok); err != nil {
				return err
			}
			p.step(tos.state, action, A)
		case lr.Accept:
			p.result = tos.node
			p.state = StateAccepted
			p.step(tos.state, action, A)
			tracer().Infof("input accepted")
			return nil
		default:
			return p.syntaxError(tok)
		}
	}
}

// PushEOF signals the end of input.
func (p *Parser) PushEOF() error {
	return p.Push(scanner.MakeDefaultToken(scanner.EOF, "", golalr.Span{p.end, p.end}))
}

func (p *Parser) leaf(A *lr.Symbol, tok golalr.Token) (*Node, error) {
	leaf := &Node{Symbol: A, Rule: -1, Token: tok, Span: tok.Span(), Value: tok.Value()}
	if p.listener != nil {
		v, err := p.listener.Terminal(tok)
		if err != nil {
			return nil, p.abort(fmt.Errorf("terminal %s: %w", A, err))
		}
		leaf.Value = v
	}
	return leaf, nil
}

// reduce performs a reduce action for a rule
//
//	LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as nodes
//
//	[TOS]  Sn(Xn, span_n) ... S1(X1, span1)  ...
//
// An epsilon-rule covers the empty span just before the lookahead.
func (p *Parser) reduce(rule *lr.Rule, lookahead golalr.Token) error {
	tracer().Debugf("reduce %v", rule)
	n := rule.Len()
	node := &Node{Symbol: rule.LHS, Rule: rule.Serial}
	if n == 0 {
		pos := lookahead.Span().From()
		node.Span = golalr.Span{pos, pos}
	} else {
		node.Children = make([]*Node, n)
		for i, item := range p.stack[len(p.stack)-n:] {
			node.Children[i] = item.node
			node.Span = node.Span.Extend(item.node.Span)
		}
	}
	if p.listener != nil {
		v, err := p.listener.Reduce(rule.LHS, rule.Serial, node.Children, node.Span)
		if err != nil {
			return p.abort(fmt.Errorf("rule %d: %w", rule.Serial, err))
		}
		node.Value = v
	}
	p.stack = p.stack[:len(p.stack)-n]
	tos := p.stack[len(p.stack)-1]
	next, ok := p.tables.Goto(tos.state, rule.LHS)
	if !ok {
		return p.abort(stuck(fmt.Sprintf("no GOTO for state %d and %s", tos.state, rule.LHS)))
	}
	p.stack = append(p.stack, stackitem{next, node})
	return nil
}

func (p *Parser) step(state int, action lr.Action, A *lr.Symbol) {
	if p.steps != nil {
		p.steps(Step{State: state, Action: action, Lookahead: A, Consumed: p.consumed})
	}
}

func (p *Parser) syntaxError(tok golalr.Token) error {
	tos := p.stack[len(p.stack)-1].state
	var expected []string
	for _, A := range p.tables.Expected(tos) {
		expected = append(expected, A.Name)
	}
	p.err = &SyntaxError{State: tos, Token: tok, Expected: expected, Span: tok.Span()}
	p.state = StateSyntaxError
	tracer().Infof("%v", p.err)
	return p.err
}

func (p *Parser) abort(err error) error {
	p.err = err
	p.state = StateAborted
	tracer().Errorf("parse aborted: %v", err)
	return err
}

// stuck reports missing table entries. If configuration flag
// panic-on-parser-stuck is set, it panics.
func stuck(msg string) error {
	tracer().Errorf("%s", msg)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic(`LALR(1)-parser is stuck.

Configuration flag panic-on-parser-stuck is set to true. It is aimed at helping
to debug a parser and do a post-mortem of why it got stuck. However, if this is
a production environment and you did not expect this to panic, please unset
panic-on-parser-stuck to its default (false).

` + msg)
	}
	return fmt.Errorf("%w: %s", ErrStuck, msg)
}
