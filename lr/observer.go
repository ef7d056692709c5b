package lr

import (
	"github.com/npillmayer/schuko/gconf"
)

// Observer receives notifications at the milestones of table construction.
// Observers never influence the semantics of the generated tables.
type Observer interface {
	GrammarLoaded(g *Grammar)
	TablesBuilt(t *Tables)
	Diagnostic(d Diagnostic)
}

// TracingObserver is the default observer. It reports to the tracer of this
// package.
type TracingObserver struct{}

var _ Observer = TracingObserver{}

// GrammarLoaded is part of interface Observer.
func (TracingObserver) GrammarLoaded(g *Grammar) {
	tracer().Infof("grammar %s loaded: %d rules, %d terminals, %d non-terminals",
		g.Name, g.Size(), g.TerminalCount(), g.NonTerminalCount())
}

// TablesBuilt is part of interface Observer.
func (TracingObserver) TablesBuilt(t *Tables) {
	tracer().Infof("tables for %s built: %d states", t.Grammar().Name, t.StateCount())
}

// Diagnostic is part of interface Observer.
func (TracingObserver) Diagnostic(d Diagnostic) {
	switch d.Severity {
	case Fatal:
		tracer().Errorf(d.String())
	case Warning:
		tracer().Infof(d.String())
	default:
		tracer().Debugf(d.String())
	}
}

// --- Options ---------------------------------------------------------------

// Representation selects the matrix type backing the parser tables.
type Representation int

// Table representations. Both are semantically identical.
const (
	Sparse Representation = iota
	Dense
)

type config struct {
	observer        Observer
	preferShift     bool
	lenientNonAssoc bool
	repr            Representation
}

func defaultConfig() *config {
	c := &config{observer: TracingObserver{}, repr: Sparse}
	if gconf.GetBool("dense-parser-tables") {
		c.repr = Dense
	}
	return c
}

func makeConfig(opts []Option) *config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures grammar construction and table generation.
type Option func(c *config)

// WithObserver sets an observer for build milestones. A nil observer restores
// the default TracingObserver.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o == nil {
			o = TracingObserver{}
		}
		c.observer = o
	}
}

// PreferShift resolves shift/reduce conflicts without precedence information
// as shift, the way yacc does. A warning diagnostic is emitted for every
// conflict resolved this way. Without this option such conflicts make table
// generation fail.
func PreferShift(b bool) Option {
	return func(c *config) {
		c.preferShift = b
	}
}

// LenientNonAssoc turns conflicts between non-associative operators of equal
// precedence into an error entry in the ACTION table and a warning, the way
// yacc does. Without this option such conflicts make table generation fail.
func LenientNonAssoc(b bool) Option {
	return func(c *config) {
		c.lenientNonAssoc = b
	}
}

// TableRepresentation selects dense or sparse matrices for the parser tables.
func TableRepresentation(r Representation) Option {
	return func(c *config) {
		c.repr = r
	}
}
