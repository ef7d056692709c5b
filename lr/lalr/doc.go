/*
Package lalr provides a table-driven LALR(1) parser. Clients have to use the
tools of package lr to prepare the necessary parse tables. The parser utilizes
these tables to create a right derivation for a given input, provided through
a scanner interface or pushed token by token.

# Usage

Clients construct a grammar, usually by using a grammar builder:

	b := lr.NewGrammarBuilder("Signed Variables Grammar")
	b.LHS("Var").N("Sign").T("a", scanner.Ident).End()  // Var  --> Sign Id
	b.LHS("Sign").T("+", '+').End()                     // Sign --> +
	b.LHS("Sign").T("-", '-').End()                     // Sign --> -
	b.LHS("Sign").Epsilon()                             // Sign -->
	g, err := b.Grammar()

This grammar is subjected to grammar analysis and table generation.

	tables, err := lr.NewTableGenerator(lr.Analysis(g)).CreateTables()
	if err != nil { ... }  // grammar has unresolvable conflicts

Finally parse some input:

	p := lalr.NewParser(tables)
	tree, err := p.Parse(scanner.GoTokenizer("input", strings.NewReader("+a")))

The parser creates a parse tree of *Node. Clients may instrument the parse
with semantic operations by providing a Listener, which is called for every
terminal shifted and for every rule reduced. Values returned by the listener
are stored in the parse tree nodes.

Parse tables are immutable and may be shared between any number of parsers.
A single parser is not safe for concurrent use. After a parse has completed
(accepted or failed), a parser may be re-used by calling Reset.

# Push Parsing

Instead of pulling tokens from a scanner, clients may push tokens one at a
time. This allows to suspend parsing between tokens:

	p := lalr.NewParser(tables)
	for _, tok := range tokens {
	    if err := p.Push(tok); err != nil { ... }
	}
	err = p.PushEOF()
	tree := p.Result()

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lalr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'golalr.lalr'.
func tracer() tracing.Trace {
	return tracing.Select("golalr.lalr")
}
