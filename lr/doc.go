/*
Package lr implements an LALR(1) parser table generator.

# Building a Grammar

Grammars are either built from a sequence of declarations (usually read from
a grammar file by package grammarfile), or specified using a grammar builder
object. Clients add rules, consisting of non-terminal symbols and terminals.
Terminals carry a token type. Grammars may contain epsilon-productions.

Example:

	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a", 1).End()  // S  ->  A a
	b.LHS("A").N("B").N("D").End()     // A  ->  B D
	b.LHS("B").T("b", 2).End()         // B  ->  b
	b.LHS("B").Epsilon()               // B  ->
	b.LHS("D").T("d", 3).End()         // D  ->  d
	b.LHS("D").Epsilon()               // D  ->
	g, err := b.Grammar()

This results in the following trivial grammar (rule 0 is the augmented start
rule, added automatically):

	g.Dump()

	0: [S'] ::= [S]
	1: [S] ::= [A a]
	2: [A] ::= [B D]
	3: [B] ::= [b]
	4: [B] ::= []
	5: [D] ::= [d]
	6: [D] ::= []

Grammar construction validates the grammar: undefined symbols, a missing or
duplicate start symbol, clashes between terminal and non-terminal names and
non-terminals unreachable from the start symbol are reported as *GrammarError.

# Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes the set of
nullable non-terminals and FIRST and FOLLOW sets for the grammar.

	ga := lr.Analysis(g)  // analyser for grammar above
	ga.Grammar().EachNonTerminal(
	    func(N *Symbol) interface{} {                         // ad-hoc mapper function
	        fmt.Printf("FIRST(%s) = %v", N, ga.First(N))      // get FIRST-set for N
	        return nil
	    })

# Parser Construction

Using grammar analysis as input, an LALR(1) automaton (the characteristic finite
state machine, CFSM, decorated with lookaheads) is built. The CFSM is then
compressed into an ACTION table and a GOTO table. Conflicts are resolved by
precedence and associativity of rules and terminals; conflicts which cannot be
resolved make table generation fail with a *ConflictError.

	lrgen := lr.NewTableGenerator(ga)     // ga is a GrammarAnalysis, see above
	tables, err := lrgen.CreateTables()   // construct LALR(1) parser tables

The CFSM will not be thrown away by the table generator, but is made available
to the client. This is intended for debugging purposes. It can be exported to
Graphviz's Dot-format. Tables are immutable and may be shared between any
number of parsers (see package lalr). They may be serialized with
WriteTables and restored with ReadTables.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'golalr.lr'.
func tracer() tracing.Trace {
	return tracing.Select("golalr.lr")
}
