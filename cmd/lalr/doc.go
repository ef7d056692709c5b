/*
Command lalr creates LALR(1) parse tables from grammar files and parses input
with them. It is intended as a workbench for grammar development.

	lalr compile expr.ebnf -o expr.lalr    # create and store parse tables
	lalr show expr.ebnf --format dot       # print the LALR(1) automaton
	lalr parse expr.lalr "a + b * c"       # parse input, print the parse tree
	lalr repl expr.ebnf                    # parse input interactively

Grammar files are read by package grammarfile. Tokens are recognized by a
lexer generated from the grammar's terminals (see package lexmach).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'golalr.cli'
func tracer() tracing.Trace {
	return tracing.Select("golalr.cli")
}
