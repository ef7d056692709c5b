/*
Package golalr is an LALR(1) parsing toolbox.

GoLALR generates LALR(1) parser tables for context-free grammars at runtime
and drives parsers with them, without a code generation step.
Package structure is as follows:

■ lr: Package lr holds the grammar model, grammar analysis, the LALR(1)
automaton and the ACTION/GOTO table generator.

■ lr/lalr: Package lalr implements the shift-reduce parser driver operating
on tables of package lr.

■ lr/scanner: Package scanner defines the tokenizer interface for parsers,
together with default implementations.

■ lr/grammarfile: Package grammarfile reads grammar declarations from
TOML or EBNF files.

■ cmd/lalr: Command lalr is a workbench to compile grammars into parse tables,
inspect them and parse input.

The base package contains data types which are used throughout all the other packages.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package golalr
