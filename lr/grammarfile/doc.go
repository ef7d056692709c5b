/*
Package grammarfile reads grammars from files.

Two formats are supported. Files with extension ".toml" contain grammar
declarations in TOML format:

	name  = "Expr"
	start = "E"

	[[terminal]]
	name  = "+"
	prec  = 1
	assoc = "left"

	[[terminal]]
	name    = "id"
	toktype = -2           # text/scanner.Ident
	pattern = "[a-z]+"

	[[rule]]
	lhs = "E"
	rhs = [ ["E", "+", "E"], ["id"] ]

Each rule lists one or more alternatives; an empty alternative denotes an
epsilon-production. Rules may carry a precedence ("prec", "assoc") and may be
flagged "unreachable", which turns an otherwise fatal unreachability into a
warning.

Files with extension ".ebnf" contain a grammar in the EBNF dialect of
golang.org/x/exp/ebnf. Productions with capitalized names are syntactic
productions and become non-terminals. Optional parts, repetitions and groups
are rewritten into helper non-terminals. Productions with lower case names
are lexical productions: if referenced from a syntactic production, they
become terminals, with a regular expression derived from the production as
their lexical pattern. Literal tokens become terminals matched literally.

	Expr   = Expr "+" Term | Term .
	Term   = ident | "(" Expr ")" .
	ident  = letter { letter | digit } .
	letter = "a" … "z" .
	digit  = "0" … "9" .

Load dispatches on the file extension and creates a grammar:

	g, err := grammarfile.Load("expr.ebnf", "Expr")

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package grammarfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'golalr.grammarfile'.
func tracer() tracing.Trace {
	return tracing.Select("golalr.grammarfile")
}

// Spec is the content of a grammar file: a grammar name and a list of
// declarations.
type Spec struct {
	Name         string
	Declarations []lr.Declaration
}

// Grammar creates a grammar from the declarations of a grammar file. If start
// is non-empty, it replaces any start declaration of the file.
func (spec *Spec) Grammar(start string, opts ...lr.Option) (*lr.Grammar, error) {
	decls := spec.Declarations
	if start != "" {
		decls = make([]lr.Declaration, 0, len(spec.Declarations)+1)
		decls = append(decls, lr.Declaration{Kind: lr.StartDecl, Head: start})
		for _, d := range spec.Declarations {
			if d.Kind != lr.StartDecl {
				decls = append(decls, d)
			}
		}
	}
	return lr.FromDeclarations(spec.Name, decls, opts...)
}

// Read reads a grammar file, selecting the format by the file's extension.
func Read(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var spec *Spec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		spec, err = ParseTOML(f)
	case ".ebnf":
		spec, err = ParseEBNF(path, f)
	default:
		return nil, fmt.Errorf("%s: unknown grammar file format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	tracer().Infof("read %d declarations from %s", len(spec.Declarations), path)
	return spec, nil
}

// Load reads a grammar file and creates a grammar from it. If start is
// non-empty, it names the start symbol, overriding the file's choice.
func Load(path string, start string, opts ...lr.Option) (*lr.Grammar, error) {
	spec, err := Read(path)
	if err != nil {
		return nil, err
	}
	return spec.Grammar(start, opts...)
}
