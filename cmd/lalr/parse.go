package main

import (
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/lalr"
	"github.com/npillmayer/golalr/lr/scanner/lexmach"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source *string
	sexpr  *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar or table file> [input]",
		Short: "Parse input and print the parse tree",
		Example: `  lalr parse expr.lalr "a + b * c"
  cat src | lalr parse expr.ebnf`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("file", "f", "", "source file path (default stdin)")
	parseFlags.sexpr = cmd.Flags().Bool("sexpr", false, "print the parse tree as an S-expression")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	tables, _, err := loadTables(args[0])
	if err != nil {
		return err
	}
	var input string
	switch {
	case len(args) > 1:
		input = args[1]
	case *parseFlags.source != "":
		src, err := os.ReadFile(*parseFlags.source)
		if err != nil {
			return err
		}
		input = string(src)
	default:
		src, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		input = string(src)
	}
	p, err := newSession(tables)
	if err != nil {
		return err
	}
	return showResult(p.parse(input))
}

// showResult prints a parse tree, if there is one, and returns the error of
// the parse. An accepted input may come with an error from the scanner.
func showResult(tree *lalr.Node, err error) error {
	if tree != nil {
		printTree(tree, *parseFlags.sexpr)
	}
	return err
}

// session bundles a parser with a lexer for a grammar.
type session struct {
	lexer  *lexmach.LMAdapter
	parser *lalr.Parser
}

func newSession(tables *lr.Tables) (*session, error) {
	lexer, err := lexmach.FromGrammar(tables.Grammar(), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create lexer for grammar %s: %w", tables.Grammar().Name, err)
	}
	return &session{lexer: lexer, parser: lalr.NewParser(tables)}, nil
}

func (s *session) parse(input string) (*lalr.Node, error) {
	sc, err := s.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(sc)
}

// printTree prints a parse tree, either as a tree or as an S-expression.
func printTree(tree *lalr.Node, sexpr bool) {
	if sexpr {
		pterm.Println(tree.String())
		return
	}
	root := pterm.NewTreeFromLeveledList(leveledList(tree))
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledList(tree *lalr.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	tree.Walk(func(n *lalr.Node, level int) bool {
		text := n.Symbol.Name
		if n.IsLeaf() {
			text = fmt.Sprintf("%s %q", n.Symbol.Name, n.Token.Lexeme())
		} else if len(n.Children) == 0 {
			text = n.Symbol.Name + " ε"
		}
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: text})
		return true
	})
	return ll
}
