package main

import (
	"errors"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/golalr/lr/lalr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar or table file>",
		Short:   "Parse input lines interactively",
		Example: `  lalr repl expr.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	tables, _, err := loadTables(args[0])
	if err != nil {
		return err
	}
	s, err := newSession(tables)
	if err != nil {
		return err
	}
	repl, err := readline.New(tables.Grammar().Name + "> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Printf("Parsing with grammar %s, quit with <ctrl>D\n", tables.Grammar().Name)
	sexpr := false
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		switch line {
		case ":sexpr":
			sexpr = !sexpr
			continue
		case ":quit":
			return nil
		}
		tree, err := s.parse(line)
		var serr *lalr.SyntaxError
		if errors.As(err, &serr) {
			pterm.Error.Println(serr.Error())
			pterm.Println(line)
			pterm.Println(strings.Repeat(" ", int(serr.Span.From())) + "^")
			continue
		}
		if tree != nil {
			printTree(tree, sexpr)
		}
		if err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	pterm.Println("Good bye!")
	return nil
}
