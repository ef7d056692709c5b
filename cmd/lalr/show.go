package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/grammarfile"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show <grammar or table file>",
		Short: "Print parse tables, the LALR(1) automaton or grammar analysis",
		Example: `  lalr show expr.ebnf
  lalr show expr.ebnf --format dot | dot -Tsvg > cfsm.svg`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showFlags.format = cmd.Flags().StringP("format", "F", "tables",
		"output format [tables|grammar|analysis|dot|html|toml]")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	switch strings.ToLower(*showFlags.format) {
	case "tables":
		tables, _, err := loadTables(args[0])
		if err != nil {
			return err
		}
		return tables.Dump(w)
	case "html":
		tables, _, err := loadTables(args[0])
		if err != nil {
			return err
		}
		if err = lr.ActionTableAsHTML(tables, w); err != nil {
			return err
		}
		return lr.GotoTableAsHTML(tables, w)
	}
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	switch strings.ToLower(*showFlags.format) {
	case "grammar":
		for i := 0; i < g.Size(); i++ {
			fmt.Fprintf(w, "%3d: %v\n", i, g.Rule(i))
		}
	case "analysis":
		showAnalysis(lr.Analysis(g))
	case "dot":
		return lr.NewTableGenerator(lr.Analysis(g)).CFSM().CFSM2GraphViz(w)
	case "toml":
		return grammarfile.WriteTOML(w, g)
	default:
		return fmt.Errorf("unknown output format %q", *showFlags.format)
	}
	return nil
}

// loadGrammar reads a grammar from a grammar file or from a table file.
// Grammars with conflicts may be loaded.
func loadGrammar(path string) (*lr.Grammar, error) {
	if strings.EqualFold(filepath.Ext(path), TableFileExt) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		tables, err := lr.ReadTables(f)
		if err != nil {
			return nil, err
		}
		return tables.Grammar(), nil
	}
	return grammarfile.Load(path, *rootFlags.start, lr.WithObserver(cliObserver{}))
}

// showAnalysis prints nullability, FIRST and FOLLOW sets as a table.
func showAnalysis(ga *lr.LRAnalysis) {
	data := pterm.TableData{{"Non-terminal", "Nullable", "FIRST", "FOLLOW"}}
	ga.Grammar().EachNonTerminal(func(N *lr.Symbol) interface{} {
		nullable := ""
		if ga.IsNullable(N) {
			nullable = "ε"
		}
		data = append(data, []string{
			N.Name,
			nullable,
			strings.Join(ga.TerminalNames(ga.First(N)), " "),
			strings.Join(ga.TerminalNames(ga.Follow(N)), " "),
		})
		return nil
	})
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
