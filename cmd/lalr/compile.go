package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/golalr/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar file>",
		Short:   "Compile a grammar into LALR(1) parse tables",
		Example: `  lalr compile expr.ebnf -o expr.lalr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default <grammar>"+TableFileExt+")")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	tables, _, err := loadTables(args[0])
	if err != nil {
		return err
	}
	out := *compileFlags.output
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + TableFileExt
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err = lr.WriteTables(f, tables); err != nil {
		f.Close()
		return fmt.Errorf("cannot write tables: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	pterm.Success.Printf("%d states, %d ACTION and %d GOTO entries written to %s\n",
		tables.StateCount(), tables.ActionCount(), tables.GotoCount(), out)
	tracer().Infof("table fingerprint is %s", tables.Fingerprint())
	return nil
}
