package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/golalr/lr/grammarfile"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// TableFileExt is the file extension for stored parse tables.
const TableFileExt = ".lalr"

var rootFlags = struct {
	trace           *string
	start           *string
	preferShift     *bool
	lenientNonAssoc *bool
	dense           *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "lalr",
	Short: "Generate LALR(1) parse tables from a grammar and parse input",
	Long: `lalr provides the following features:
- Generates LALR(1) parse tables from a grammar file (TOML or EBNF).
- Shows tables, the LALR(1) automaton and grammar analysis.
- Parses input according to the grammar, printing the parse tree.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	rootFlags.trace = pf.StringP("trace", "t", "Error", "trace level [Debug|Info|Error]")
	rootFlags.start = pf.StringP("start", "s", "", "start symbol (default from grammar file)")
	rootFlags.preferShift = pf.Bool("prefer-shift", false, "resolve shift/reduce conflicts without precedence as shift")
	rootFlags.lenientNonAssoc = pf.Bool("lenient-nonassoc", false, "make chained non-associative operators a syntax error instead of a conflict")
	rootFlags.dense = pf.Bool("dense", false, "use a dense table representation")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range []string{"golalr.cli", "golalr.lr", "golalr.lalr", "golalr.scanner", "golalr.grammarfile"} {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", *rootFlags.trace)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// tableOptions collects table generator options from command line flags.
func tableOptions() []lr.Option {
	repr := lr.Sparse
	if *rootFlags.dense {
		repr = lr.Dense
	}
	return []lr.Option{
		lr.WithObserver(cliObserver{}),
		lr.PreferShift(*rootFlags.preferShift),
		lr.LenientNonAssoc(*rootFlags.lenientNonAssoc),
		lr.TableRepresentation(repr),
	}
}

// loadTables reads parse tables from path. Table files are restored, grammar
// files are analysed and tables are generated. lrgen is nil for table files.
func loadTables(path string) (tables *lr.Tables, lrgen *lr.TableGenerator, err error) {
	if strings.EqualFold(filepath.Ext(path), TableFileExt) {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		if tables, err = lr.ReadTables(f, tableOptions()...); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return tables, nil, nil
	}
	g, err := grammarfile.Load(path, *rootFlags.start, tableOptions()...)
	if err != nil {
		return nil, nil, err
	}
	lrgen = lr.NewTableGenerator(lr.Analysis(g), tableOptions()...)
	tables, err = lrgen.CreateTables()
	return tables, lrgen, err
}

// cliObserver prints diagnostics to the terminal.
type cliObserver struct{}

func (cliObserver) GrammarLoaded(g *lr.Grammar) {
	tracer().Infof("grammar %s loaded: %d rules", g.Name, g.Size())
}

func (cliObserver) TablesBuilt(t *lr.Tables) {
	tracer().Infof("tables built: %d states", t.StateCount())
}

func (cliObserver) Diagnostic(d lr.Diagnostic) {
	switch d.Severity {
	case lr.Fatal:
		pterm.Error.Println(d.String())
	case lr.Warning:
		pterm.Warning.Println(d.String())
	default:
		pterm.Info.Println(d.String())
	}
}
