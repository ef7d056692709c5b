package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/golalr/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestCompileAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.cli")
	defer teardown()
	//
	out := filepath.Join(t.TempDir(), "expr"+TableFileExt)
	rootCmd.SetArgs([]string{"compile", "../../lr/grammarfile/testdata/expr.ebnf", "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	tables, err := lr.ReadTables(f)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "Expr", tables.Grammar().Start().Name)
	//
	s, err := newSession(tables)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := s.parse("a * (b + c)")
	if err != nil {
		t.Fatal(err)
	}
	ll := leveledList(tree)
	assert.Equal(t, "Expr", ll[0].Text)
	assert.Equal(t, 0, ll[0].Level)
	assert.Equal(t, `ident "a"`, ll[3].Text)
	assert.Equal(t, 3, ll[3].Level)
	_, err = s.parse("a * (b + c")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.cli")
	defer teardown()
	//
	for _, format := range []string{"tables", "grammar", "dot", "toml", "html"} {
		rootCmd.SetArgs([]string{"show", "../../lr/grammarfile/testdata/expr.toml", "--format", format})
		assert.NoError(t, rootCmd.Execute(), format)
	}
	rootCmd.SetArgs([]string{"show", "../../lr/grammarfile/testdata/expr.toml", "--format", "json"})
	assert.Error(t, rootCmd.Execute())
}

func TestParseWithScannerError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.cli")
	defer teardown()
	//
	tables, _, err := loadTables("../../lr/grammarfile/testdata/expr.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	s, err := newSession(tables)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := s.parse("a # + b")
	assert.Error(t, err)
	if assert.NotNil(t, tree, "expected tree for accepted input") {
		assert.Equal(t, "Expr", tree.Symbol.Name)
		assert.Equal(t, uint64(7), tree.Span.To())
	}
	assert.Equal(t, err, showResult(tree, err))
	//
	rootCmd.SetArgs([]string{"parse", "../../lr/grammarfile/testdata/expr.ebnf", "a # + b", "--sexpr"})
	assert.Error(t, rootCmd.Execute())
}
