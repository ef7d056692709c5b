package lr

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestTablesRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lr")
	defer teardown()
	//
	for _, repr := range []Representation{Sparse, Dense} {
		g := exprGrammar(t, true)
		tables, err := NewTableGenerator(Analysis(g), TableRepresentation(repr)).CreateTables()
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err = WriteTables(&buf, tables); err != nil {
			t.Fatal(err)
		}
		loaded, err := ReadTables(&buf)
		if err != nil {
			t.Fatal(err)
		}
		assert := assert.New(t)
		assert.Equal(tables.Fingerprint(), loaded.Fingerprint())
		assert.Equal(tables.StateCount(), loaded.StateCount())
		assert.Equal(tables.Diagnostics(), loaded.Diagnostics())
		lg := loaded.Grammar()
		for s := 0; s < tables.StateCount(); s++ {
			for i := 0; i < g.TerminalCount(); i++ {
				assert.Equal(tables.Action(s, g.Terminal(i)), loaded.Action(s, lg.Terminal(i)))
			}
		}
	}
}

func TestReadCorruptTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lr")
	defer teardown()
	//
	if _, err := ReadTables(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Errorf("expected error for corrupt table data")
	}
	tables, err := NewTableGenerator(Analysis(abGrammar(t))).CreateTables()
	if err != nil {
		t.Fatal(err)
	}
	data, _ := tables.MarshalBinary()
	if _, err = ReadTables(bytes.NewReader(data[:len(data)/2])); err == nil {
		t.Errorf("expected error for truncated table data")
	}
}

func TestReadTablesWithBadTargets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "golalr.lr")
	defer teardown()
	//
	g := abGrammar(t)
	a := g.SymbolByName("a")
	S := g.SymbolByName("S")
	corruptions := map[string]func(tables *Tables){
		"reduce": func(tables *Tables) {
			tables.action.Set(0, a.Value, encodeAction(Action{Type: Reduce, Target: g.Size()}))
		},
		"shift": func(tables *Tables) {
			tables.action.Set(0, a.Value, encodeAction(Action{Type: Shift, Target: tables.StateCount()}))
		},
		"goto": func(tables *Tables) {
			tables.gotoT.Set(0, S.Value, int32(tables.StateCount()+3))
		},
	}
	for name, corrupt := range corruptions {
		tables, err := NewTableGenerator(Analysis(g)).CreateTables()
		if err != nil {
			t.Fatal(err)
		}
		corrupt(tables)
		var buf bytes.Buffer
		if err = WriteTables(&buf, tables); err != nil {
			t.Fatal(err)
		}
		_, err = ReadTables(&buf)
		assert.Error(t, err, "expected %s target to be rejected", name)
	}
}
