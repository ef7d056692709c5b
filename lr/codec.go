package lr

import (
	"fmt"
	"io"

	"github.com/dekarrin/rezi"
	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr/sparse"
)

// This file contains the binary format for parser tables. Tables are stored
// together with the canonical declarations of their grammar, so a grammar is
// re-created and re-validated when tables are loaded.

const tablesFormat = "golalr-tables/1"

// WriteTables writes parser tables to w in binary form.
func WriteTables(w io.Writer, t *Tables) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadTables reads parser tables written by WriteTables.
func ReadTables(r io.Reader, opts ...Option) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tables: %w", err)
	}
	t := &Tables{}
	if err = t.unmarshal(data, opts); err != nil {
		return nil, err
	}
	return t, nil
}

// decoder consumes values from a byte slice. After the first error all
// further reads are no-ops and return zero values.
type decoder struct {
	data []byte
	err  error
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	v, n, err := rezi.DecInt(d.data)
	if err != nil {
		d.err = err
		return 0
	}
	d.data = d.data[n:]
	return v
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	s, n, err := rezi.DecString(d.data)
	if err != nil {
		d.err = err
		return ""
	}
	d.data = d.data[n:]
	return s
}

func (d *decoder) bool() bool {
	if d.err != nil {
		return false
	}
	b, n, err := rezi.DecBool(d.data)
	if err != nil {
		d.err = err
		return false
	}
	d.data = d.data[n:]
	return b
}

func (d *decoder) binary(u interface{ UnmarshalBinary([]byte) error }) {
	if d.err != nil {
		return
	}
	n, err := rezi.DecBinary(d.data, u)
	if err != nil {
		d.err = err
		return
	}
	d.data = d.data[n:]
}

// count reads a slice length and checks it against the remaining data.
func (d *decoder) count() int {
	n := d.int()
	if d.err == nil && (n < 0 || n > len(d.data)) {
		d.err = fmt.Errorf("corrupt length %d", n)
		return 0
	}
	return n
}

// --- Declarations ----------------------------------------------------------

// MarshalBinary encodes a declaration.
func (d Declaration) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(int(d.Kind))...)
	data = append(data, rezi.EncString(d.Head)...)
	data = append(data, rezi.EncInt(len(d.Alternatives))...)
	for _, alt := range d.Alternatives {
		data = append(data, rezi.EncInt(len(alt))...)
		for _, name := range alt {
			data = append(data, rezi.EncString(name)...)
		}
	}
	data = append(data, rezi.EncBool(d.Prec != nil)...)
	if d.Prec != nil {
		data = append(data, rezi.EncInt(d.Prec.Level)...)
		data = append(data, rezi.EncInt(int(d.Prec.Assoc))...)
	}
	data = append(data, rezi.EncBool(d.Unreachable)...)
	data = append(data, rezi.EncBool(d.TokType != nil)...)
	if d.TokType != nil {
		data = append(data, rezi.EncInt(int(*d.TokType))...)
	}
	data = append(data, rezi.EncString(d.Pattern)...)
	return data, nil
}

// UnmarshalBinary decodes a declaration encoded by MarshalBinary.
func (d *Declaration) UnmarshalBinary(data []byte) error {
	dec := &decoder{data: data}
	*d = Declaration{}
	d.Kind = DeclKind(dec.int())
	d.Head = dec.string()
	nalt := dec.count()
	for a := 0; a < nalt && dec.err == nil; a++ {
		alt := []string{}
		nsym := dec.count()
		for k := 0; k < nsym && dec.err == nil; k++ {
			alt = append(alt, dec.string())
		}
		d.Alternatives = append(d.Alternatives, alt)
	}
	if dec.bool() {
		d.Prec = &Precedence{Level: dec.int(), Assoc: Assoc(dec.int())}
	}
	d.Unreachable = dec.bool()
	if dec.bool() {
		d.TokType = TokTypeRef(golalr.TokType(dec.int()))
	}
	d.Pattern = dec.string()
	if dec.err != nil {
		return fmt.Errorf("decoding declaration: %w", dec.err)
	}
	return nil
}

// --- Tables ----------------------------------------------------------------

func encodeMatrixEntries(data []byte, each func(func(i, j int, v int32))) []byte {
	var cells []int
	each(func(i, j int, v int32) {
		cells = append(cells, i, j, int(v))
	})
	data = append(data, rezi.EncInt(len(cells)/3)...)
	for _, c := range cells {
		data = append(data, rezi.EncInt(c)...)
	}
	return data
}

// MarshalBinary encodes tables, together with the declarations of their
// grammar and the diagnostics of table generation.
func (t *Tables) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncString(tablesFormat)...)
	data = append(data, rezi.EncString(t.g.Name)...)
	decls := t.g.Declarations()
	data = append(data, rezi.EncInt(len(decls))...)
	for _, d := range decls {
		data = append(data, rezi.EncBinary(d)...)
	}
	data = append(data, rezi.EncInt(t.states)...)
	data = append(data, rezi.EncInt(int(t.repr))...)
	data = encodeMatrixEntries(data, t.action.Each)
	data = encodeMatrixEntries(data, t.gotoT.Each)
	data = append(data, rezi.EncInt(len(t.diagnostics))...)
	for _, diag := range t.diagnostics {
		data = append(data, rezi.EncInt(int(diag.Severity))...)
		data = append(data, rezi.EncString(diag.Kind)...)
		data = append(data, rezi.EncInt(diag.State)...)
		data = append(data, rezi.EncString(diag.Symbol)...)
		data = append(data, rezi.EncInt(len(diag.Rules))...)
		for _, r := range diag.Rules {
			data = append(data, rezi.EncInt(r)...)
		}
		data = append(data, rezi.EncString(diag.Message)...)
	}
	return data, nil
}

// UnmarshalBinary decodes tables encoded by MarshalBinary. The grammar is
// re-created from its declarations.
func (t *Tables) UnmarshalBinary(data []byte) error {
	return t.unmarshal(data, nil)
}

func (t *Tables) unmarshal(data []byte, opts []Option) error {
	dec := &decoder{data: data}
	if format := dec.string(); dec.err == nil && format != tablesFormat {
		return fmt.Errorf("unknown table format %q", format)
	}
	name := dec.string()
	ndecl := dec.count()
	decls := make([]Declaration, ndecl)
	for k := 0; k < ndecl; k++ {
		dec.binary(&decls[k])
	}
	if dec.err != nil {
		return fmt.Errorf("decoding tables: %w", dec.err)
	}
	g, err := FromDeclarations(name, decls, opts...)
	if err != nil {
		return fmt.Errorf("decoding tables: %w", err)
	}
	t.g = g
	t.states = dec.int()
	t.repr = Representation(dec.int())
	if dec.err == nil && t.states < 0 {
		return fmt.Errorf("decoding tables: corrupt state count %d", t.states)
	}
	t.action = newMatrix(t.repr, t.states, g.TerminalCount())
	t.gotoT = newMatrix(t.repr, t.states, g.NonTerminalCount())
	checks := []func(int32) error{t.checkAction, t.checkGoto}
	for c, m := range []sparse.Matrix{t.action, t.gotoT} {
		n := dec.count()
		for k := 0; k < n && dec.err == nil; k++ {
			i, j, v := dec.int(), dec.int(), dec.int()
			if dec.err == nil {
				if i < 0 || i >= m.M() || j < 0 || j >= m.N() {
					return fmt.Errorf("decoding tables: entry (%d,%d) out of range", i, j)
				}
				if err := checks[c](int32(v)); err != nil {
					return fmt.Errorf("decoding tables: entry (%d,%d): %w", i, j, err)
				}
				m.Set(i, j, int32(v))
			}
		}
	}
	t.diagnostics = nil
	ndiag := dec.count()
	for k := 0; k < ndiag && dec.err == nil; k++ {
		diag := Diagnostic{
			Severity: Severity(dec.int()),
			Kind:     dec.string(),
			State:    dec.int(),
			Symbol:   dec.string(),
		}
		nrules := dec.count()
		for r := 0; r < nrules; r++ {
			diag.Rules = append(diag.Rules, dec.int())
		}
		diag.Message = dec.string()
		t.diagnostics = append(t.diagnostics, diag)
	}
	if dec.err != nil {
		return fmt.Errorf("decoding tables: %w", dec.err)
	}
	return nil
}

// checkAction verifies that a decoded ACTION entry refers to an existing
// state or rule.
func (t *Tables) checkAction(v int32) error {
	if v == t.action.NullValue() {
		return fmt.Errorf("empty action stored")
	}
	switch a := decodeAction(v, t.action.NullValue()); a.Type {
	case Shift:
		if a.Target < 0 || a.Target >= t.states {
			return fmt.Errorf("shift to unknown state %d", a.Target)
		}
	case Reduce:
		if a.Target < 1 || a.Target >= t.g.Size() {
			return fmt.Errorf("reduce by unknown rule %d", a.Target)
		}
	}
	return nil
}

// checkGoto verifies that a decoded GOTO entry refers to an existing state.
func (t *Tables) checkGoto(v int32) error {
	if v < 0 || int(v) >= t.states {
		return fmt.Errorf("goto unknown state %d", v)
	}
	return nil
}
