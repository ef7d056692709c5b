package grammarfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
)

// topLevelGrammar is the top-level structure of a TOML grammar file.
type topLevelGrammar struct {
	Name      string     `toml:"name"`
	Start     string     `toml:"start,omitempty"`
	Terminals []terminal `toml:"terminal,omitempty"`
	Rules     []rule     `toml:"rule"`
}

type terminal struct {
	Name    string `toml:"name"`
	TokType *int   `toml:"toktype,omitempty"`
	Pattern string `toml:"pattern,omitempty"`
	Prec    int    `toml:"prec,omitempty"`
	Assoc   string `toml:"assoc,omitempty"`
}

type rule struct {
	LHS         string     `toml:"lhs"`
	RHS         [][]string `toml:"rhs"`
	Prec        int        `toml:"prec,omitempty"`
	Assoc       string     `toml:"assoc,omitempty"`
	Unreachable bool       `toml:"unreachable,omitempty"`
}

// ParseTOML reads grammar declarations in TOML format. Unknown keys are
// reported as errors.
func ParseTOML(r io.Reader) (*Spec, error) {
	var tg topLevelGrammar
	md, err := toml.NewDecoder(r).Decode(&tg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in grammar file", undecoded[0].String())
	}
	spec := &Spec{Name: tg.Name}
	if tg.Start != "" {
		spec.Declarations = append(spec.Declarations, lr.Declaration{Kind: lr.StartDecl, Head: tg.Start})
	}
	for _, t := range tg.Terminals {
		d := lr.Declaration{Kind: lr.TerminalDecl, Head: t.Name, Pattern: t.Pattern}
		if t.TokType != nil {
			d.TokType = lr.TokTypeRef(golalr.TokType(*t.TokType))
		}
		if d.Prec, err = precedence(t.Prec, t.Assoc); err != nil {
			return nil, fmt.Errorf("terminal %q: %w", t.Name, err)
		}
		spec.Declarations = append(spec.Declarations, d)
	}
	for _, r := range tg.Rules {
		if len(r.RHS) == 0 {
			return nil, fmt.Errorf("rule for %q: no alternatives given", r.LHS)
		}
		d := lr.Declaration{
			Kind:         lr.RuleDecl,
			Head:         r.LHS,
			Alternatives: r.RHS,
			Unreachable:  r.Unreachable,
		}
		if d.Prec, err = precedence(r.Prec, r.Assoc); err != nil {
			return nil, fmt.Errorf("rule for %q: %w", r.LHS, err)
		}
		spec.Declarations = append(spec.Declarations, d)
	}
	return spec, nil
}

func precedence(level int, assoc string) (*lr.Precedence, error) {
	var a lr.Assoc
	switch strings.ToLower(assoc) {
	case "":
		if level == 0 {
			return nil, nil
		}
		a = lr.NoAssoc
	case "left":
		a = lr.LeftAssoc
	case "right":
		a = lr.RightAssoc
	case "nonassoc":
		a = lr.NonAssoc
	default:
		return nil, fmt.Errorf("unknown associativity %q", assoc)
	}
	if level <= 0 {
		return nil, fmt.Errorf("associativity %q needs a precedence level > 0", assoc)
	}
	return &lr.Precedence{Level: level, Assoc: a}, nil
}

// WriteTOML writes the declarations of a grammar in TOML format. Reading the
// output with ParseTOML re-creates an equivalent grammar.
func WriteTOML(w io.Writer, g *lr.Grammar) error {
	tg := topLevelGrammar{Name: g.Name}
	for _, d := range g.Declarations() {
		switch d.Kind {
		case lr.StartDecl:
			tg.Start = d.Head
		case lr.TerminalDecl:
			t := terminal{Name: d.Head, Pattern: d.Pattern}
			if d.TokType != nil {
				tt := int(*d.TokType)
				t.TokType = &tt
			}
			if d.Prec != nil {
				t.Prec, t.Assoc = d.Prec.Level, assocName(d.Prec.Assoc)
			}
			tg.Terminals = append(tg.Terminals, t)
		case lr.RuleDecl:
			r := rule{LHS: d.Head, RHS: d.Alternatives, Unreachable: d.Unreachable}
			if d.Prec != nil {
				r.Prec, r.Assoc = d.Prec.Level, assocName(d.Prec.Assoc)
			}
			tg.Rules = append(tg.Rules, r)
		}
	}
	return toml.NewEncoder(w).Encode(tg)
}

func assocName(a lr.Assoc) string {
	switch a {
	case lr.LeftAssoc:
		return "left"
	case lr.RightAssoc:
		return "right"
	case lr.NonAssoc:
		return "nonassoc"
	}
	return ""
}
