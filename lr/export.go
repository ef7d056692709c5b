package lr

import (
	"bytes"
	"fmt"
	"html"
	"io"
)

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(t *Tables, w io.Writer) error {
	if t == nil {
		return fmt.Errorf("GOTO table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(t, "GOTO", t.g.nonterminals[1:], w, func(s int, A *Symbol) string {
		if to, ok := t.Goto(s, A); ok {
			return fmt.Sprintf("%d", to)
		}
		return ""
	})
}

// ActionTableAsHTML exports the LALR(1) ACTION-table in HTML-format.
// Shift entries are written as s‹state›, reduce entries as r‹rule›.
func ActionTableAsHTML(t *Tables, w io.Writer) error {
	if t == nil {
		return fmt.Errorf("ACTION table not yet created, cannot export to HTML")
	}
	return parserTableAsHTML(t, "ACTION", t.g.terminals, w, func(s int, A *Symbol) string {
		return t.Action(s, A).String()
	})
}

func parserTableAsHTML(t *Tables, tname string, symvec []*Symbol, w io.Writer,
	cell func(int, *Symbol) string) error {
	//
	var b bytes.Buffer
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("%s table for %s, %d states<p>", tname, html.EscapeString(t.g.Name), t.states))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td>\n")
	for _, A := range symvec {
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(A.Name)))
	}
	b.WriteString("</tr>\n")
	var td string // table cell
	for s := 0; s < t.states; s++ {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", s))
		for _, A := range symvec {
			if td = cell(s, A); td == "" {
				td = "&nbsp;"
			}
			b.WriteString("<td>")
			b.WriteString(td)
			b.WriteString("</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := w.Write(b.Bytes())
	return err
}
