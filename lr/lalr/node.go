package lalr

import (
	"strings"

	"github.com/npillmayer/golalr"
	"github.com/npillmayer/golalr/lr"
)

// Node is a node of a parse tree. Leafs represent terminals and hold the
// token which has been shifted. Inner nodes represent a reduced rule.
type Node struct {
	Symbol   *lr.Symbol   // grammar symbol this node derives
	Rule     int          // serial of the rule reduced, -1 for leafs
	Token    golalr.Token // input token for leafs, nil otherwise
	Children []*Node      // RHS nodes of the rule reduced
	Span     golalr.Span  // input span covered by this node
	Value    interface{}  // user defined value, set by a Listener
}

// IsLeaf is true for nodes representing terminals.
func (n *Node) IsLeaf() bool {
	return n.Rule < 0
}

// Depth returns the height of the sub-tree rooted at n. A leaf has depth 1.
func (n *Node) Depth() int {
	d := 0
	for _, ch := range n.Children {
		if cd := ch.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}

// Walk visits the sub-tree rooted at n in pre-order. If visit returns false,
// the children of the current node are skipped.
func (n *Node) Walk(visit func(n *Node, level int) bool) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(*Node, int) bool, level int) {
	if !visit(n, level) {
		return
	}
	for _, ch := range n.Children {
		ch.walk(visit, level+1)
	}
}

// String returns the tree as an S-expression, e.g.
//
//	(E (E id) + (E id))
func (n *Node) String() string {
	var b strings.Builder
	n.sexpr(&b)
	return b.String()
}

func (n *Node) sexpr(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Symbol.Name)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Symbol.Name)
	for _, ch := range n.Children {
		b.WriteByte(' ')
		ch.sexpr(b)
	}
	b.WriteByte(')')
}
