package lr

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/emirpasic/gods/utils"
)

// Item is an LR(0) item, i.e. a rule together with a dot position.
// Lookaheads are kept separately by the CFSM, indexed by item.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns an item with the dot at the start of a rule.
func StartItem(r *Rule) Item {
	return Item{rule: r}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot of an item.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil for complete items.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance returns a new item with the dot moved one position to the right.
func (i Item) Advance() Item {
	if i.dot >= len(i.rule.rhs) {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

// Rest returns the symbols following the symbol after the dot, i.e. β for an
// item A → α • X β.
func (i Item) Rest() []*Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

// IsComplete is true if the dot is behind the right hand side of the rule.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

func (i Item) String() string {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("[%s] ::= [", i.rule.LHS))
	for k, A := range i.rule.rhs {
		if k > 0 {
			b.WriteString(" ")
		}
		if k == i.dot {
			b.WriteString("• ")
		}
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		if len(i.rule.rhs) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("•")
	}
	b.WriteString("]")
	return b.String()
}

// itemComparator orders items by rule serial, then by dot position.
func itemComparator(a, b interface{}) int {
	i1, i2 := a.(Item), b.(Item)
	if c := utils.IntComparator(i1.rule.Serial, i2.rule.Serial); c != 0 {
		return c
	}
	return utils.IntComparator(i1.dot, i2.dot)
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		return itemComparator(items[i], items[j]) < 0
	})
}

// coreKey is a string identifying a sorted kernel.
func coreKey(kernel []Item) string {
	var b bytes.Buffer
	for _, i := range kernel {
		b.WriteString(fmt.Sprintf("%d.%d;", i.rule.Serial, i.dot))
	}
	return b.String()
}
