package ratexpr

import (
	"strings"
)

// node is a node in the expression tree. Value nodes have no children, unary
// minus has only right, and binary operators have both.
type node struct {
	tok Token

	left  *node
	right *node
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.tok.Kind {
	case TokenValue:
		b.WriteString(n.tok.Value.String())
	case TokenOperator:
		if n.tok.Op.Unary() {
			b.WriteByte('-')
			n.right.fmt(b, !square)
			return
		}
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(n.tok.Op.String())
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	default:
		panic("ratexpr: invalid node " + n.tok.String() + " after writing " + b.String())
	}
}

// start returns the column where the source text of the subtree begins.
func (n *node) start() int {
	for n.left != nil {
		n = n.left
	}
	return n.tok.Pos
}
