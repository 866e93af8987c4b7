package ratexpr

import (
	"io"
	"strings"
)

// Tree is a parsed expression. It is immutable and safe for concurrent use.
type Tree struct {
	// root is the root node of the expression.
	root *node
	// postfix is the token sequence the tree was built from.
	postfix []Token
	// depth is the height of the tree.
	depth int
}

// Parse reads one expression and builds its tree. The given options are
// applied in order. Unless StopOn is given, Parse reads src to EOF.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Tree, error) {
	p := newParsectx(opts)
	toks, err := lex(src, &p).run()
	if err != nil {
		return nil, err
	}
	post, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	return build(post, &p)
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Tree, error) {
	return Parse(strings.NewReader(src), opts...)
}

// BuildTree builds an expression tree from tokens in postfix order, as
// produced by ToPostfix. Each operator takes its operands from the trees built
// before it; the most recent is the right operand. Exactly one tree must
// remain at the end. Of the options, only MaxDepth applies.
func BuildTree(postfix []Token, opts ...ParseOption) (*Tree, error) {
	p := newParsectx(opts)
	return build(postfix, &p)
}

func build(postfix []Token, p *parsectx) (*Tree, error) {
	type entry struct {
		n *node
		h int
	}
	stack := make([]entry, 0, len(postfix)/2+1)
	pop := func() entry {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return e
	}
	for _, tok := range postfix {
		var e entry
		switch tok.Kind {
		case TokenValue:
			e = entry{n: &node{tok: tok}, h: 1}
		case TokenOperator:
			if tok.Op.Unary() {
				if len(stack) < 1 {
					return nil, &OperandError{Col: tok.Pos, Operator: "-", Unary: true}
				}
				r := pop()
				e = entry{n: &node{tok: tok, right: r.n}, h: r.h + 1}
				break
			}
			if len(stack) < 2 {
				return nil, &OperandError{Col: tok.Pos, Operator: tok.Op.String()}
			}
			r := pop()
			l := pop()
			e = entry{n: &node{tok: tok, left: l.n, right: r.n}, h: max(l.h, r.h) + 1}
		case TokenParen:
			// Parentheses here mean the caller skipped ToPostfix.
			if tok.Paren == ParenLeft {
				return nil, &BracketError{Col: tok.Pos, Left: tok.Paren.String()}
			}
			return nil, &BracketError{Col: tok.Pos, Right: tok.Paren.String()}
		default:
			panic("ratexpr: invalid token " + tok.String())
		}
		if p.maxdepth > 0 && e.h > p.maxdepth {
			return nil, &LimitError{Col: tok.Pos, Limit: "depth", Max: p.maxdepth}
		}
		stack = append(stack, e)
	}
	switch len(stack) {
	case 0:
		return nil, &EmptyExpressionError{}
	case 1:
		// do nothing
	default:
		return nil, &TermError{Col: stack[1].n.start(), Terms: len(stack)}
	}
	t := Tree{
		root:    stack[0].n,
		postfix: append([]Token(nil), postfix...),
		depth:   stack[0].h,
	}
	return &t, nil
}

// Postfix returns the postfix token sequence the tree was built from.
func (t *Tree) Postfix() []Token {
	return append([]Token(nil), t.postfix...)
}

// Depth returns the height of the tree. A single number has depth 1.
func (t *Tree) Depth() int {
	return t.depth
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (t *Tree) String() string {
	return t.root.String()
}
