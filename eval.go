package ratexpr

import (
	"io"
	"strings"
)

// Eval evaluates the expression and returns its exact value. Operands are
// evaluated left to right, and the first error stops evaluation. Errors are
// *ArithError.
func (t *Tree) Eval() (Value, error) {
	return t.root.eval()
}

// eval computes the node's value.
func (n *node) eval() (Value, error) {
	switch n.tok.Kind {
	case TokenValue:
		return n.tok.Value, nil
	case TokenOperator:
		// do nothing
	default:
		panic("ratexpr: eval on invalid node " + n.tok.String())
	}
	var l Value
	if n.left != nil {
		var err error
		if l, err = n.left.eval(); err != nil {
			return Value{}, err
		}
	}
	r, err := n.right.eval()
	if err != nil {
		return Value{}, err
	}
	v, err := n.tok.Op.Apply(l, r)
	if err != nil {
		sym := n.tok.Op.String()
		if n.tok.Op.Unary() {
			sym = "-"
		}
		return Value{}, &ArithError{Col: n.tok.Pos, Op: sym, Err: err}
	}
	return v, nil
}

// Eval is a shortcut to parse an expression and return its value.
func Eval(src io.RuneScanner, opts ...ParseOption) (Value, error) {
	t, err := Parse(src, opts...)
	if err != nil {
		return Value{}, err
	}
	return t.Eval()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ParseOption) (Value, error) {
	return Eval(strings.NewReader(src), opts...)
}

// ArithError is an error from an operation whose result cannot be computed,
// either division by zero or overflow. It implements InputError.
type ArithError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator's symbol.
	Op string
	// Err is ErrDivisionByZero or ErrOverflow.
	Err error
}

func (err *ArithError) Error() string {
	return errpos(err.Col, err.Err.Error()+" in "+err.Op)
}

func (err *ArithError) Pos() int {
	return err.Col
}

func (err *ArithError) Unwrap() error {
	return err.Err
}
