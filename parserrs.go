package ratexpr

import (
	"errors"
	"strconv"
)

// BracketError is an error indicating an unmatched parenthesis. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is "(" if an open parenthesis was never closed.
	Left string
	// Right is ")" if a close parenthesis had no open parenthesis.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close parenthesis "+err.Right+" with no open parenthesis")
	}
	return errpos(err.Col, "open parenthesis "+err.Left+" with no close parenthesis")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// OperandError is an error indicating an operator without enough operands,
// e.g. "+5" or "2*". It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the operator's symbol.
	Operator string
	// Unary is whether the operator was unary minus.
	Unary bool
}

func (err *OperandError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "missing operand for "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// TermError is an error indicating terms with no operator between them, e.g.
// "(1)(2)". It implements InputError.
type TermError struct {
	// Col is the position of the first term that has no operator joining it
	// to the terms before it.
	Col int
	// Terms is the number of separate terms in the expression.
	Terms int
}

func (err *TermError) Error() string {
	return errpos(err.Col, "missing operator between "+strconv.Itoa(err.Terms)+" terms")
}

func (err *TermError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// LimitError is an error indicating an expression larger than the parse
// options allow. It implements InputError.
type LimitError struct {
	// Col is the position of the token that crossed the limit.
	Col int
	// Limit names the limit, either "depth" or "tokens".
	Limit string
	// Max is the limit's value.
	Max int
}

func (err *LimitError) Error() string {
	return errpos(err.Col, "expression exceeds maximum "+err.Limit+" of "+strconv.Itoa(err.Max))
}

func (err *LimitError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error. It is 0 if the
	// position is unknown.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*TermError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LimitError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*ArithError)(nil)
)

// Kind is a broad classification of errors.
type Kind int8

const (
	// KindNone is the kind of nil and of errors from outside this package,
	// such as I/O errors or context cancellation.
	KindNone Kind = iota
	// KindLex is the kind of *LexError.
	KindLex
	// KindParse is the kind of errors from malformed token sequences: missing
	// operands, unmatched parentheses, empty expressions, exceeded limits.
	KindParse
	// KindDivisionByZero is the kind of errors wrapping ErrDivisionByZero.
	KindDivisionByZero
	// KindOverflow is the kind of errors wrapping ErrOverflow during
	// evaluation.
	KindOverflow
)

// KindOf classifies an error returned by this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var lex *LexError
	if errors.As(err, &lex) {
		return KindLex
	}
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return KindDivisionByZero
	case errors.Is(err, ErrOverflow):
		return KindOverflow
	}
	var in InputError
	if errors.As(err, &in) {
		return KindParse
	}
	return KindNone
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindLex:
		return "LexError"
	case KindParse:
		return "ParseError"
	case KindDivisionByZero:
		return "DivisionByZero"
	case KindOverflow:
		return "ArithmeticOverflow"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}
