package ratexpr

import (
	"strconv"
	"strings"
)

// Operator is an arithmetic operator.
type Operator int8

const (
	opNone Operator = iota

	OpAdd // binary +
	OpSub // binary -
	OpMul // binary *
	OpDiv // binary /
	OpNeg // unary -
)

// Precedence returns the binding strength of the operator. Higher binds
// tighter.
func (op Operator) Precedence() int {
	switch op {
	case OpAdd, OpSub:
		return 2
	case OpMul, OpDiv:
		return 3
	case OpNeg:
		return 5
	default:
		panic("ratexpr: precedence of invalid operator " + strconv.Itoa(int(op)))
	}
}

// RightAssoc returns whether the operator groups right to left. Only unary
// minus does.
func (op Operator) RightAssoc() bool {
	return op == OpNeg
}

// Unary returns whether the operator takes a single operand.
func (op Operator) Unary() bool {
	return op == OpNeg
}

// Apply computes l op r. Unary minus ignores l and negates r.
func (op Operator) Apply(l, r Value) (Value, error) {
	switch op {
	case OpAdd:
		return l.Add(r)
	case OpSub:
		return l.Sub(r)
	case OpMul:
		return l.Mul(r)
	case OpDiv:
		return l.Div(r)
	case OpNeg:
		return r.Neg()
	default:
		panic("ratexpr: apply invalid operator " + strconv.Itoa(int(op)))
	}
}

// String returns the operator's symbol. Unary minus is "u" so that postfix
// sequences are unambiguous.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpNeg:
		return "u"
	default:
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
}

// Paren is a parenthesis. Parentheses only group; they never appear in a
// built Tree.
type Paren int8

const (
	parenNone Paren = iota

	ParenLeft  // (
	ParenRight // )
)

func (p Paren) String() string {
	switch p {
	case ParenLeft:
		return "("
	case ParenRight:
		return ")"
	default:
		return "Paren(" + strconv.Itoa(int(p)) + ")"
	}
}

// TokenKind selects which field of a Token is meaningful.
type TokenKind int8

const (
	tokenNone TokenKind = iota

	// TokenValue is a numeric literal; Token.Value holds it.
	TokenValue
	// TokenOperator is an operator; Token.Op holds it.
	TokenOperator
	// TokenParen is a parenthesis; Token.Paren holds it.
	TokenParen
)

func (k TokenKind) String() string {
	switch k {
	case TokenValue:
		return "Value"
	case TokenOperator:
		return "Operator"
	case TokenParen:
		return "Paren"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is one lexical element of an expression.
type Token struct {
	Kind  TokenKind
	Op    Operator
	Paren Paren
	Value Value
	// Pos is the 1-based rune column where the token starts in the source.
	Pos int
}

// String formats the token as it would be written in an expression, except
// that unary minus is "u".
func (t Token) String() string {
	switch t.Kind {
	case TokenValue:
		return t.Value.String()
	case TokenOperator:
		return t.Op.String()
	case TokenParen:
		return t.Paren.String()
	default:
		return "Token(" + t.Kind.String() + "@" + strconv.Itoa(t.Pos) + ")"
	}
}

// FormatTokens joins the string forms of tokens with spaces.
func FormatTokens(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
