package ratexpr

// stackEntry is an element of the shunting-yard operator stack.
type stackEntry struct {
	tok Token
	// mark is the output length when an open parenthesis was pushed, used to
	// detect empty groups.
	mark int
}

// ToPostfix reorders infix tokens into postfix order using the shunting-yard
// algorithm. Operators of higher precedence bind tighter; binary operators
// group left to right and unary minus groups right to left. Parentheses are
// consumed.
//
// ToPostfix checks that parentheses match, but not that operators have
// operands; BuildTree does that.
func ToPostfix(tokens []Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	var ops []stackEntry
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenValue:
			out = append(out, tok)
		case TokenOperator:
			p := tok.Op.Precedence()
			for len(ops) > 0 {
				top := ops[len(ops)-1].tok
				if top.Kind != TokenOperator {
					break
				}
				q := top.Op.Precedence()
				if q < p || q == p && tok.Op.RightAssoc() {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, stackEntry{tok: tok})
		case TokenParen:
			switch tok.Paren {
			case ParenLeft:
				ops = append(ops, stackEntry{tok: tok, mark: len(out)})
			case ParenRight:
				var err error
				if out, ops, err = closeGroup(tok, out, ops); err != nil {
					return nil, err
				}
			default:
				panic("ratexpr: invalid paren token " + tok.String())
			}
		default:
			panic("ratexpr: invalid token " + tok.String())
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1].tok
		ops = ops[:len(ops)-1]
		if top.Kind == TokenParen {
			return nil, &BracketError{Col: top.Pos, Left: top.Paren.String()}
		}
		out = append(out, top)
	}
	return out, nil
}

// closeGroup pops operators to the output through the open parenthesis that
// matches the close parenthesis tok.
func closeGroup(tok Token, out []Token, ops []stackEntry) ([]Token, []stackEntry, error) {
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.tok.Kind == TokenParen {
			if len(out) == top.mark {
				return nil, nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Paren.String()}
			}
			return out, ops, nil
		}
		out = append(out, top.tok)
	}
	return nil, nil, &BracketError{Col: tok.Pos, Right: tok.Paren.String()}
}
