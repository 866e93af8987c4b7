package ratexpr

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Recognized contains the runes the lexer keeps. Every other rune in the
// input is discarded.
const Recognized = "0123456789.+-*/()"

type lexer struct {
	src io.RuneScanner
	p   *parsectx
	buf strings.Builder
	// col is the number of runes read so far, which is the column of the
	// most recently read rune.
	col int
	// start is the column of the first rune in buf.
	start int
	toks  []Token
	// seen is whether any rune other than whitespace has been read.
	seen bool
	// eof and stop record how the expression ended, either at the end of the
	// input or on a stop rune.
	eof, stop bool
}

func lex(src io.RuneScanner, p *parsectx) *lexer {
	return &lexer{
		src: src,
		p:   p,
	}
}

// Tokenize splits an expression into tokens. Unrecognized runes are dropped.
// A '-' is unary minus when it begins the expression or follows an operator or
// open parenthesis.
func Tokenize(src string, opts ...ParseOption) ([]Token, error) {
	p := newParsectx(opts)
	return lex(strings.NewReader(src), &p).run()
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// run scans the entire expression.
func (l *lexer) run() ([]Token, error) {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				break
			}
			return nil, err
		}
		if strings.ContainsRune(l.p.wseof, r) && l.canStop() {
			l.stop = true
			break
		}
		if !unicode.IsSpace(r) {
			l.seen = true
		}
		if err := l.scan(r); err != nil {
			return nil, l.fail(err)
		}
	}
	if err := l.flush(); err != nil {
		return nil, l.fail(err)
	}
	if len(l.toks) == 0 {
		return nil, &LexError{Col: l.col}
	}
	return l.toks, nil
}

// scan handles one rune of input.
func (l *lexer) scan(r rune) error {
	switch {
	case '0' <= r && r <= '9', r == '.':
		if l.buf.Len() == 0 {
			l.start = l.col
		}
		l.buf.WriteRune(r)
		return nil
	case r == '-' && l.buf.Len() == 0 && l.termExpected():
		return l.emit(Token{Kind: TokenOperator, Op: OpNeg, Pos: l.col})
	}
	tok := Token{Kind: TokenOperator, Pos: l.col}
	switch r {
	case '+':
		tok.Op = OpAdd
	case '-':
		tok.Op = OpSub
	case '*':
		tok.Op = OpMul
	case '/':
		tok.Op = OpDiv
	case '(':
		tok.Kind, tok.Paren = TokenParen, ParenLeft
	case ')':
		tok.Kind, tok.Paren = TokenParen, ParenRight
	default:
		return nil
	}
	if err := l.flush(); err != nil {
		return err
	}
	return l.emit(tok)
}

// flush emits the buffered number, if any.
func (l *lexer) flush() error {
	if l.buf.Len() == 0 {
		return nil
	}
	text := l.buf.String()
	l.buf.Reset()
	v, err := ParseDecimal(text)
	if err != nil {
		return &LexError{Text: text, Kind: "number", Col: l.start, Err: err}
	}
	return l.emit(Token{Kind: TokenValue, Value: v, Pos: l.start})
}

func (l *lexer) emit(tok Token) error {
	if l.p.maxtokens > 0 && len(l.toks) >= l.p.maxtokens {
		return &LimitError{Col: tok.Pos, Limit: "tokens", Max: l.p.maxtokens}
	}
	l.toks = append(l.toks, tok)
	return nil
}

// termExpected returns whether the next token must begin a term, i.e. there
// are no tokens yet or the last is an operator or open parenthesis.
func (l *lexer) termExpected() bool {
	if len(l.toks) == 0 {
		return true
	}
	last := l.toks[len(l.toks)-1]
	return last.Kind == TokenOperator || last.Kind == TokenParen && last.Paren == ParenLeft
}

// canStop returns whether a stop rune ends the expression here. A line of
// only ignored runes still ends, so that it is reported as empty.
func (l *lexer) canStop() bool {
	if len(l.toks) == 0 && l.buf.Len() == 0 {
		return l.seen
	}
	return l.buf.Len() > 0 || !l.termExpected()
}

// fail discards the rest of the current expression when parsing a stream,
// then returns err.
func (l *lexer) fail(err error) error {
	if l.p.wseof == "" || l.eof || l.stop {
		return err
	}
	for {
		r, rerr := l.readRune()
		if rerr != nil {
			l.eof = true
			return err
		}
		if strings.ContainsRune(l.p.wseof, r) {
			l.stop = true
			return err
		}
	}
}

// LexError indicates an invalid token or an input with no tokens. It
// implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the error occurred.
	Text string
	// Kind is the type of token the lexer was scanning. It is "number" for
	// malformed literals and the empty string if the input had no tokens.
	Kind string
	// Col is the column where the token starts, or the number of runes read
	// if the input had no tokens.
	Col int
	// Err is the underlying cause, if any: strconv.ErrSyntax for malformed
	// literals or ErrOverflow for literals too large to represent.
	Err error
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	switch {
	case err.Kind == "":
		return "no expression in input ending at " + pos
	case errors.Is(err.Err, ErrOverflow):
		return err.Kind + " token out of range at " + pos + ": " + err.Text
	default:
		return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
	}
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return err.Err
}
