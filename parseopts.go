package ratexpr

import (
	"strconv"
	"unicode"
)

// Default limits applied by Parse and friends unless overridden.
const (
	DefaultMaxDepth  = 512
	DefaultMaxTokens = 8192
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	depthopt  int
	tokensopt int
	eofopt    struct {
		ws string
	}
	presetopt []ParseOption
)

// parsectx holds the settings for one parse.
type parsectx struct {
	// wseof is a string containing the whitespace characters that end an
	// expression read from a stream.
	wseof string
	// maxdepth is the maximum tree height, or 0 for no limit.
	maxdepth int
	// maxtokens is the maximum number of tokens, or 0 for no limit.
	maxtokens int
}

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{
		maxdepth:  DefaultMaxDepth,
		maxtokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// MaxDepth limits the height of parsed trees, which also bounds the recursion
// depth of evaluation. A single number has height 1. Zero or a negative value
// removes the limit.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = max(int(o), 0)
	return p
}

// MaxTokens limits the number of tokens in an expression. Zero or a negative
// value removes the limit.
func MaxTokens(n int) ParseOption {
	return tokensopt(n)
}

func (o tokensopt) parseOption(p parsectx) parsectx {
	p.maxtokens = max(int(o), 0)
	return p
}

// StopOn tells the lexer to treat a list of whitespace characters as ending
// the expression, so that a single stream can hold many expressions.
// Whitespace does not end an expression where a term is expected, e.g. at the
// beginning of an expression or following an operator or open parenthesis,
// unless everything before it was ignored. When the lexer fails, it discards input through the next stop character so
// that parsing can resume with the following expression.
//
// StopOn overrides the effect of any previous StopOn in the parsing options.
// With no arguments, StopOn produces the default termination behavior, which
// is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		if !unicode.IsSpace(r) {
			panic("ratexpr: cannot stop on " + strconv.QuoteRune(r))
		}
		if have(r) {
			continue
		}
		v = append(v, r)
	}
	return &eofopt{ws: string(v)}
}

func (o *eofopt) parseOption(p parsectx) parsectx {
	p.wseof = o.ws
	return p
}

// ParsingPreset bundles options so they can be stored and passed as one.
// Options given after a preset override it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	return presetopt(append([]ParseOption(nil), opts...))
}

func (o presetopt) parseOption(p parsectx) parsectx {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}
