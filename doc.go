// Package ratexpr implements an exact calculator for arithmetic expressions.
//
// Expressions use + - * / with the usual precedence, unary minus, and
// parentheses. Numbers are decimal literals like "12" or "0.125". Results are
// exact: "1/3" is the mixed number 0 (1 / 3), never 0.333.... Every rune other
// than digits, '.', operators, and parentheses is ignored, so "1 000 + 2" is
// the same as "1000+2".
//
// Evaluation runs in stages which are also exported: Tokenize lexes text,
// ToPostfix reorders tokens with the shunting-yard algorithm, BuildTree
// assembles a Tree, and Tree.Eval computes the Value. EvalString does all of
// it at once. None of the stages share state, so concurrent use is safe.
package ratexpr
