/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package scanner

import (
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/token"
)

// Refactor runs the second scanning pass: it retypes `+`/`-` into
// UnaryPlus/UnaryMinus where they appear in operand position, and wraps
// every call's argument list in a synthetic CallStart/CallEnd pair so the
// compiler's Shunting-Yard engine can tell a call boundary from a plain
// parenthesized sub-expression.
func Refactor(tokens []token.Token, log *errs.Logger) ([]token.Token, errs.Error) {
	tokens = refactorUnary(tokens)
	return refactorCalls(tokens, log)
}

// refactorUnary retypes a `+`/`-` token into UnaryPlus/UnaryMinus whenever
// it cannot be a binary operator at that position: at the start of the
// stream, or right after another operator, an opening bracket, or a comma.
func refactorUnary(tokens []token.Token) []token.Token {
	for i := range tokens {
		if tokens[i].Kind != token.Plus && tokens[i].Kind != token.Minus {
			continue
		}
		if !precededByOperand(tokens, i) {
			if tokens[i].Kind == token.Plus {
				tokens[i].Kind = token.UnaryPlus
			} else {
				tokens[i].Kind = token.UnaryMinus
			}
		}
	}
	return tokens
}

// precededByOperand reports whether the token right before tokens[i] could
// end an operand (a literal, a label, a closing bracket, or `.name`) --
// i.e. whether a `+`/`-` at i is binary rather than unary.
func precededByOperand(tokens []token.Token, i int) bool {
	if i == 0 {
		return false
	}
	prev := tokens[i-1]
	switch prev.Kind {
	case token.Integer, token.Decimal, token.String, token.RawString,
		token.Character, token.Label, token.Null, token.True, token.False,
		token.RParen, token.RBracket, token.RBrace:
		return true
	default:
		return false
	}
}

// refactorCalls walks the token stream keeping a bracket stack (so nested
// parentheses/brackets/braces match correctly) and, whenever it finds a
// `(` immediately following a callable token (a label, a string, or a
// closing `)`/`]`), inserts a synthetic CallStart before it; a synthetic
// CallEnd is inserted right after the matching `)`. A `(` after `fn name`
// opens a parameter list and is left alone.
func refactorCalls(tokens []token.Token, log *errs.Logger) ([]token.Token, errs.Error) {
	type open struct {
		kind   token.Kind // original opening bracket kind
		isCall bool
	}

	out := make([]token.Token, 0, len(tokens)+8)
	var stack []open

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok.Kind == token.LParen && isCallable(out):
			out = append(out, token.Token{
				Kind:     token.CallStart,
				Lexeme:   "(",
				Position: tok.Position,
			})
			stack = append(stack, open{kind: token.LParen, isCall: true})
			out = append(out, tok)

		case tok.Kind.IsLScope():
			stack = append(stack, open{kind: tok.Kind})
			out = append(out, tok)

		case tok.Kind.IsRScope():
			if len(stack) == 0 || stack[len(stack)-1].kind.Reverse() != tok.Kind {
				log.SetSnippet(tok.Position.Line, tok.Position.Column, tok.Lexeme)
				return nil, log.Log(errs.LevelSyntaxError, "unbalanced `%v`", tok.Lexeme)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, tok)
			if top.isCall {
				out = append(out, token.Token{
					Kind:     token.CallEnd,
					Lexeme:   ")",
					Position: tok.Position,
				})
			}

		default:
			out = append(out, tok)
		}
	}

	if len(stack) > 0 {
		return nil, log.Log(errs.LevelSyntaxError, "unclosed bracket at end of file")
	}

	return out, nil
}

// isCallable reports whether the last emitted token makes a following `(`
// a call's argument list rather than a parenthesized sub-expression or the
// parameter list of a `fn name(...)` declaration.
func isCallable(out []token.Token) bool {
	if len(out) == 0 {
		return false
	}
	if len(out) >= 2 && out[len(out)-2].Kind == token.Fn {
		return false
	}
	return out[len(out)-1].Kind.IsCallable()
}
