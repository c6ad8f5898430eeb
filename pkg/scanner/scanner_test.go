/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
	"github.com/llamascript/llama/pkg/token"
)

func scanOK(t *testing.T, source string) []token.Token {
	t.Helper()
	log := errs.NewLogger()
	log.Recoverable = true
	toks, err := scanner.New(source, "test", log).Scan()
	require.Nil(t, err, "%v", err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanLiterals(t *testing.T) {
	toks := scanOK(t, `42 3.14 "hi" true false null`)
	assert.Equal(t, []token.Kind{
		token.Integer, token.Decimal, token.String,
		token.True, token.False, token.Null, token.End,
	}, kinds(toks))
}

func TestScanOperators(t *testing.T) {
	// Operators are interleaved with a label operand so the unary-vs-binary
	// refactor pass leaves `+`/`-` typed as binary.
	toks := scanOK(t, `a + a - a * a / a % a ** a == a != a < a <= a > a >= a`)
	assert.Equal(t, []token.Kind{
		token.Label, token.Plus, token.Label, token.Minus, token.Label, token.Multiply,
		token.Label, token.Divide, token.Label, token.Modulo, token.Label, token.Power,
		token.Label, token.Equals, token.Label, token.NotEquals, token.Label, token.Lesser,
		token.Label, token.LeEquals, token.Label, token.Greater, token.Label, token.GrEquals,
		token.Label, token.End,
	}, kinds(toks))
}

func TestScanLeadingUnaryOperators(t *testing.T) {
	toks := scanOK(t, `+a; -a`)
	assert.Equal(t, []token.Kind{
		token.UnaryPlus, token.Label, token.Semicolon,
		token.UnaryMinus, token.Label, token.End,
	}, kinds(toks))
}

func TestScanKeywordsOverrideLabels(t *testing.T) {
	toks := scanOK(t, `var x`)
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, token.Label, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Lexeme)
}

func TestScanTracksLineAndColumn(t *testing.T) {
	toks := scanOK(t, "var\nx")
	assert.Equal(t, 1, toks[0].Position.Line)
	assert.Equal(t, 2, toks[1].Position.Line)
}

func TestScanRejectsUnterminatedString(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true
	_, err := scanner.New(`"unterminated`, "test", log).Scan()
	require.NotNil(t, err)
}

func TestScanStringEscapesArePreservedLiterally(t *testing.T) {
	toks := scanOK(t, `"a\nb"`)
	assert.Equal(t, `a\nb`, toks[0].Lexeme)
}

func TestScanEndsWithEndToken(t *testing.T) {
	toks := scanOK(t, ``)
	require.Len(t, toks, 1)
	assert.Equal(t, token.End, toks[0].Kind)
}
