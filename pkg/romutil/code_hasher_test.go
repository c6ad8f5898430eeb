/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package romutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/romutil"
	"github.com/llamascript/llama/pkg/scanner"
)

func TestHashIsStableAcrossRuns(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true
	toks, err := scanner.New(`fn add(a, b) { return a + b; } var x = 1;`, "test", log).Scan()
	require.Nil(t, err, "%v", err)

	h1 := romutil.NewCodeHasher()
	h1.HashTokens(toks)

	h2 := romutil.NewCodeHasher()
	h2.HashTokens(toks)

	assert.Equal(t, h1.Hashes, h2.Hashes)
	assert.Contains(t, h1.Hashes, "add")
	assert.Contains(t, h1.Hashes, "")
}

func TestHashChangesWithBody(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true

	toksA, err := scanner.New(`fn add(a, b) { return a + b; }`, "test", log).Scan()
	require.Nil(t, err, "%v", err)
	toksB, err := scanner.New(`fn add(a, b) { return a - b; }`, "test", log).Scan()
	require.Nil(t, err, "%v", err)

	hA := romutil.NewCodeHasher()
	hA.HashTokens(toksA)
	hB := romutil.NewCodeHasher()
	hB.HashTokens(toksB)

	assert.NotEqual(t, hA.Hashes["add"], hB.Hashes["add"])
}

func TestHashIgnoresNameOfOtherFunctions(t *testing.T) {
	log := errs.NewLogger()
	log.Recoverable = true

	toksA, err := scanner.New(`fn add(a, b) { return a + b; }`, "test", log).Scan()
	require.Nil(t, err, "%v", err)
	toksB, err := scanner.New(`fn add(a, b) { return a + b; } fn sub(a, b) { return a - b; }`, "test", log).Scan()
	require.Nil(t, err, "%v", err)

	hA := romutil.NewCodeHasher()
	hA.HashTokens(toksA)
	hB := romutil.NewCodeHasher()
	hB.HashTokens(toksB)

	assert.Equal(t, hA.Hashes["add"], hB.Hashes["add"])
}
