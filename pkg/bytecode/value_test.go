/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
)

func TestModIntRemainder(t *testing.T) {
	v, ok := bytecode.NewInt(7).Mod(bytecode.NewInt(2))
	require.True(t, ok)
	assert.Equal(t, bytecode.NewInt(1), v)
}

func TestModFloatUsesIEEERemainderWithDividendSign(t *testing.T) {
	v, ok := bytecode.NewFloat(-3.5).Mod(bytecode.NewFloat(2))
	require.True(t, ok)
	assert.Equal(t, bytecode.NewFloat(-1.5), v)
}

func TestModMismatchedKindsFails(t *testing.T) {
	_, ok := bytecode.NewInt(7).Mod(bytecode.NewFloat(2))
	assert.False(t, ok)
}

func TestModIntByZeroFails(t *testing.T) {
	_, ok := bytecode.NewInt(7).Mod(bytecode.NewInt(0))
	assert.False(t, ok)
}
