/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/vm"
)

func TestLoadProjectConfigMissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	cfg, cerr := loadProjectConfig()
	require.Nil(t, cerr)
	assert.Equal(t, 0, cfg.MemoryLimit)
	assert.False(t, cfg.Trace)
	assert.False(t, cfg.Recoverable)
}

func TestLoadProjectConfigParsesToml(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	contents := "memory_limit = 2048\ntrace = true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(contents), 0o644))

	cfg, cerr := loadProjectConfig()
	require.Nil(t, cerr)
	assert.Equal(t, 2048, cfg.MemoryLimit)
	assert.True(t, cfg.Trace)
	assert.False(t, cfg.Recoverable)
}

func TestProjectConfigApplyTo(t *testing.T) {
	cfg := &projectConfig{MemoryLimit: 4096}
	log := errs.NewLogger()
	theVM := vm.New(bytecode.NewModule(), log)

	cfg.applyTo(theVM, true, false)
	assert.True(t, theVM.DebugTraceExecution)
}
