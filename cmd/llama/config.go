/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/vm"
)

// configFileName is the project configuration file name, looked up in the
// current directory by run and build.
const configFileName = ".llama.toml"

// projectConfig is the contents of a .llama.toml project file: the
// VM-equivalent settings a host can override per spec's resource model.
type projectConfig struct {
	// MemoryLimit is the cap, in bytes, on the combined payload size of
	// every reference-kinded value the VM is holding. Zero means "use
	// vm.DefaultMemoryLimit".
	MemoryLimit int `toml:"memory_limit"`

	// Trace turns on execution tracing by default for run, same as the
	// --trace flag.
	Trace bool `toml:"trace"`

	// Recoverable makes diagnostics non-fatal by default, same as the
	// --recoverable flag.
	Recoverable bool `toml:"recoverable"`
}

// loadProjectConfig reads configFileName from the current directory. A
// missing file is not an error: it just means every setting takes its
// zero value (i.e., the built-in defaults apply).
func loadProjectConfig() (*projectConfig, errs.Error) {
	cfg := &projectConfig{}

	data, err := os.ReadFile(configFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errs.NewBadUsage("reading %v: %v", configFileName, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.NewBadUsage("parsing %v: %v", configFileName, err)
	}

	return cfg, nil
}

// applyTo configures a freshly created VM according to cfg and the
// command-line overrides layered on top of it.
func (cfg *projectConfig) applyTo(theVM *vm.VM, traceFlag, recoverableFlag bool) {
	if cfg.MemoryLimit > 0 {
		theVM.SetMemoryLimit(cfg.MemoryLimit)
	}

	trace := cfg.Trace || traceFlag
	theVM.DebugTraceExecution = trace

	if cfg.Recoverable || recoverableFlag {
		theVM.Log.Recoverable = true
	}
}
