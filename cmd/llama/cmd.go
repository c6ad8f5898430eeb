/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"github.com/spf13/cobra"
)

// flagTrace, flagRecoverable and flagDumpIR are persistent flags, defined
// on the root command so every subcommand accepts them: --trace is read by
// run, --dump-ir by build, and --recoverable by run, build and the dev
// subcommands.
var (
	flagTrace       bool
	flagRecoverable bool
	flagDumpIR      bool
)

var rootCmd = &cobra.Command{
	Use:          "llama",
	SilenceUsage: true,
	Short:        "llama is the command-line tool for the llamaScript language",
	Long: `llama compiles and runs llamaScript programs: a small,
dynamically-typed scripting language with a stack-based bytecode VM.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false,
		"Trace VM execution to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagRecoverable, "recoverable", false,
		"Report diagnostics instead of exiting the process on the first one")
	rootCmd.PersistentFlags().BoolVar(&flagDumpIR, "dump-ir", false,
		"Dump the compiled IR alongside normal output")

	devCmd.AddCommand(devScanCmd, devIRCmd, devDisassembleCmd, devHashCmd)
	rootCmd.AddCommand(buildCmd, runCmd, devCmd)
}
