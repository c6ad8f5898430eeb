/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/compiler"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
)

var devDisassembleCmd = &cobra.Command{
	Use:   "disassemble <source-file>",
	Short: "Compiles and disassembles a llamaScript source file",
	Long:  `Compiles a llamaScript source file and disassembles the resulting bytecode module.`,
	Args:  cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := args[0]

		source, plainErr := os.ReadFile(sourcePath)
		if plainErr != nil {
			reportAndExit(errs.NewBadUsage("reading %v: %v", sourcePath, plainErr))
		}

		log := errs.NewLogger()
		log.Recoverable = flagRecoverable

		toks, err := scanner.New(string(source), sourcePath, log).Scan()
		reportAndExitOnError(err)

		mod := bytecode.NewModule()
		_, err = compiler.Compile(toks, mod, log)
		reportAndExitOnError(err)

		mod.Disassemble(os.Stdout, nil)
	},
}
