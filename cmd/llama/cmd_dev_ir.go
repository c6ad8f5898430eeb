/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/llamascript/llama/pkg/compiler"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
)

var devIRCmd = &cobra.Command{
	Use:   "ir <source-file>",
	Short: "Compiles the top-level source and prints its pre-bytecode IR",
	Long: `Compiles the top-level source and prints its pre-bytecode IR: one
instruction per line, before structured-block lengths are packed into
byte offsets. Useful only for developing llama itself.`,
	Args: cobra.ExactArgs(1),

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

		ir, err := compiler.DumpIR(toks, log)
		reportAndExitOnError(err)

		os.Stdout.WriteString(ir)
	},
}
