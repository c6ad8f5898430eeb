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

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/stdlib"
	"github.com/llamascript/llama/pkg/vm"
)

var runCmd = &cobra.Command{
	Use:   "run <source-file>",
	Short: "Runs a llamaScript source file",
	Long:  `Runs a llamaScript source file from start to finish.`,
	Args:  cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		sourcePath := args[0]

		source, plainErr := os.ReadFile(sourcePath)
		if plainErr != nil {
			reportAndExit(errs.NewBadUsage("reading %v: %v", sourcePath, plainErr))
		}

		cfg, err := loadProjectConfig()
		reportAndExitOnError(err)

		log := errs.NewLogger()
		theVM := vm.New(bytecode.NewModule(), log)
		cfg.applyTo(theVM, flagTrace, flagRecoverable)
		stdlib.Register(theVM, os.Stdout)

		runErr := theVM.DoString(string(source), sourcePath)
		reportAndExit(runErr)
	},
}
