/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
	"github.com/llamascript/llama/pkg/token"
)

var devScanCmd = &cobra.Command{
	Use:   "scan <source-file>",
	Short: "Scans the source code and prints the tokens",
	Long:  `Scans the source code and prints the tokens. Useful only for developing llama itself.`,
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

		for _, tok := range toks {
			fmt.Printf("%4d:%-3d %-14v %q\n", tok.Position.Line, tok.Position.Column, tok.Kind, tok.Lexeme)
			if tok.Kind == token.End {
				break
			}
		}
	},
}
