/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/romutil"
	"github.com/llamascript/llama/pkg/scanner"
)

var devHashCmd = &cobra.Command{
	Use:   "hash <source-file>",
	Short: "Prints a content hash per function declared in a source file",
	Long: `Prints a content hash for every function declared in a source
file, plus one for the top-level script. Used to detect whether a
function's meaningful content changed between two versions of a file.`,
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

		hasher := romutil.NewCodeHasher()
		hasher.HashTokens(toks)

		for name, h := range hasher.Hashes {
			label := name
			if label == "" {
				label = "<top-level>"
			}
			fmt.Printf("%-24s %x\n", label, h)
		}
	},
}
