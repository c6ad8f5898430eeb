/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llamascript/llama/pkg/bytecode"
	"github.com/llamascript/llama/pkg/compiler"
	"github.com/llamascript/llama/pkg/errs"
	"github.com/llamascript/llama/pkg/scanner"
)

var buildCmd = &cobra.Command{
	Use:   "build <source-file>",
	Short: "Compiles a llamaScript source file to a bytecode module",
	Long:  `Compiles a llamaScript source file to a bytecode module (<name>.llc).`,
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
		log.Recoverable = flagRecoverable || cfg.Recoverable

		toks, err := scanner.New(string(source), sourcePath, log).Scan()
		reportAndExitOnError(err)

		if flagDumpIR {
			ir, err := compiler.DumpIR(toks, log)
			reportAndExitOnError(err)
			os.Stdout.WriteString(ir)
		}

		mod := bytecode.NewModule()
		_, err = compiler.Compile(toks, mod, log)
		reportAndExitOnError(err)

		outPath := outputPathFor(sourcePath)
		outFile, plainErr := os.Create(outPath)
		if plainErr != nil {
			reportAndExit(errs.NewBadUsage("creating %v: %v", outPath, plainErr))
		}
		defer outFile.Close()

		if plainErr := mod.Serialize(outFile); plainErr != nil {
			reportAndExit(errs.NewBadUsage("writing %v: %v", outPath, plainErr))
		}
	},
}

// outputPathFor derives the compiled module's path from a source path by
// replacing its extension with ".llc".
func outputPathFor(sourcePath string) string {
	ext := path.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + ".llc"
}
