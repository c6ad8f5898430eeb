/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package main

import "github.com/spf13/cobra"

var devCmd = &cobra.Command{
	Use:   "dev <subcommand>",
	Short: "Collection of subcommands for developing llama itself",
	Long: `Collection of subcommands useful for developing the llama tool and
the llamaScript language implementation. If you are not working to improve
llama itself, you probably don't need to look here.`,
}
