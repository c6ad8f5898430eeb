/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

import (
	"errors"
	"fmt"
	"os"
)

// ReportAndExit reports err to the end user and exits with the matching
// status code. It's fine for err to be nil.
func ReportAndExit(err error) {
	var badUsageErr *BadUsage
	var syntaxErr *SyntaxError
	var syntaxColl *SyntaxErrorCollection
	var typeErr *TypeError
	var runtimeErr *Runtime
	var panicErr *Panic
	var iceErr *ICE

	switch {
	case err == nil:
		os.Exit(StatusCodeSuccess)

	case errors.As(err, &badUsageErr):
		fmt.Printf("Usage: %v\n", badUsageErr)
		os.Exit(StatusCodeBadUsage)

	case errors.As(err, &syntaxColl):
		fmt.Printf("%v", syntaxColl)
		os.Exit(StatusCodeSyntaxError)

	case errors.As(err, &syntaxErr):
		fmt.Printf("%v\n", syntaxErr)
		os.Exit(StatusCodeSyntaxError)

	case errors.As(err, &typeErr):
		fmt.Printf("%v\n", typeErr)
		os.Exit(StatusCodeRuntimeError)

	case errors.As(err, &runtimeErr):
		fmt.Printf("%v\n", runtimeErr)
		os.Exit(StatusCodeRuntimeError)

	case errors.As(err, &panicErr):
		fmt.Printf("%v\n", panicErr)
		os.Exit(StatusCodePanic)

	case errors.As(err, &iceErr):
		fmt.Printf("Internal error: %v\n", iceErr)
		os.Exit(StatusCodeICE)

	default:
		fmt.Printf("Internal error: unexpected error of type %T: %v\n", err, err)
		os.Exit(StatusCodeICE)
	}
}
