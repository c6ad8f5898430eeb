/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

const (
	// StatusCodeSuccess indicates a successful execution.
	StatusCodeSuccess = 0

	// StatusCodeSyntaxError indicates a scanning or compiling error.
	StatusCodeSyntaxError = 1

	// StatusCodeRuntimeError indicates an error raised while running compiled
	// bytecode.
	StatusCodeRuntimeError = 2

	// StatusCodeBadUsage indicates some user error in the usage of the llama
	// tool (e.g., passing the wrong number of arguments).
	StatusCodeBadUsage = 50

	// StatusCodePanic indicates an unrecoverable runtime condition.
	StatusCodePanic = 70

	// StatusCodeICE indicates an Internal Compiler Error.
	StatusCodeICE = 125
)
