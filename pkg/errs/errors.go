/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

import (
	"fmt"
	"strings"
)

// Error is a llamaScript error.
type Error interface {
	error
	ExitCode() int
}

//
// SyntaxError
//

// SyntaxError is an error detected while scanning or compiling source code:
// bad tokens, malformed expressions, unexpected keywords and the like.
type SyntaxError struct {
	// Message is a user-friendly error message.
	Message string

	// FileName is the name of the file where the error was detected.
	FileName string

	// Line is the source line where the error was detected.
	Line int

	// Column is the source column where the error was detected.
	Column int

	// Lexeme is the lexeme being scanned or parsed when the error was
	// detected, if any.
	Lexeme string
}

// NewSyntaxError creates a SyntaxError at a given source position.
func NewSyntaxError(fileName string, line, column int, lexeme, format string, a ...any) *SyntaxError {
	return &SyntaxError{
		Message:  fmt.Sprintf(format, a...),
		FileName: fileName,
		Line:     line,
		Column:   column,
		Lexeme:   lexeme,
	}
}

func (e *SyntaxError) Error() string {
	pos := ""
	if e.Line > 0 {
		pos = fmt.Sprintf(":%v:%v", e.Line, e.Column)
	}
	at := ""
	if e.Lexeme != "" {
		at = fmt.Sprintf(" at `%v`", e.Lexeme)
	}
	return fmt.Sprintf("%v%v%v: %v", e.FileName, pos, at, e.Message)
}

// ExitCode fulfills the Error interface.
func (e *SyntaxError) ExitCode() int {
	return StatusCodeSyntaxError
}

//
// SyntaxErrorCollection
//

// SyntaxErrorCollection collects every SyntaxError found while compiling a
// single source, so the caller gets all of them instead of bailing at the
// first one.
type SyntaxErrorCollection struct {
	Errors []*SyntaxError
}

// Add adds err to the collection. A no-op if err is nil.
func (e *SyntaxErrorCollection) Add(err *SyntaxError) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

// IsEmpty checks whether the collection has no errors.
func (e *SyntaxErrorCollection) IsEmpty() bool {
	return len(e.Errors) == 0
}

func (e *SyntaxErrorCollection) Error() string {
	s := strings.Builder{}
	s.WriteString("Syntax errors:\n")
	for _, err := range e.Errors {
		s.WriteString(err.Error())
		s.WriteByte('\n')
	}
	return s.String()
}

// ExitCode fulfills the Error interface.
func (e *SyntaxErrorCollection) ExitCode() int {
	return StatusCodeSyntaxError
}

//
// TypeError
//

// TypeError is raised when an operation is applied to values of
// incompatible kinds that must be rejected rather than quietly degraded
// at runtime.
type TypeError struct {
	Message string
}

// NewTypeError creates a TypeError.
func NewTypeError(format string, a ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, a...)}
}

func (e *TypeError) Error() string {
	return "Type error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *TypeError) ExitCode() int {
	return StatusCodeRuntimeError
}

//
// BadUsage
//

// BadUsage is an error caused by misusing the llama command-line tool.
type BadUsage struct {
	Message string
}

// NewBadUsage creates a BadUsage error.
func NewBadUsage(format string, a ...any) *BadUsage {
	return &BadUsage{Message: fmt.Sprintf(format, a...)}
}

func (e *BadUsage) Error() string {
	return "Usage error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *BadUsage) ExitCode() int {
	return StatusCodeBadUsage
}

//
// Runtime
//

// Runtime is a RuntimeError raised by the virtual machine while executing
// bytecode (spec: "RuntimeError"). Whether it is recoverable is tracked
// separately by the Logger that raised it.
type Runtime struct {
	Message     string
	Recoverable bool
}

// NewRuntime creates a Runtime error.
func NewRuntime(format string, a ...any) *Runtime {
	return &Runtime{Message: fmt.Sprintf(format, a...)}
}

func (e *Runtime) Error() string {
	return "Runtime error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *Runtime) ExitCode() int {
	return StatusCodeRuntimeError
}

//
// Panic
//

// Panic mirrors the original implementation's PANIC log level: an
// unrecoverable condition (stack corruption, memory limit exceeded) that
// always terminates the host process, never just the current call.
type Panic struct {
	Message string
}

// NewPanic creates a Panic error.
func NewPanic(format string, a ...any) *Panic {
	return &Panic{Message: fmt.Sprintf(format, a...)}
}

func (e *Panic) Error() string {
	return "Panic: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *Panic) ExitCode() int {
	return StatusCodePanic
}

//
// ICE
//

// ICE is an Internal Compiler Error: a bug in llama itself, not in the
// program being compiled or run.
type ICE struct {
	Message string
}

// NewICE creates an ICE.
func NewICE(format string, a ...any) *ICE {
	return &ICE{Message: fmt.Sprintf(format, a...)}
}

func (e *ICE) Error() string {
	return "Internal error: " + e.Message
}

// ExitCode fulfills the Error interface.
func (e *ICE) ExitCode() int {
	return StatusCodeICE
}
