/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2023 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

package errs

import (
	"fmt"
	"io"
	"os"
)

// Level is one of the Logger's log levels.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelSyntaxError
	LevelRuntimeError
	LevelTypeError
	LevelPanic
)

// String returns the level's name, as used in the "file:line:col:" prefixed
// messages.
func (lv Level) String() string {
	switch lv {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelSyntaxError:
		return "syntax error"
	case LevelRuntimeError:
		return "runtime error"
	case LevelTypeError:
		return "type error"
	case LevelPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ExitFunc terminates the host process with the given status code. Overridable
// so embedders can trap process exit (e.g., in tests, or in a long-running
// host that embeds the VM).
type ExitFunc func(status int)

// PanicFunc is called in place of ExitFunc whenever the level is LevelPanic.
type PanicFunc func(message string)

// Logger is llamaScript's single diagnostics sink (spec: a single logger owns
// the current source filename, current snippet, the latest message, and the
// recoverable flag).
type Logger struct {
	// FileName is the name of the source file currently being processed.
	FileName string

	// Line and Column are the current snippet's position. Zero means "no
	// position available"; in that case the "file:line:col:" prefix is
	// omitted entirely.
	Line   int
	Column int

	// Lexeme is the lexeme under the current snippet, if any.
	Lexeme string

	// Recoverable controls what happens on SyntaxError/RuntimeError/TypeError:
	// when true, the error is recorded and Log returns it; when
	// false (the default), Log calls Exit and never returns for those
	// levels, and always for LevelPanic.
	Recoverable bool

	// LastMessage holds the most recently formatted message, regardless of
	// level.
	LastMessage string

	// InfoSink receives LevelInfo messages.
	InfoSink io.Writer

	// ErrorSink receives every other level.
	ErrorSink io.Writer

	// Exit is called to terminate the process on an unrecoverable
	// SyntaxError/RuntimeError/TypeError.
	Exit ExitFunc

	// Panic is called to terminate the process on LevelPanic.
	Panic PanicFunc
}

// NewLogger creates a Logger with the default sinks (stdout for Info,
// stderr for everything else) and the default exit/panic behavior
// (os.Exit with the matching status code).
func NewLogger() *Logger {
	return &Logger{
		InfoSink:  os.Stdout,
		ErrorSink: os.Stderr,
		Exit: func(status int) {
			os.Exit(status)
		},
		Panic: func(message string) {
			os.Exit(StatusCodePanic)
		},
	}
}

// Reset clears the current snippet and last message, preserving the sinks,
// exit/panic hooks and recoverable flag. Called between independent
// compilation or execution units.
func (lg *Logger) Reset() {
	lg.Line = 0
	lg.Column = 0
	lg.Lexeme = ""
	lg.LastMessage = ""
}

// SetSource sets the file name attributed to subsequent log messages.
func (lg *Logger) SetSource(fileName string) {
	lg.FileName = fileName
}

// SetSnippet sets the source position attributed to subsequent log messages.
func (lg *Logger) SetSnippet(line, column int, lexeme string) {
	lg.Line = line
	lg.Column = column
	lg.Lexeme = lexeme
}

// prefix builds the "file:line:col:" prefix, omitting any field that is
// zero/empty, per spec.
func (lg *Logger) prefix() string {
	if lg.FileName == "" && lg.Line == 0 {
		return ""
	}
	s := lg.FileName
	if lg.Line != 0 {
		s = fmt.Sprintf("%v:%v", s, lg.Line)
		if lg.Column != 0 {
			s = fmt.Sprintf("%v:%v", s, lg.Column)
		}
	}
	return s + ": "
}

// Log emits a message at the given level, formatted like fmt.Sprintf.
//
// Info writes to InfoSink and always returns nil. Warning writes to
// ErrorSink and always returns nil. SyntaxError, RuntimeError and TypeError
// write to ErrorSink and, if Recoverable is not set, call Exit and never
// return to the caller; if Recoverable is set, they return the matching
// Error value instead. Panic always writes to ErrorSink and calls Panic,
// never returning normally.
func (lg *Logger) Log(level Level, format string, a ...any) Error {
	msg := fmt.Sprintf(format, a...)
	lg.LastMessage = msg
	full := fmt.Sprintf("%v%v: %v", lg.prefix(), level, msg)

	switch level {
	case LevelInfo:
		fmt.Fprintln(lg.InfoSink, full)
		return nil

	case LevelWarning:
		fmt.Fprintln(lg.ErrorSink, full)
		return nil

	case LevelPanic:
		fmt.Fprintln(lg.ErrorSink, full)
		lg.Panic(msg)
		return NewPanic("%v", msg)

	default:
		fmt.Fprintln(lg.ErrorSink, full)
		err := lg.errorFor(level, msg)
		if !lg.Recoverable {
			lg.Exit(err.ExitCode())
		}
		return err
	}
}

func (lg *Logger) errorFor(level Level, msg string) Error {
	switch level {
	case LevelSyntaxError:
		return NewSyntaxError(lg.FileName, lg.Line, lg.Column, lg.Lexeme, "%v", msg)
	case LevelTypeError:
		return NewTypeError("%v", msg)
	default:
		return NewRuntime("%v", msg)
	}
}

// HasError reports whether the last Log call (since the last Reset) recorded
// anything at SyntaxError level or above.
func (lg *Logger) HasError() bool {
	return lg.LastMessage != ""
}
