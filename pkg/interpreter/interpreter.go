package interpreter

import (
	"errors"
	"fmt"
	"io"

	"github.com/watzkuh/klox/pkg/ast"
	"github.com/watzkuh/klox/pkg/runtime"
	"github.com/watzkuh/klox/pkg/token"
)

// ErrorReporter receives runtime errors raised by Interpret.
type ErrorReporter interface {
	RuntimeError(line int, message string)
}

// RuntimeError aborts the current Interpret call. Token locates the failure.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func runtimeErrorf(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Interpreter evaluates statement lists against a persistent global environment.
type Interpreter struct {
	global   *runtime.Environment
	stdout   io.Writer
	reporter ErrorReporter
}

// New returns an interpreter with an empty global environment. print output
// goes to stdout and runtime errors to reporter; either may be nil.
func New(stdout io.Writer, reporter ErrorReporter) *Interpreter {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Interpreter{
		global:   runtime.NewEnvironment(nil),
		stdout:   stdout,
		reporter: reporter,
	}
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes statements in order. The first runtime error stops the
// remaining statements, is reported once, and is returned.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		if err := i.executeStatement(stmt, i.global); err != nil {
			rtErr := asRuntimeError(err)
			if i.reporter != nil {
				i.reporter.RuntimeError(rtErr.Token.Line, rtErr.Message)
			}
			return rtErr
		}
	}
	return nil
}

func asRuntimeError(err error) *RuntimeError {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return &RuntimeError{Message: err.Error()}
}
