package interpreter

import (
	"bufio"
	"io"
	"os"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/diag"
	"github.com/Nirlep5252/fun/pkg/runtime"
)

const maxCallDepth = 4096

// Options wires the interpreter to its streams. Nil fields fall back to the
// process streams.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Interpreter executes statements against a global environment that lives as
// long as the interpreter, so successive Interpret calls share globals.
type Interpreter struct {
	global *runtime.Environment
	env    *runtime.Environment

	stdout io.Writer
	stderr io.Writer
	input  *bufio.Scanner

	source   string
	depth    int
	hadError bool
}

// New returns an interpreter with an empty global environment.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	input := bufio.NewScanner(opts.Stdin)
	input.Split(bufio.ScanWords)
	global := runtime.NewEnvironment(nil)
	return &Interpreter{
		global: global,
		env:    global,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		input:  input,
	}
}

// GlobalEnvironment returns the interpreter’s global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret executes statements in order and stops at the first runtime
// error, which is written to the error stream and returned.
func (i *Interpreter) Interpret(statements []ast.Statement) error {
	for _, stmt := range statements {
		result, err := i.execute(stmt)
		if err == nil && result.returning {
			err = runtimeError(returnLine(stmt), ErrTopLevelReturn)
		}
		if err != nil {
			i.hadError = true
			d := diag.FromError(err)
			d.File = i.source
			diag.Write(i.stderr, d)
			return err
		}
	}
	return nil
}

// Evaluate computes a single expression in the global scope.
func (i *Interpreter) Evaluate(expr ast.Expression) (runtime.Value, error) {
	return i.evaluate(expr)
}

// HadError reports whether any Interpret call has failed.
func (i *Interpreter) HadError() bool {
	return i.hadError
}

// SetSource names the script the next Interpret calls run. A non-empty name
// prefixes runtime diagnostics the same way the loader prefixes syntax errors.
func (i *Interpreter) SetSource(name string) {
	i.source = name
}

// ResetError clears the failure flag so a session can continue after an error.
func (i *Interpreter) ResetError() {
	i.hadError = false
}

// callParent is the scope every function call is chained to. Functions never
// see the scope they were declared in or the scope of their caller.
func (i *Interpreter) callParent() *runtime.Environment {
	return i.global
}

func returnLine(stmt ast.Statement) int {
	if ret, ok := stmt.(*ast.ReturnStatement); ok {
		return ret.Line
	}
	return 0
}
