package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/diag"
	"github.com/Nirlep5252/fun/pkg/interpreter"
	"github.com/Nirlep5252/fun/pkg/lexer"
	"github.com/Nirlep5252/fun/pkg/parser"
	"github.com/Nirlep5252/fun/pkg/runtime"
	"github.com/peterh/liner"
)

const (
	promptMain  = "fun> "
	promptCont  = "...> "
	historyFile = "history"
)

// replSession evaluates entries against one interpreter so globals survive
// from one entry to the next.
type replSession struct {
	interp *interpreter.Interpreter
	stdout io.Writer
	stderr io.Writer
}

func newReplSession(stdout, stderr io.Writer) *replSession {
	return &replSession{
		interp: interpreter.New(interpreter.Options{Stdout: stdout, Stderr: stderr}),
		stdout: stdout,
		stderr: stderr,
	}
}

// submit runs src and returns false when src ends in the middle of a
// statement and more lines are needed.
func (s *replSession) submit(src string) bool {
	tokens, lexErrs := lexer.Scan(src)
	if len(lexErrs) > 0 {
		for _, err := range lexErrs {
			diag.Report(s.stderr, err)
		}
		return true
	}
	stmts, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		if parser.IsIncomplete(parseErrs) {
			return false
		}
		for _, err := range parseErrs {
			diag.Report(s.stderr, err)
		}
		return true
	}

	s.interp.ResetError()
	if len(stmts) == 1 {
		if exprStmt, ok := stmts[0].(*ast.ExpressionStatement); ok {
			s.echo(exprStmt.Expression)
			return true
		}
	}
	_ = s.interp.Interpret(stmts)
	return true
}

// echo evaluates a bare expression and shows its value unless it is null.
func (s *replSession) echo(expr ast.Expression) {
	val, err := s.interp.Evaluate(expr)
	if err != nil {
		diag.Report(s.stderr, err)
		return
	}
	if _, isNil := val.(runtime.NilValue); isNil || val == nil {
		return
	}
	fmt.Fprintln(s.stdout, interpreter.Stringify(val))
}

func runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	noHistory := fs.Bool("no-history", false, "do not read or write the history file")
	if err := fs.Parse(args); err != nil {
		return exitFlags
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return exitUsage
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if !*noHistory {
		if home, err := resolveFunHome(); err == nil {
			histPath = filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
		}
	}

	session := newReplSession(os.Stdout, os.Stderr)
	var pending strings.Builder
	for {
		prompt := promptMain
		if pending.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stdout)
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input: %v\n", err)
			break
		}

		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if trimmed == ":quit" || trimmed == ":exit" {
				break
			}
		} else {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)

		src := pending.String()
		if !session.submit(src) {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		pending.Reset()
	}

	if histPath != "" {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err == nil {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}
	}
	return exitOK
}
