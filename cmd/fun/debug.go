package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/diag"
	"github.com/Nirlep5252/fun/pkg/driver"
	"github.com/Nirlep5252/fun/pkg/lexer"
	"github.com/Nirlep5252/fun/pkg/token"
)

func runTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	withEOF := fs.Bool("eof", false, "include the trailing EOF token")
	if err := fs.Parse(args); err != nil {
		return exitFlags
	}
	path, ok := singleFileArg(fs, "tokens")
	if !ok {
		return exitUsage
	}
	data, err := os.ReadFile(path)
	if err != nil {
		diag.Write(os.Stderr, diag.Diagnostic{Message: fmt.Sprintf("Could not read file %s.", path)})
		return exitProgram
	}

	tokens, lexErrs := lexer.Scan(string(data))
	for _, tok := range tokens {
		if tok.Kind == token.EOF && !*withEOF {
			continue
		}
		fmt.Fprintln(os.Stdout, tok.String())
	}
	if len(lexErrs) > 0 {
		for _, err := range lexErrs {
			diag.Report(os.Stderr, err)
		}
		return exitProgram
	}
	return exitOK
}

func runAST(args []string) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	postfix := fs.Bool("postfix", false, "print expression statements in postfix notation")
	if err := fs.Parse(args); err != nil {
		return exitFlags
	}
	path, ok := singleFileArg(fs, "ast")
	if !ok {
		return exitUsage
	}

	program, err := driver.NewLoader().Load(path)
	if err != nil {
		reportLoadError(path, err)
		return exitProgram
	}
	if program.Failed() {
		diag.Write(os.Stderr, program.Diagnostics...)
		return exitProgram
	}

	if !*postfix {
		fmt.Fprint(os.Stdout, ast.Sprint(program.Entry.Statements))
		return exitOK
	}
	for _, stmt := range program.Entry.Statements {
		switch s := stmt.(type) {
		case *ast.ExpressionStatement:
			fmt.Fprintln(os.Stdout, ast.Postfix(s.Expression))
		case *ast.PrintStatement:
			fmt.Fprintln(os.Stdout, ast.Postfix(s.Expression)+" print")
		}
	}
	return exitOK
}

func singleFileArg(fs *flag.FlagSet, command string) (string, bool) {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "fun %s requires exactly one source file\n", command)
		return "", false
	}
	return fs.Arg(0), true
}
