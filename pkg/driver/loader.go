package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nirlep5252/fun/pkg/ast"
	"github.com/Nirlep5252/fun/pkg/diag"
	"github.com/Nirlep5252/fun/pkg/lexer"
	"github.com/Nirlep5252/fun/pkg/parser"
)

// Source is one parsed script. Name is the prefix used on its diagnostics and
// is empty when the entry script is loaded on its own.
type Source struct {
	Path       string
	Name       string
	Statements []ast.Statement
}

// Program contains the preludes, in execution order, followed by the entry.
type Program struct {
	Preludes    []*Source
	Entry       *Source
	Diagnostics []diag.Diagnostic
}

// Sources lists every script in the order it must run.
func (p *Program) Sources() []*Source {
	if p == nil {
		return nil
	}
	out := make([]*Source, 0, len(p.Preludes)+1)
	out = append(out, p.Preludes...)
	if p.Entry != nil {
		out = append(out, p.Entry)
	}
	return out
}

// Failed reports whether any source had lexical or syntax errors.
func (p *Program) Failed() bool {
	return p != nil && len(p.Diagnostics) > 0
}

// ReadError reports a script that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("loader: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Loader reads, lexes and parses scripts.
type Loader struct {
	readFile func(string) ([]byte, error)
}

// NewLoader returns a loader reading from the local filesystem.
func NewLoader() *Loader {
	return &Loader{readFile: os.ReadFile}
}

// Load parses the prelude scripts and the entry script. Lexical and syntax
// errors from every file are collected into Diagnostics; the returned error is
// reserved for files that could not be read and is a *ReadError naming the file.
func (l *Loader) Load(entry string, preludes ...string) (*Program, error) {
	if entry == "" {
		return nil, fmt.Errorf("loader: empty entry path")
	}
	tagFiles := len(preludes) > 0
	program := &Program{Preludes: make([]*Source, 0, len(preludes))}
	for _, path := range preludes {
		src, diags, err := l.loadFile(path, tagFiles)
		if err != nil {
			return nil, err
		}
		program.Preludes = append(program.Preludes, src)
		program.Diagnostics = append(program.Diagnostics, diags...)
	}
	src, diags, err := l.loadFile(entry, tagFiles)
	if err != nil {
		return nil, err
	}
	program.Entry = src
	program.Diagnostics = append(program.Diagnostics, diags...)
	return program, nil
}

func (l *Loader) loadFile(path string, tagFile bool) (*Source, []diag.Diagnostic, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := l.readFile(abs)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	file := ""
	if tagFile {
		file = path
	}
	stmts, diags := ParseSource(string(data), file)
	return &Source{Path: abs, Name: file, Statements: stmts}, diags, nil
}

// ParseSource lexes and parses text. Parsing is skipped when lexing fails.
func ParseSource(text, file string) ([]ast.Statement, []diag.Diagnostic) {
	tokens, lexErrs := lexer.Scan(text)
	if len(lexErrs) > 0 {
		diags := make([]diag.Diagnostic, 0, len(lexErrs))
		for _, err := range lexErrs {
			d := diag.FromError(err)
			d.File = file
			diags = append(diags, d)
		}
		return nil, diags
	}
	stmts, parseErrs := parser.Parse(tokens)
	if len(parseErrs) > 0 {
		diags := make([]diag.Diagnostic, 0, len(parseErrs))
		for _, err := range parseErrs {
			d := diag.FromError(err)
			d.File = file
			diags = append(diags, d)
		}
		return nil, diags
	}
	return stmts, nil
}
