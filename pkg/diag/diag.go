// Package diag formats interpreter diagnostics for the error stream.
package diag

import (
	"errors"
	"fmt"
	"io"
)

// Diagnostic is a single user-facing error report. Line is zero when no
// source position applies.
type Diagnostic struct {
	Line    int
	Message string
	File    string
}

// Positioned is implemented by errors that know the source line they refer to.
type Positioned interface {
	error
	Position() int
}

func (d Diagnostic) String() string {
	prefix := ""
	if d.File != "" {
		prefix = d.File + ": "
	}
	if d.Line > 0 {
		return fmt.Sprintf("%s[line %d] ERROR: %s", prefix, d.Line, d.Message)
	}
	return fmt.Sprintf("%sERROR: %s", prefix, d.Message)
}

// FromError converts an error into a diagnostic, keeping its line when the
// error (or anything it wraps) carries one.
func FromError(err error) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}
	var pos Positioned
	if errors.As(err, &pos) {
		return Diagnostic{Line: pos.Position(), Message: pos.Error()}
	}
	return Diagnostic{Message: err.Error()}
}

// Write prints each diagnostic on its own line.
func Write(w io.Writer, diagnostics ...Diagnostic) {
	if w == nil {
		return
	}
	for _, d := range diagnostics {
		fmt.Fprintln(w, d.String())
	}
}

// Report is shorthand for Write(w, FromError(err)).
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	Write(w, FromError(err))
}
