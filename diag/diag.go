// Package diag defines the diagnostic values produced by the AetherraCode
// pipeline. Lexer warnings, syntax errors, validation findings and compile
// markers share one shape so callers can collect, sort and print them
// together.
package diag

import (
	"fmt"
	"sort"
)

// Kind classifies a diagnostic.
type Kind int

const (
	LexWarning Kind = iota
	ParseWarning
	SyntaxError
	ValidationWarning
	ValidationError
	CompileError
)

// String returns the printable name of the kind.
func (k Kind) String() string {
	switch k {
	case LexWarning:
		return "lex warning"
	case ParseWarning:
		return "warning"
	case SyntaxError:
		return "syntax error"
	case ValidationWarning:
		return "validation warning"
	case ValidationError:
		return "validation error"
	case CompileError:
		return "compile error"
	default:
		return "diagnostic"
	}
}

// IsError reports whether the kind is fatal to the construct it describes.
// Warnings never are.
func (k Kind) IsError() bool {
	return k == SyntaxError || k == ValidationError || k == CompileError
}

// Diagnostic is one finding with its source position. Line and Column are
// 1-based; a zero Line means the position is unknown.
type Diagnostic struct {
	Kind   Kind
	Msg    string
	Line   int
	Column int
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Msg)
	}
	return fmt.Sprintf("line %d:%d: %s: %s", d.Line, d.Column, d.Kind, d.Msg)
}

// Errorf builds a diagnostic at a source position.
func Errorf(k Kind, line, column int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:   k,
		Msg:    fmt.Sprintf(format, args...),
		Line:   line,
		Column: column,
	}
}

// Sort orders diagnostics by line, then column, then kind. The sort is
// stable so diagnostics on the same position keep insertion order.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Line != ds[j].Line {
			return ds[i].Line < ds[j].Line
		}
		if ds[i].Column != ds[j].Column {
			return ds[i].Column < ds[j].Column
		}
		return ds[i].Kind < ds[j].Kind
	})
}

// HasErrors reports whether any diagnostic in ds is error-severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Kind.IsError() {
			return true
		}
	}
	return false
}

// First returns the first diagnostic of the given kind.
func First(ds []Diagnostic, k Kind) (Diagnostic, bool) {
	for _, d := range ds {
		if d.Kind == k {
			return d, true
		}
	}
	return Diagnostic{}, false
}
