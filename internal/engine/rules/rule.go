// Package rules holds the lint rules and the static registry that names them.
package rules

import (
	"fmt"

	"tscheck/internal/engine/parser"
)

// Severity is the level a diagnostic is reported at.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity accepts the ESLint spellings: off/warn/error and 0/1/2.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "off", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarning, nil
	case "error", "2":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity %q (want off, warn or error)", s)
	}
}

// Context is everything a rule sees for one file. It is passed by value and
// rules must not mutate what it points to.
type Context struct {
	Program  *parser.Program
	Filename string
	Cwd      string
	Options  []Options
}

// Location is the 1-based position a diagnostic is attributed to.
type Location struct {
	File   string
	Line   int
	Column int
}

type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	Node     parser.Node
	Location Location
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s", d.Location.File, d.Location.Line, d.Location.Column, d.Rule, d.Message)
}

// Evaluator runs a rule against one file. A nil diagnostic means the file
// passed. Errors are configuration errors and abort the run.
type Evaluator func(ctx Context) (*Diagnostic, error)

// Matcher reports whether a rule applies to filename at all, without needing
// a parsed program.
type Matcher func(filename, cwd string, options []Options) (bool, error)

type Rule struct {
	Name            string
	Description     string
	DefaultSeverity Severity
	Evaluate        Evaluator
	AppliesTo       Matcher
}

func newDiagnostic(rule string, ctx Context, node parser.Node, message string) *Diagnostic {
	return &Diagnostic{
		Rule:     rule,
		Severity: SeverityError,
		Message:  message,
		Node:     node,
		Location: Location{File: ctx.Filename, Line: node.Line, Column: node.Column},
	}
}
