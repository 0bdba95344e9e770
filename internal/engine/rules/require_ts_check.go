package rules

import (
	"math"
	"strings"
	"unicode"

	"tscheck/internal/engine/parser"
)

const (
	RequireTSCheckName = "require-ts-check"

	MsgTSCheckMissing = "Type checking should be enabled by adding @ts-check to the top of the file"

	tsCheckDirective = "@ts-check"
)

// RequireTSCheck reports files that lack a `// @ts-check` line comment above
// their first statement.
var RequireTSCheck = Rule{
	Name:            RequireTSCheckName,
	Description:     "Require @ts-check to be added to your files",
	DefaultSeverity: SeverityError,
	Evaluate:        evaluateRequireTSCheck,
	AppliesTo: func(filename, cwd string, options []Options) (bool, error) {
		return filterPath(RequireTSCheckName, filename, cwd, options)
	},
}

func evaluateRequireTSCheck(ctx Context) (*Diagnostic, error) {
	applies, err := filterPath(RequireTSCheckName, ctx.Filename, ctx.Cwd, ctx.Options)
	if err != nil {
		return nil, err
	}
	if !applies || ctx.Program == nil {
		return nil, nil
	}

	root := ctx.Program.Root
	candidates := topLineComments(ctx.Program)
	if len(candidates) == 0 {
		return newDiagnostic(RequireTSCheckName, ctx, root, MsgTSCheckMissing), nil
	}

	for _, c := range candidates {
		if IsTSCheckDirective(c.Value) {
			return nil, nil
		}
	}
	return newDiagnostic(RequireTSCheckName, ctx, root, MsgTSCheckMissing), nil
}

// topLineComments returns, in source order, the line comments that end
// before the first top-level statement.
func topLineComments(prog *parser.Program) []parser.Comment {
	declarationStart := math.MaxInt
	if len(prog.Body) > 0 {
		declarationStart = prog.Body[0].Range.Start
	}

	var out []parser.Comment
	for _, c := range prog.Comments {
		if c.Kind == parser.CommentLine && c.Range.End < declarationStart {
			out = append(out, c)
		}
	}
	return out
}

// IsTSCheckDirective reports whether a comment value starts with @ts-check,
// ignoring case and leading whitespace.
func IsTSCheckDirective(value string) bool {
	rest := strings.TrimLeftFunc(value, unicode.IsSpace)
	if len(rest) < len(tsCheckDirective) {
		return false
	}
	return strings.EqualFold(rest[:len(tsCheckDirective)], tsCheckDirective)
}
