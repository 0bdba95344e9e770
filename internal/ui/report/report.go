package report

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tscheck/internal/core/app"
	"tscheck/internal/core/errors"
	"tscheck/internal/engine/parser"
	"tscheck/internal/engine/rules"
	"tscheck/internal/shared/version"
	"tscheck/internal/ui/report/formats"

	"golang.org/x/term"
)

type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	default:
		return "", errors.Newf(errors.CodeValidationError, "unsupported format %q (want text, json or sarif)", s)
	}
}

type Options struct {
	Format Format
	Color  bool
	// Root anchors relative paths in text and SARIF output.
	Root string
}

// Render formats a lint result.
func Render(res *app.Result, opts Options) ([]byte, error) {
	files := toFiles(res)
	switch opts.Format {
	case FormatJSON:
		return formats.GenerateJSON(files)
	case FormatSARIF:
		return formats.GenerateSARIF(opts.Root, version.Version, ruleDescriptors(), files)
	case FormatText, "":
		return formats.GenerateText(opts.Root, files, opts.Color), nil
	default:
		return nil, errors.Newf(errors.CodeValidationError, "unsupported format %q", opts.Format)
	}
}

func Write(w io.Writer, res *app.Result, opts Options) error {
	data, err := Render(res, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ColorSupported reports whether f is a terminal.
func ColorSupported(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func toFiles(res *app.Result) []formats.File {
	out := make([]formats.File, 0, len(res.Files))
	for _, fr := range res.Files {
		f := formats.File{Path: fr.Path, Messages: make([]formats.Message, 0, len(fr.Diagnostics)+1)}
		if fr.Err != nil {
			f.Messages = append(f.Messages, failureMessage(fr.Err))
		}
		for _, d := range fr.Diagnostics {
			f.Messages = append(f.Messages, formats.Message{
				RuleID:   d.Rule,
				Severity: severity(d.Severity),
				Message:  d.Message,
				Line:     d.Location.Line,
				Column:   d.Location.Column,
			})
		}
		out = append(out, f)
	}
	return out
}

func failureMessage(err error) formats.Message {
	m := formats.Message{
		Severity: formats.SeverityError,
		Fatal:    true,
		Message:  err.Error(),
	}
	if line, col, ok := parser.ErrorPosition(err); ok {
		m.Line, m.Column = line, col
	}
	if errors.IsCode(err, errors.CodeParse) {
		m.Message = fmt.Sprintf("Parsing error: %s", failureText(err))
	}
	return m
}

func failureText(err error) string {
	var de *errors.DomainError
	if stderrors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

func severity(s rules.Severity) int {
	if s == rules.SeverityWarning {
		return formats.SeverityWarning
	}
	return formats.SeverityError
}

func ruleDescriptors() []formats.RuleDescriptor {
	all := rules.All()
	out := make([]formats.RuleDescriptor, 0, len(all))
	for _, r := range all {
		out = append(out, formats.RuleDescriptor{
			ID:           r.Name,
			Description:  r.Description,
			DefaultLevel: severity(r.DefaultSeverity),
		})
	}
	return out
}
