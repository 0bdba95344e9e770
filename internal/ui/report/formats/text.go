package formats

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
)

type textPalette struct {
	path    *color.Color
	err     *color.Color
	warn    *color.Color
	dim     *color.Color
	summary *color.Color
}

func newTextPalette(enabled bool) textPalette {
	p := textPalette{
		path:    color.New(color.Underline),
		err:     color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		dim:     color.New(color.Faint),
		summary: color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.err, p.warn, p.dim, p.summary} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// GenerateText renders files grouped by path, one line per message as
// path:line:col, severity, message and rule, followed by a problem summary.
// Files without messages are left out.
func GenerateText(projectRoot string, files []File, useColor bool) []byte {
	p := newTextPalette(useColor)
	var buf bytes.Buffer

	var errors, warnings int
	for _, f := range files {
		if len(f.Messages) == 0 {
			continue
		}
		e, w := f.counts()
		errors += e
		warnings += w

		rel := filepath.ToSlash(relativeURI(projectRoot, f.Path))
		fmt.Fprintln(&buf, p.path.Sprint(rel))

		tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, m := range f.Messages {
			sev := p.warn.Sprint("warning")
			if m.Severity == SeverityError {
				sev = p.err.Sprint("error")
			}
			fmt.Fprintf(tw, "  %s:%d:%d\t%s\t%s", rel, m.Line, m.Column, sev, m.Message)
			if m.RuleID != "" {
				fmt.Fprintf(tw, "\t%s", p.dim.Sprint(m.RuleID))
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()
		buf.WriteByte('\n')
	}

	total := errors + warnings
	if total == 0 {
		return buf.Bytes()
	}
	line := fmt.Sprintf("✖ %d %s (%d %s, %d %s)",
		total, plural(total, "problem"),
		errors, plural(errors, "error"),
		warnings, plural(warnings, "warning"))
	if errors == 0 {
		fmt.Fprintln(&buf, p.warn.Sprint(line))
	} else {
		fmt.Fprintln(&buf, p.summary.Sprint(line))
	}
	return buf.Bytes()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
