package app

import (
	"sort"

	"tscheck/internal/engine/rules"
)

// FileResult is the outcome of linting one file. Err is set when the file
// could not be read or parsed; Skipped when no rule applies to it.
type FileResult struct {
	Path        string
	Filename    string
	Diagnostics []rules.Diagnostic
	Err         error
	Skipped     bool
}

// Result holds the linted files sorted by filename. Skipped files are
// counted but not listed.
type Result struct {
	Files   []FileResult
	Checked int
	Skipped int
}

func newResult(files []FileResult) *Result {
	res := &Result{Files: make([]FileResult, 0, len(files))}
	for _, fr := range files {
		if fr.Skipped {
			res.Skipped++
			continue
		}
		if fr.Err == nil {
			res.Checked++
		}
		sort.SliceStable(fr.Diagnostics, func(i, j int) bool {
			return lessLocation(fr.Diagnostics[i].Location, fr.Diagnostics[j].Location)
		})
		res.Files = append(res.Files, fr)
	}
	sort.SliceStable(res.Files, func(i, j int) bool {
		return res.Files[i].Filename < res.Files[j].Filename
	})
	return res
}

// Diagnostics returns every diagnostic sorted by file, then line and column.
func (r *Result) Diagnostics() []rules.Diagnostic {
	var out []rules.Diagnostic
	for _, fr := range r.Files {
		out = append(out, fr.Diagnostics...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessLocation(out[i].Location, out[j].Location)
	})
	return out
}

// Failures returns the files that could not be read or parsed.
func (r *Result) Failures() []FileResult {
	var out []FileResult
	for _, fr := range r.Files {
		if fr.Err != nil {
			out = append(out, fr)
		}
	}
	return out
}

func (r *Result) ErrorCount() int {
	return r.countSeverity(rules.SeverityError)
}

func (r *Result) WarningCount() int {
	return r.countSeverity(rules.SeverityWarning)
}

func (r *Result) countSeverity(s rules.Severity) int {
	n := 0
	for _, fr := range r.Files {
		for _, d := range fr.Diagnostics {
			if d.Severity == s {
				n++
			}
		}
	}
	return n
}

// ExitCode is 1 when any error-severity diagnostic or file failure exists.
func (r *Result) ExitCode() int {
	if r.ErrorCount() > 0 || len(r.Failures()) > 0 {
		return 1
	}
	return 0
}

func lessLocation(a, b rules.Location) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}
