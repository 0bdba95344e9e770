package app

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"tscheck/internal/core/config"
	"tscheck/internal/core/errors"
	"tscheck/internal/engine/rules"
	"tscheck/internal/shared/observability"
	"tscheck/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Lint scans paths (the configured paths when empty) and lints every file
// found. A configuration error aborts the run; per-file read and parse
// failures are collected in the result.
func (a *App) Lint(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "tscheck.lint")
	defer span.End()

	if len(paths) == 0 {
		paths = a.Config.Paths
	}
	files, err := a.ScanPaths(paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}

	res, err := a.LintFiles(ctx, files)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lint failed")
		return nil, err
	}

	elapsed := time.Since(start)
	observability.LintDuration.Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("tscheck.files.checked", res.Checked),
		attribute.Int("tscheck.files.skipped", res.Skipped),
		attribute.Int("tscheck.diagnostics", len(res.Diagnostics())),
	)
	slog.Debug("lint run complete",
		"files", len(files),
		"checked", res.Checked,
		"skipped", res.Skipped,
		"failures", len(res.Failures()),
		"duration", elapsed,
	)
	return res, nil
}

// LintFiles lints an explicit list of files with up to lint.jobs workers.
func (a *App) LintFiles(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		return newResult(nil), nil
	}

	jobs := a.Config.Lint.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each worker writes only its own slot.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr, err := a.lintFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newResult(results), nil
}

func (a *App) lintFile(ctx context.Context, path string) (FileResult, error) {
	filename := util.RelativeTo(a.cwd, path)
	fr := FileResult{Path: path, Filename: filename}

	applicable := make([]config.ConfiguredRule, 0, len(a.rules))
	for _, cr := range a.rules {
		ok, err := cr.Rule.AppliesTo(filename, a.cwd, cr.Options)
		if err != nil {
			return fr, err
		}
		if ok {
			applicable = append(applicable, cr)
		}
	}
	if len(applicable) == 0 {
		fr.Skipped = true
		observability.FilesTotal.WithLabelValues(observability.OutcomeSkipped).Inc()
		return fr, nil
	}

	_, span := observability.Tracer.Start(ctx, "tscheck.lint_file",
		trace.WithAttributes(attribute.String("tscheck.file", filename)))
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		fr.Err = errors.AddContext(errors.Wrap(err, errors.CodeInternal, "failed to read file"), errors.CtxPath, filename)
		a.recordFailure(span, fr)
		return fr, nil
	}

	prog, err := a.Parser.ParseFile(path, content)
	if err != nil {
		fr.Err = err
		a.recordFailure(span, fr)
		return fr, nil
	}

	for _, cr := range applicable {
		diag, err := cr.Rule.Evaluate(rules.Context{
			Program:  prog,
			Filename: filename,
			Cwd:      a.cwd,
			Options:  cr.Options,
		})
		if err != nil {
			return fr, err
		}
		if diag == nil {
			continue
		}
		diag.Severity = cr.Severity
		fr.Diagnostics = append(fr.Diagnostics, *diag)
		observability.DiagnosticsTotal.WithLabelValues(diag.Rule).Inc()
	}

	observability.FilesTotal.WithLabelValues(observability.OutcomeChecked).Inc()
	return fr, nil
}

func (a *App) recordFailure(span trace.Span, fr FileResult) {
	span.RecordError(fr.Err)
	span.SetStatus(codes.Error, "file failed")
	observability.FilesTotal.WithLabelValues(observability.OutcomeFailed).Inc()
	slog.Warn("failed to lint file", "path", fr.Filename, "error", fr.Err)
}
