package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tscheck_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tscheck_files_total",
		Help: "Files seen by the lint runner, by outcome (checked, skipped, failed).",
	}, []string{"outcome"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tscheck_diagnostics_total",
		Help: "Diagnostics reported, by rule.",
	}, []string{"rule"})

	LintDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tscheck_lint_run_seconds",
		Help:    "Wall time of a complete lint run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tscheck_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

const (
	OutcomeChecked = "checked"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)
