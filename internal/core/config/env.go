package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: TSCHECK_[SECTION]_[KEY] (e.g., TSCHECK_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Cwd, "TSCHECK_CWD")
	setEnvInt(&cfg.Lint.Jobs, "TSCHECK_LINT_JOBS")
	setEnvString(&cfg.Output.Format, "TSCHECK_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.File, "TSCHECK_OUTPUT_FILE")
	setEnvDuration(&cfg.Watch.Debounce, "TSCHECK_WATCH_DEBOUNCE")
	setEnvString(&cfg.Metrics.Address, "TSCHECK_METRICS_ADDRESS")
	setEnvString(&cfg.Tracing.Endpoint, "TSCHECK_TRACING_ENDPOINT")
	setEnvBool(&cfg.Tracing.Insecure, "TSCHECK_TRACING_INSECURE")

	if v, ok := os.LookupEnv("NO_COLOR"); ok && v != "" {
		off := false
		cfg.Output.Color = &off
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
