package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tscheck/internal/core/app"
	"tscheck/internal/core/config"
	"tscheck/internal/core/errors"
	"tscheck/internal/shared/observability"
	"tscheck/internal/shared/util"
	"tscheck/internal/shared/version"
	"tscheck/internal/ui/report"
)

type lintOptions struct {
	configPath  string
	format      string
	jobs        int
	watch       bool
	cwd         string
	noColor     bool
	output      string
	metricsAddr string
}

func newLintCommand() *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint files and directories",
		Long:  `Lint the given files and directories, or the configured paths when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (default: "+config.DefaultFileName+" in --cwd)")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format (text|json|sarif)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "max parallel workers (0=auto)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "re-lint files as they change")
	flags.StringVar(&opts.cwd, "cwd", "", "directory rule filenames are relative to (default: working directory)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *lintOptions) error {
	ctx := cmd.Context()

	cfg, cfgPath, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	shutdown, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
		Version:  version.Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	if cfg.Metrics.Address != "" {
		srv := observability.NewServer(cfg.Metrics.Address)
		if err := srv.Start(ctx); err != nil {
			return errors.Wrap(err, errors.CodeConfiguration, "failed to start metrics server")
		}
		defer srv.Stop(context.Background())
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	res, err := a.Lint(ctx, args)
	if err != nil {
		return err
	}
	if err := emit(cmd, a, res); err != nil {
		return err
	}

	if opts.watch {
		return runWatch(ctx, cmd, opts, args, a, cfgPath)
	}
	if code := res.ExitCode(); code != ExitOK {
		return exitCodeError{code: code}
	}
	return nil
}

// loadConfig reads the config file, then applies environment and flag
// overrides in that order.
func loadConfig(cmd *cobra.Command, opts *lintOptions) (*config.Config, string, error) {
	path := opts.configPath
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		path = filepath.Join(opts.cwd, config.DefaultFileName)
	}

	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		if !errors.IsCode(err, errors.CodeConfiguration) {
			err = errors.Wrap(err, errors.CodeConfiguration, "failed to load config")
		}
		return nil, path, err
	}
	slog.Debug("configuration loaded", "path", path, "explicit", explicit)

	config.ApplyEnvOverrides(cfg)
	applyFlagOverrides(cmd, opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func applyFlagOverrides(cmd *cobra.Command, opts *lintOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("cwd") {
		cfg.Cwd = opts.cwd
	}
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if flags.Changed("jobs") {
		cfg.Lint.Jobs = opts.jobs
	}
	if flags.Changed("output") {
		cfg.Output.File = opts.output
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Address = opts.metricsAddr
	}
	if opts.noColor {
		off := false
		cfg.Output.Color = &off
	}
}

func emit(cmd *cobra.Command, a *app.App, res *app.Result) error {
	format, err := report.ParseFormat(a.Config.Output.Format)
	if err != nil {
		return err
	}
	opts := report.Options{Format: format, Root: a.Cwd()}

	if file := a.Config.Output.File; file != "" {
		data, err := report.Render(res, opts)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(a.Cwd(), file)
		}
		slog.Debug("writing report", "path", file, "format", format)
		return util.WriteFileWithDirs(file, data, 0o644)
	}

	out := cmd.OutOrStdout()
	opts.Color = a.Config.Output.ColorEnabled() && isTerminal(out)
	return report.Write(out, res, opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.ColorSupported(f)
}
