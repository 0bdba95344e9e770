package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/cobra"

	"tscheck/internal/core/app"
	"tscheck/internal/core/config"
	"tscheck/internal/core/watcher"
	"tscheck/internal/shared/util"
)

// watchSession owns the app and file watcher used by watch mode. Config
// reloads swap both under mu; re-lints work on a snapshot.
type watchSession struct {
	ctx   context.Context
	cmd   *cobra.Command
	opts  *lintOptions
	roots []string

	mu      sync.Mutex
	current *app.App
	limiter *util.Limiter
	files   *watcher.Watcher
}

func newWatchSession(ctx context.Context, cmd *cobra.Command, opts *lintOptions, roots []string, a *app.App) *watchSession {
	return &watchSession{
		ctx:     ctx,
		cmd:     cmd,
		opts:    opts,
		roots:   roots,
		current: a,
		limiter: util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, 1),
	}
}

func (s *watchSession) snapshot() (*app.App, *util.Limiter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.limiter
}

// relint lints the changed files that the current config still accepts.
func (s *watchSession) relint(paths []string) {
	a, limiter := s.snapshot()

	files := a.ChangedFiles(paths)
	if len(files) == 0 {
		return
	}
	if err := limiter.Wait(s.ctx); err != nil {
		return
	}
	slog.Debug("re-linting changed files", "count", len(files))
	res, err := a.LintFiles(s.ctx, files)
	if err != nil {
		slog.Error("re-lint failed", "error", err)
		return
	}
	if err := emit(s.cmd, a, res); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

// watchFiles starts a file watcher built from a's exclude lists and
// replaces the previous one.
func (s *watchSession) watchFiles(a *app.App) error {
	fw, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Exclude.Dirs, a.Config.Exclude.Files, s.relint)
	if err != nil {
		return err
	}
	fw.SetExtensions(a.Parser.SupportedExtensions())
	if err := fw.Watch(s.roots); err != nil {
		fw.Close()
		return err
	}

	s.mu.Lock()
	prev := s.files
	s.files = fw
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// reload applies a new configuration. The file watcher is rebuilt when the
// exclude lists or the watched extensions change.
func (s *watchSession) reload(cfg *config.Config) error {
	applyFlagOverrides(s.cmd, s.opts, cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}
	next, err := app.New(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.limiter = util.NewLimiter(cfg.Watch.MaxRunsPerSecond, 1)
	fw := s.files
	s.mu.Unlock()

	if fw == nil {
		return nil
	}
	if !slices.Equal(prev.Config.Exclude.Dirs, cfg.Exclude.Dirs) ||
		!slices.Equal(prev.Config.Exclude.Files, cfg.Exclude.Files) ||
		!slices.Equal(prev.Parser.SupportedExtensions(), next.Parser.SupportedExtensions()) {
		slog.Info("watch set changed, restarting file watcher")
		return s.watchFiles(next)
	}
	fw.SetDebounce(cfg.Watch.Debounce)
	return nil
}

func (s *watchSession) close() {
	s.mu.Lock()
	fw := s.files
	s.files = nil
	s.mu.Unlock()
	if fw != nil {
		fw.Close()
	}
}

// runWatch re-lints changed files until ctx is cancelled. Edits to the
// config file rebuild the app in place.
func runWatch(ctx context.Context, cmd *cobra.Command, opts *lintOptions, args []string, a *app.App, cfgPath string) error {
	roots := args
	if len(roots) == 0 {
		roots = a.Config.Paths
	}
	absRoots := make([]string, 0, len(roots))
	for _, r := range roots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(a.Cwd(), r)
		}
		absRoots = append(absRoots, filepath.Clean(r))
	}

	s := newWatchSession(ctx, cmd, opts, absRoots, a)
	if err := s.watchFiles(a); err != nil {
		return err
	}
	defer s.close()

	if _, err := os.Stat(cfgPath); err == nil {
		cw := config.NewWatcher(cfgPath, a.Config, func(cfg *config.Config) {
			if err := s.reload(cfg); err != nil {
				slog.Error("ignoring invalid configuration", "path", cfgPath, "error", err)
				return
			}
			slog.Info("configuration reloaded", "path", cfgPath)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config watcher unavailable", "path", cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	slog.Info("watching for changes", "roots", absRoots)
	<-ctx.Done()
	return nil
}
