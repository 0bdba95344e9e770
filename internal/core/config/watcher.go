package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// RuleChange describes how one rule's effective setting moved between two
// configurations.
type RuleChange struct {
	Rule   string
	Change string
}

func (c RuleChange) String() string {
	return c.Rule + ": " + c.Change
}

// RuleChanges compares the enabled rules of prev and next. A nil prev is
// treated as an empty rule set.
func RuleChanges(prev, next *Config) ([]RuleChange, error) {
	before := map[string]ConfiguredRule{}
	if prev != nil {
		enabled, err := prev.EnabledRules()
		if err != nil {
			return nil, err
		}
		for _, r := range enabled {
			before[r.Rule.Name] = r
		}
	}
	after, err := next.EnabledRules()
	if err != nil {
		return nil, err
	}

	var changes []RuleChange
	for _, r := range after {
		old, ok := before[r.Rule.Name]
		delete(before, r.Rule.Name)
		switch {
		case !ok:
			changes = append(changes, RuleChange{r.Rule.Name, "enabled at " + r.Severity.String()})
		case old.Severity != r.Severity:
			changes = append(changes, RuleChange{r.Rule.Name, fmt.Sprintf("severity %s -> %s", old.Severity, r.Severity)})
		case !reflect.DeepEqual(old.Options, r.Options):
			changes = append(changes, RuleChange{r.Rule.Name, "options changed"})
		}
	}
	for _, name := range slices.Sorted(maps.Keys(before)) {
		changes = append(changes, RuleChange{name, "disabled"})
	}
	return changes, nil
}

// Watcher re-reads the lint configuration when its file changes and hands
// every valid revision to the callback. Revisions whose rules fail to resolve
// are logged and dropped, keeping the last good configuration active.
type Watcher struct {
	path     string
	onReload func(*Config)

	mu     sync.Mutex
	active *Config

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewWatcher returns a watcher for path. active is the configuration in use
// now; rule changes are reported relative to it.
func NewWatcher(path string, active *Config, onReload func(*Config)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onReload: onReload,
		active:   active,
		done:     make(chan struct{}),
	}
}

// Start watches the file's directory so atomic saves (rename over the
// original) are seen as well.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	w.wg.Add(1)
	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	slog.Debug("watching configuration", "path", w.path)

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == w.path && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = time.After(reloadDelay)
			}
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("configuration watch error", "path", w.path, "error", err)
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Active returns the configuration last accepted by the watcher.
func (w *Watcher) Active() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.done) })
	w.wg.Wait()
}

func (w *Watcher) reload() {
	next, err := Load(w.path)
	if err != nil {
		slog.Error("configuration rejected, keeping previous rules", "path", w.path, "error", err)
		return
	}
	ApplyEnvOverrides(next)

	w.mu.Lock()
	prev := w.active
	w.mu.Unlock()

	changes, err := RuleChanges(prev, next)
	if err != nil {
		slog.Error("configuration rejected, keeping previous rules", "path", w.path, "error", err)
		return
	}
	if len(changes) == 0 {
		slog.Info("configuration reloaded, rules unchanged", "path", w.path)
	}
	for _, c := range changes {
		slog.Info("rule setting changed", "rule", c.Rule, "change", c.Change)
	}

	w.mu.Lock()
	w.active = next
	w.mu.Unlock()

	if w.onReload != nil {
		w.onReload(next)
	}
}
