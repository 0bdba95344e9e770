package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tscheck/internal/core/config"
	"tscheck/internal/engine/parser"
)

// App runs the configured rules over a set of source files.
type App struct {
	Config *config.Config
	Parser *parser.Parser

	cwd   string
	rules []config.ConfiguredRule
}

func New(cfg *config.Config) (*App, error) {
	registry, unknown := parser.BuildLanguageRegistry(cfg.Languages)
	if len(unknown) > 0 {
		slog.Warn("ignoring unknown languages", "languages", unknown)
	}
	loader, err := parser.NewGrammarLoaderWithRegistry(registry)
	if err != nil {
		return nil, err
	}
	p := parser.NewParser(loader)
	p.RegisterDefaultExtractors()

	enabled, err := cfg.EnabledRules()
	if err != nil {
		return nil, err
	}

	cwd, err := resolveCwd(cfg.Cwd)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Parser: p,
		cwd:    cwd,
		rules:  enabled,
	}, nil
}

// Cwd is the directory rule filenames are relative to.
func (a *App) Cwd() string {
	return a.cwd
}

func (a *App) Rules() []config.ConfiguredRule {
	return a.rules
}

func resolveCwd(configured string) (string, error) {
	if configured == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(configured)
	if err != nil {
		return "", fmt.Errorf("resolve cwd %q: %w", configured, err)
	}
	return abs, nil
}
