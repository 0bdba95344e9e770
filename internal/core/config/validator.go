package config

import (
	"fmt"

	"tscheck/internal/core/errors"
	"tscheck/internal/engine/parser"
	"tscheck/internal/engine/rules"

	"github.com/gobwas/glob"
)

var supportedFormats = map[string]bool{
	"text":  true,
	"json":  true,
	"sarif": true,
}

func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateLanguages(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateLint(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	return validateRules(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return configError(fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	return nil
}

func validateLanguages(cfg *Config) error {
	_, unknown := parser.BuildLanguageRegistry(cfg.Languages)
	if len(unknown) > 0 {
		return configError(fmt.Sprintf("unknown languages: %v", unknown))
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, group := range [][]string{cfg.Exclude.Dirs, cfg.Exclude.Files} {
		for _, pattern := range group {
			if _, err := glob.Compile(pattern); err != nil {
				de := &errors.DomainError{Code: errors.CodeConfiguration, Message: "invalid exclude pattern", Err: err}
				return de.WithContext(errors.CtxPattern, pattern)
			}
		}
	}
	return nil
}

func validateLint(cfg *Config) error {
	if cfg.Lint.Jobs < 0 {
		return configError("lint.jobs must be >= 0")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !supportedFormats[cfg.Output.Format] {
		return configError(fmt.Sprintf("unsupported output format %q (want text, json or sarif)", cfg.Output.Format))
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return configError("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond < 0 {
		return configError("watch.max_runs_per_second must not be negative")
	}
	return nil
}

// validateRules is the schema check for rule tables: known rule names,
// known levels and compilable patterns. The number of options objects is
// deliberately left to the rule.
func validateRules(cfg *Config) error {
	for _, name := range sortedRuleNames(cfg.Rules) {
		rc := cfg.Rules[name]
		if _, ok := rules.Lookup(name); !ok {
			return unknownRuleError(name)
		}
		if rc.Level != "" {
			if _, err := rules.ParseSeverity(rc.Level); err != nil {
				return levelError(name, err)
			}
		}
		for _, opts := range rc.Options {
			for _, patterns := range [][]string{opts.Include, opts.Exclude} {
				if err := rules.ValidatePatterns(patterns); err != nil {
					return errors.AddContext(err, errors.CtxRule, name)
				}
			}
		}
	}
	return nil
}

func configError(msg string) error {
	return errors.New(errors.CodeConfiguration, msg)
}

func unknownRuleError(name string) error {
	de := &errors.DomainError{Code: errors.CodeConfiguration, Message: "unknown rule"}
	return de.WithContext(errors.CtxRule, name)
}

func levelError(name string, err error) error {
	de := &errors.DomainError{Code: errors.CodeConfiguration, Message: "invalid rule level", Err: err}
	return de.WithContext(errors.CtxRule, name)
}
