package config

import (
	"time"

	"tscheck/internal/engine/rules"
)

const DefaultFileName = "tscheck.toml"

type Config struct {
	Version   int                   `toml:"version"`
	Cwd       string                `toml:"cwd"`
	Paths     []string              `toml:"paths"`
	Languages map[string]bool       `toml:"languages"`
	Exclude   Exclude               `toml:"exclude"`
	Lint      Lint                  `toml:"lint"`
	Output    Output                `toml:"output"`
	Watch     Watch                 `toml:"watch"`
	Metrics   Metrics               `toml:"metrics"`
	Tracing   Tracing               `toml:"tracing"`
	Rules     map[string]RuleConfig `toml:"rules"`
}

// Exclude lists basename globs the file walker never descends into or reads.
// Rule-level include/exclude filtering is separate and lives in rule options.
type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Lint struct {
	Jobs int `toml:"jobs"`
}

type Output struct {
	Format string `toml:"format"`
	Color  *bool  `toml:"color"`
	File   string `toml:"file"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerSecond caps re-lint runs; 0 means unlimited.
	MaxRunsPerSecond float64 `toml:"max_runs_per_second"`
}

type Metrics struct {
	Address string `toml:"address"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
	Insecure bool   `toml:"insecure"`
}

// RuleConfig is one [rules.<name>] table. Options mirrors the rule's options
// array; more than one entry is accepted here and rejected by the rule.
type RuleConfig struct {
	Level   string        `toml:"level"`
	Options []RuleOptions `toml:"options"`
}

type RuleOptions struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// ConfiguredRule is a registered rule resolved against its config table.
type ConfiguredRule struct {
	Rule     rules.Rule
	Severity rules.Severity
	Options  []rules.Options
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// EnabledRules resolves every configured rule that is not switched off, in
// name order.
func (c *Config) EnabledRules() ([]ConfiguredRule, error) {
	out := make([]ConfiguredRule, 0, len(c.Rules))
	for _, name := range sortedRuleNames(c.Rules) {
		rc := c.Rules[name]
		rule, ok := rules.Lookup(name)
		if !ok {
			return nil, unknownRuleError(name)
		}
		severity := rule.DefaultSeverity
		if rc.Level != "" {
			s, err := rules.ParseSeverity(rc.Level)
			if err != nil {
				return nil, levelError(name, err)
			}
			severity = s
		}
		if severity == rules.SeverityOff {
			continue
		}
		out = append(out, ConfiguredRule{
			Rule:     rule,
			Severity: severity,
			Options:  rc.ruleOptions(),
		})
	}
	return out, nil
}

func (rc RuleConfig) ruleOptions() []rules.Options {
	if rc.Options == nil {
		return nil
	}
	out := make([]rules.Options, 0, len(rc.Options))
	for _, o := range rc.Options {
		out = append(out, rules.Options{Include: o.Include, Exclude: o.Exclude})
	}
	return out
}

// ColorEnabled reports the configured color preference, defaulting to on.
func (o Output) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}
