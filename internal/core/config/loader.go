package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"tscheck/internal/core/errors"
	"tscheck/internal/engine/rules"
	"tscheck/internal/shared/util"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a TOML document. Keys the schema does not know
// are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "invalid TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.New(errors.CodeConfiguration, fmt.Sprintf("unknown configuration keys: %s", strings.Join(keys, ", ")))
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file does
// not exist and was not asked for explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if os.IsNotExist(err) && !explicit {
		return DefaultConfig(), nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cfg.Cwd = strings.TrimSpace(cfg.Cwd)
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git"}
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = make(map[string]RuleConfig)
		for _, r := range rules.All() {
			cfg.Rules[r.Name] = RuleConfig{Level: r.DefaultSeverity.String()}
		}
	}
}

func sortedRuleNames(m map[string]RuleConfig) []string {
	return util.SortedStringKeys(m)
}
