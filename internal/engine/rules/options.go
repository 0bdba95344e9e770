package rules

import (
	"path/filepath"

	"tscheck/internal/core/errors"
	"tscheck/internal/shared/util"
)

// Options is the single options object a rule accepts. A nil slice means
// "use the default"; an empty non-nil slice is kept as empty.
type Options struct {
	Include []string
	Exclude []string
}

var (
	DefaultInclude = []string{"**/*.js"}
	DefaultExclude = []string{"node_modules"}
)

// resolveOptions picks the single options object or the defaults.
func resolveOptions(rule string, options []Options) (include, exclude []string, err error) {
	if len(options) > 1 {
		de := &errors.DomainError{
			Code:    errors.CodeConfiguration,
			Message: "rule options must be defined in a single object",
		}
		return nil, nil, de.WithContext(errors.CtxRule, rule)
	}

	include, exclude = DefaultInclude, DefaultExclude
	if len(options) == 1 {
		if options[0].Include != nil {
			include = options[0].Include
		}
		if options[0].Exclude != nil {
			exclude = options[0].Exclude
		}
	}
	return include, exclude, nil
}

// filterPath joins cwd and filename and applies exclude, then include.
func filterPath(rule, filename, cwd string, options []Options) (bool, error) {
	include, exclude, err := resolveOptions(rule, options)
	if err != nil {
		return false, err
	}

	fullPath := util.SlashPath(filepath.Join(cwd, filename))

	excluded, err := PathMatchesAnyPattern(fullPath, exclude)
	if err != nil {
		return false, errors.AddContext(err, errors.CtxRule, rule)
	}
	included, err := PathMatchesAnyPattern(fullPath, include)
	if err != nil {
		return false, errors.AddContext(err, errors.CtxRule, rule)
	}
	if excluded {
		return false, nil
	}
	return included, nil
}
