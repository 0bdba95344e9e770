package formats

// Severity values follow the ESLint numbering.
const (
	SeverityWarning = 1
	SeverityError   = 2
)

// File is one linted file as the formatters see it.
type File struct {
	// Path is absolute; formatters that need relative paths derive them.
	Path     string
	Messages []Message
}

// Message is a diagnostic or, when Fatal is set, a read/parse failure that
// has no rule.
type Message struct {
	RuleID   string
	Severity int
	Message  string
	Line     int
	Column   int
	Fatal    bool
}

// RuleDescriptor describes a registered rule for formats that list rules.
type RuleDescriptor struct {
	ID           string
	Description  string
	DefaultLevel int
}

func (f File) counts() (errors, warnings int) {
	for _, m := range f.Messages {
		switch m.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
