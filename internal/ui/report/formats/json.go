package formats

import (
	"encoding/json"
)

type jsonFile struct {
	FilePath        string        `json:"filePath"`
	Messages        []jsonMessage `json:"messages"`
	ErrorCount      int           `json:"errorCount"`
	FatalErrorCount int           `json:"fatalErrorCount"`
	WarningCount    int           `json:"warningCount"`
}

type jsonMessage struct {
	RuleID   *string `json:"ruleId"`
	Severity int     `json:"severity"`
	Message  string  `json:"message"`
	Line     int     `json:"line"`
	Column   int     `json:"column"`
	Fatal    bool    `json:"fatal,omitempty"`
}

// GenerateJSON renders files in the shape of ESLint's json formatter.
func GenerateJSON(files []File) ([]byte, error) {
	out := make([]jsonFile, 0, len(files))
	for _, f := range files {
		jf := jsonFile{
			FilePath: f.Path,
			Messages: make([]jsonMessage, 0, len(f.Messages)),
		}
		jf.ErrorCount, jf.WarningCount = f.counts()
		for _, m := range f.Messages {
			jm := jsonMessage{
				Severity: m.Severity,
				Message:  m.Message,
				Line:     m.Line,
				Column:   m.Column,
				Fatal:    m.Fatal,
			}
			if m.RuleID != "" {
				id := m.RuleID
				jm.RuleID = &id
			}
			if m.Fatal {
				jf.FatalErrorCount++
			}
			jf.Messages = append(jf.Messages, jm)
		}
		out = append(out, jf)
	}
	return json.MarshalIndent(out, "", "  ")
}
