package formats

import (
	"encoding/json"
	"path/filepath"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
	sarifSrcRoot = "%SRCROOT%"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

// sarifAutomationDetails identifies one run so consumers can tell uploads
// apart.
type sarifAutomationDetails struct {
	ID   string `json:"id"`
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId,omitempty"`
	RuleIndex *int            `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document. All file URIs are made
// relative to projectRoot; absolute paths under it are never included so that
// reports are safe to share.
func GenerateSARIF(projectRoot, toolVersion string, descriptors []RuleDescriptor, files []File) ([]byte, error) {
	rules := make([]sarifRule, 0, len(descriptors))
	ruleIndex := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		ruleIndex[d.ID] = i
		rules = append(rules, sarifRule{
			ID:               d.ID,
			ShortDescription: sarifMessage{Text: d.Description},
			DefaultConfig:    sarifRuleDefaultConfig{Level: severityToLevel(d.DefaultLevel)},
		})
	}

	results := make([]sarifResult, 0)
	for _, f := range files {
		uri := relativeURI(projectRoot, f.Path)
		for _, m := range f.Messages {
			result := sarifResult{
				RuleID:  m.RuleID,
				Level:   severityToLevel(m.Severity),
				Message: sarifMessage{Text: m.Message},
			}
			if idx, ok := ruleIndex[m.RuleID]; ok {
				result.RuleIndex = &idx
			}
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       uri,
						URIBaseID: sarifSrcRoot,
					},
				},
			}
			if m.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   m.Line,
					StartColumn: m.Column,
				}
			}
			result.Locations = []sarifLocation{loc}
			results = append(results, result)
		}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "tscheck",
						Version: toolVersion,
						Rules:   rules,
					},
				},
				AutomationDetails: sarifAutomationDetails{
					ID:   "tscheck/",
					GUID: uuid.NewString(),
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	// SARIF URIs use forward slashes.
	return filepath.ToSlash(filePath)
}

func severityToLevel(severity int) string {
	switch severity {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
