package formats

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const testMessage = "Type checking should be enabled by adding @ts-check to the top of the file"

func sampleFiles() []File {
	return []File{
		{
			Path: "/project/src/a.js",
			Messages: []Message{{
				RuleID:   "require-ts-check",
				Severity: SeverityError,
				Message:  testMessage,
				Line:     1,
				Column:   1,
			}},
		},
		{Path: "/project/src/b.js"},
		{
			Path: "/project/src/broken.js",
			Messages: []Message{{
				Severity: SeverityError,
				Message:  "Parsing error: syntax error",
				Line:     2,
				Column:   7,
				Fatal:    true,
			}},
		},
	}
}

func sampleRules() []RuleDescriptor {
	return []RuleDescriptor{{
		ID:           "require-ts-check",
		Description:  "Require @ts-check to be added to your files",
		DefaultLevel: SeverityError,
	}}
}

func TestGenerateSARIF_EmptyResults(t *testing.T) {
	data, err := GenerateSARIF("", "dev", nil, nil)
	if err != nil {
		t.Fatalf("GenerateSARIF returned error: %v", err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if report.Schema != sarifSchema {
		t.Errorf("$schema = %q, want %q", report.Schema, sarifSchema)
	}
	if report.Version != sarifVersion {
		t.Errorf("version = %q, want %q", report.Version, sarifVersion)
	}
	if len(report.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(report.Runs))
	}
	if len(report.Runs[0].Results) != 0 {
		t.Errorf("expected 0 results, got %d", len(report.Runs[0].Results))
	}
}

func TestGenerateSARIF_RelativeURIsAndRules(t *testing.T) {
	data, err := GenerateSARIF("/project", "1.0.0", sampleRules(), sampleFiles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(data), "/project/") {
		t.Error("SARIF output must not contain absolute paths")
	}

	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	driver := report.Runs[0].Tool.Driver
	if driver.Name != "tscheck" || driver.Version != "1.0.0" {
		t.Errorf("unexpected driver %+v", driver)
	}
	if len(driver.Rules) != 1 || driver.Rules[0].ID != "require-ts-check" || driver.Rules[0].DefaultConfig.Level != "error" {
		t.Errorf("unexpected rules %+v", driver.Rules)
	}

	if _, err := uuid.Parse(report.Runs[0].AutomationDetails.GUID); err != nil {
		t.Errorf("automationDetails.guid is not a UUID: %v", err)
	}

	results := report.Runs[0].Results
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	r := results[0]
	if r.RuleID != "require-ts-check" || r.RuleIndex == nil || *r.RuleIndex != 0 {
		t.Errorf("unexpected rule reference %q/%v", r.RuleID, r.RuleIndex)
	}
	loc := r.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/a.js" {
		t.Errorf("uri = %q, want src/a.js", loc.ArtifactLocation.URI)
	}
	if loc.ArtifactLocation.URIBaseID != sarifSrcRoot {
		t.Errorf("uriBaseId = %q, want %q", loc.ArtifactLocation.URIBaseID, sarifSrcRoot)
	}
	if loc.Region == nil || loc.Region.StartLine != 1 || loc.Region.StartColumn != 1 {
		t.Errorf("unexpected region %+v", loc.Region)
	}

	fatal := results[1]
	if fatal.RuleID != "" || fatal.RuleIndex != nil {
		t.Errorf("fatal result should carry no rule, got %q", fatal.RuleID)
	}
	if fatal.Level != "error" {
		t.Errorf("fatal level = %q, want error", fatal.Level)
	}
}

func TestGenerateJSON(t *testing.T) {
	data, err := GenerateJSON(sampleFiles())
	if err != nil {
		t.Fatalf("GenerateJSON returned error: %v", err)
	}

	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 files, got %d", len(out))
	}

	first := out[0]
	if first["filePath"] != "/project/src/a.js" {
		t.Errorf("filePath = %v", first["filePath"])
	}
	if first["errorCount"] != float64(1) || first["warningCount"] != float64(0) {
		t.Errorf("unexpected counts: %v/%v", first["errorCount"], first["warningCount"])
	}
	msg := first["messages"].([]any)[0].(map[string]any)
	if msg["ruleId"] != "require-ts-check" || msg["severity"] != float64(2) || msg["message"] != testMessage {
		t.Errorf("unexpected message %v", msg)
	}
	if msg["line"] != float64(1) || msg["column"] != float64(1) {
		t.Errorf("unexpected position %v:%v", msg["line"], msg["column"])
	}

	clean := out[1]
	if msgs := clean["messages"].([]any); len(msgs) != 0 {
		t.Errorf("expected empty messages array, got %v", msgs)
	}

	fatal := out[2]["messages"].([]any)[0].(map[string]any)
	if fatal["ruleId"] != nil {
		t.Errorf("fatal ruleId = %v, want null", fatal["ruleId"])
	}
	if fatal["fatal"] != true {
		t.Error("expected fatal flag")
	}
	if out[2]["fatalErrorCount"] != float64(1) {
		t.Errorf("fatalErrorCount = %v, want 1", out[2]["fatalErrorCount"])
	}
}

func TestGenerateText(t *testing.T) {
	out := string(GenerateText("/project", sampleFiles(), false))

	if !strings.Contains(out, "src/a.js\n") {
		t.Errorf("expected file header, got:\n%s", out)
	}
	if !strings.Contains(out, "src/a.js:1:1  error  "+testMessage+"  require-ts-check") {
		t.Errorf("expected diagnostic line, got:\n%s", out)
	}
	if strings.Contains(out, "src/b.js") {
		t.Errorf("clean files should not be listed, got:\n%s", out)
	}
	if !strings.Contains(out, "✖ 2 problems (2 errors, 0 warnings)") {
		t.Errorf("expected summary, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no ANSI escapes with color disabled")
	}
}

func TestGenerateText_Color(t *testing.T) {
	out := string(GenerateText("/project", sampleFiles()[:1], true))
	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI escapes with color enabled")
	}
}

func TestGenerateText_Clean(t *testing.T) {
	out := GenerateText("/project", []File{{Path: "/project/a.js"}}, false)
	if len(out) != 0 {
		t.Errorf("expected no output for a clean run, got %q", out)
	}
}
