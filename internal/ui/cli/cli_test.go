package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"tscheck/internal/engine/rules"
	"tscheck/internal/shared/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestLint_Clean(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "// @ts-check\nconst a = 1;\n",
	})

	code, stdout, _ := run(t, "lint", "--cwd", root)
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)
}

func TestLint_ReportsMissingDirective(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js":              "const a = 1;\n",
		"node_modules/b.js": "const b = 1;\n",
	})

	code, stdout, _ := run(t, "lint", "--cwd", root, "--no-color")
	assert.Equal(t, ExitLint, code)
	assert.Contains(t, stdout, "a.js:1:1  error  "+rules.MsgTSCheckMissing+"  "+rules.RequireTSCheckName)
	assert.NotContains(t, stdout, "b.js")
	assert.Contains(t, stdout, "1 problem (1 error, 0 warnings)")
}

func TestLint_JSONFormat(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "const a = 1;\n",
		"b.js": "// @ts-check\n",
	})

	code, stdout, _ := run(t, "lint", "--cwd", root, "--format", "json")
	assert.Equal(t, ExitLint, code)

	var out []struct {
		FilePath   string `json:"filePath"`
		ErrorCount int    `json:"errorCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 2)
	assert.Equal(t, filepath.Join(root, "a.js"), out[0].FilePath)
	assert.Equal(t, 1, out[0].ErrorCount)
	assert.Equal(t, 0, out[1].ErrorCount)
}

func TestLint_OutputFile(t *testing.T) {
	root := writeProject(t, map[string]string{"a.js": "const a = 1;\n"})

	code, stdout, _ := run(t, "lint", "--cwd", root, "--format", "sarif", "--output", "reports/tscheck.sarif")
	assert.Equal(t, ExitLint, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(filepath.Join(root, "reports", "tscheck.sarif"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
	assert.Contains(t, string(data), `"uri": "a.js"`)
}

func TestLint_ConfigFile(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/a.ts": "const a = 1;\n",
		"a.js":     "const a = 1;\n",
		"tscheck.toml": `
[rules.require-ts-check]
level = "warn"

[[rules.require-ts-check.options]]
include = ["src/**/*.ts"]
`,
	})

	code, stdout, _ := run(t, "lint", "--cwd", root, "--no-color")
	assert.Equal(t, ExitOK, code, "warnings alone do not fail the run")
	assert.Contains(t, stdout, "src/a.ts:1:1  warning")
	assert.NotContains(t, stdout, "\na.js")
}

func TestLint_TwoOptionsObjectsIsConfigError(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "// @ts-check\n",
		"tscheck.toml": `
[[rules.require-ts-check.options]]
include = ["**/*.js"]

[[rules.require-ts-check.options]]
exclude = ["dist"]
`,
	})

	code, stdout, stderr := run(t, "lint", "--cwd", root)
	assert.Equal(t, ExitConfig, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "configuration error")
}

func TestLint_ConfigErrors(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "// @ts-check\n",
		"bad.toml": `
[[rules.require-ts-check.options]]
files = ["a.js"]
`,
	})

	code, _, stderr := run(t, "lint", "--cwd", root, "--config", filepath.Join(root, "bad.toml"))
	assert.Equal(t, ExitConfig, code)
	assert.Contains(t, stderr, "unknown configuration keys")

	code, _, _ = run(t, "lint", "--cwd", root, "--config", filepath.Join(root, "missing.toml"))
	assert.Equal(t, ExitConfig, code)

	code, _, _ = run(t, "lint", "--cwd", root, "--format", "xml")
	assert.Equal(t, ExitConfig, code)
}

func TestLint_UnknownFlagIsUsageError(t *testing.T) {
	code, _, stderr := run(t, "lint", "--frobnicate")
	assert.Equal(t, ExitConfig, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestLint_ExplicitFileArgument(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "const a = 1;\n",
		"b.js": "const b = 1;\n",
	})

	code, stdout, _ := run(t, "lint", "--cwd", root, "--no-color", "b.js")
	assert.Equal(t, ExitLint, code)
	assert.Contains(t, stdout, "b.js:1:1")
	assert.NotContains(t, stdout, "a.js")
}

func TestRulesCommand(t *testing.T) {
	code, stdout, _ := run(t, "rules")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, rules.RequireTSCheckName)
	assert.Contains(t, stdout, "error")
	assert.Contains(t, stdout, rules.RequireTSCheck.Description)
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := run(t, "version")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "tscheck "+version.Version+"\n", stdout)
}
