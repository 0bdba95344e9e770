package rules

import (
	"testing"

	"tscheck/internal/core/errors"
	"tscheck/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCwd = "/work/project"

func parse(t *testing.T, filename, code string) *parser.Program {
	t.Helper()
	p, err := parser.NewDefaultParser()
	require.NoError(t, err)
	prog, err := p.ParseFile(filename, []byte(code))
	require.NoError(t, err)
	return prog
}

type ruleCase struct {
	name     string
	code     string
	filename string
	options  []Options
}

func runCase(t *testing.T, tc ruleCase) *Diagnostic {
	t.Helper()
	filename := tc.filename
	if filename == "" {
		filename = "test.js"
	}
	diag, err := RequireTSCheck.Evaluate(Context{
		Program:  parse(t, filename, tc.code),
		Filename: filename,
		Cwd:      testCwd,
		Options:  tc.options,
	})
	require.NoError(t, err)
	return diag
}

func TestRequireTSCheck_Valid(t *testing.T) {
	cases := []ruleCase{
		{name: "plain directive", code: "// @ts-check"},
		{name: "no space", code: "//@ts-check"},
		{name: "mixed case", code: "// @TS-checK"},
		{name: "trailing text", code: "// @ts-check with some comments"},
		{
			name: "before declaration",
			code: "\n      // @ts-check\n\n      const foo = require('bar');\n      ",
		},
		{
			name: "amongst other comments",
			code: "\n      // Some other comment\n      /** Another one */\n      // @ts-check\n      // Final one\n\n" +
				"      function foo() {\n        return 'bar';\n      };\n      ",
		},
		{
			name: "comments below declaration ignored",
			code: "\n      // @ts-check\n\n      let foo;\n      // @ts-check - This is ignored\n      ",
		},
		{
			name: "concrete scenario",
			code: "// Some other comment\n/** Another one */\n// @ts-check\n// Final one\nfunction foo(){return 'bar';}",
		},
		{name: "non js extension ignored by default", code: "ignored", filename: "anotherFile.ts"},
		{name: "node_modules ignored by default", code: "ignored", filename: "node_modules/moduleFile.js"},
		{name: "dotfile ignored by default", code: "module.exports = {};", filename: ".eslintrc.js"},
		{
			name:     "globstar include skips other dirs",
			code:     "ignored",
			filename: "lib/util.js",
			options:  []Options{{Include: []string{"src/**/*.js"}}},
		},
		{
			name:     "custom exclude",
			code:     "ignored",
			filename: "ignoredFile.js",
			options:  []Options{{Exclude: []string{"**/*.js"}}},
		},
		{
			name:     "exclude wins over include",
			code:     "ignored",
			filename: "src/gen/out.js",
			options:  []Options{{Include: []string{"**/*.js"}, Exclude: []string{"gen/"}}},
		},
		{name: "hashbang before directive", code: "#!/usr/bin/env node\n// @ts-check\nrun();\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, runCase(t, tc))
		})
	}
}

func TestRequireTSCheck_Invalid(t *testing.T) {
	cases := []ruleCase{
		{name: "jsdoc block", code: "/** @ts-check */"},
		{name: "block no spaces", code: "/*@ts-check*/"},
		{name: "directive after text", code: "// some comments @ts-check"},
		{name: "missing at sign", code: "// ts-check"},
		{name: "missing hyphen", code: "// @tscheck"},
		{name: "empty file", code: ""},
		{name: "below declaration", code: "\n      const a = require('b');\n      // @ts-check\n      "},
		{name: "concrete below declaration", code: "const a = require('b');\n// @ts-check"},
		{
			name: "jsdoc before declaration",
			code: "\n      /** @ts-check */\n      function foo() {\n        return 'bar';\n      };\n      // @ts-check\n      ",
		},
		{
			name: "below expression statement",
			code: "\n      'use strict';\n      // @ts-check\n\n      let foo;\n      // @ts-check - This is ignored\n      ",
		},
		{name: "same line as statement", code: "'use strict'; // @ts-check\n"},
		{
			name:     "custom include extension",
			code:     "ignored",
			filename: "differentExtension.ts",
			options:  []Options{{Include: []string{"**/*.ts"}}},
		},
		{
			name:     "globstar include nested file",
			code:     "ignored",
			filename: "src/x/a.js",
			options:  []Options{{Include: []string{"src/**/*.js"}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diag := runCase(t, tc)
			require.NotNil(t, diag)
			assert.Equal(t, MsgTSCheckMissing, diag.Message)
			assert.Equal(t, RequireTSCheckName, diag.Rule)
			assert.Equal(t, parser.KindProgram, diag.Node.Kind)
			assert.Equal(t, 1, diag.Location.Line)
			assert.Equal(t, 1, diag.Location.Column)
		})
	}
}

func TestRequireTSCheck_TwoOptionObjectsIsConfigurationError(t *testing.T) {
	ctx := Context{
		Program:  parser.NewProgram("test.js", 0, nil, nil),
		Filename: "node_modules/excluded.js",
		Cwd:      testCwd,
		Options:  []Options{{}, {}},
	}

	diag, err := RequireTSCheck.Evaluate(ctx)
	require.Error(t, err)
	assert.Nil(t, diag)
	assert.True(t, errors.IsCode(err, errors.CodeConfiguration))

	_, err = RequireTSCheck.AppliesTo(ctx.Filename, ctx.Cwd, ctx.Options)
	assert.True(t, errors.IsCode(err, errors.CodeConfiguration))
}

func TestRequireTSCheck_InvalidGlobIsConfigurationError(t *testing.T) {
	_, err := RequireTSCheck.Evaluate(Context{
		Program:  parser.NewProgram("test.js", 0, nil, nil),
		Filename: "test.js",
		Cwd:      testCwd,
		Options:  []Options{{Include: []string{"[a-"}}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConfiguration))
}

func TestRequireTSCheck_ConstructedPrograms(t *testing.T) {
	stmt := parser.Node{Kind: "expression_statement", Range: parser.Range{Start: 20, End: 30}, Line: 2, Column: 1}

	cases := []struct {
		name     string
		body     []parser.Node
		comments []parser.Comment
		wantDiag bool
	}{
		{
			name:     "no statements means every comment qualifies",
			comments: []parser.Comment{{Kind: parser.CommentLine, Value: " @ts-check", Range: parser.Range{Start: 500, End: 512}}},
		},
		{
			name:     "comment ending exactly at statement start does not qualify",
			body:     []parser.Node{stmt},
			comments: []parser.Comment{{Kind: parser.CommentLine, Value: "@ts-check", Range: parser.Range{Start: 9, End: 20}}},
			wantDiag: true,
		},
		{
			name:     "comment ending one byte before statement qualifies",
			body:     []parser.Node{stmt},
			comments: []parser.Comment{{Kind: parser.CommentLine, Value: "@ts-check", Range: parser.Range{Start: 8, End: 19}}},
		},
		{
			name:     "block comment never qualifies",
			body:     []parser.Node{stmt},
			comments: []parser.Comment{{Kind: parser.CommentBlock, Value: " @ts-check ", Range: parser.Range{Start: 0, End: 15}}},
			wantDiag: true,
		},
		{
			name: "any matching candidate is enough",
			body: []parser.Node{stmt},
			comments: []parser.Comment{
				{Kind: parser.CommentLine, Value: " eslint-disable", Range: parser.Range{Start: 0, End: 5}},
				{Kind: parser.CommentLine, Value: "\t@Ts-Check", Range: parser.Range{Start: 6, End: 10}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			comments := append([]parser.Comment(nil), tc.comments...)
			prog := parser.NewProgram("test.js", 40, tc.body, comments)
			diag, err := RequireTSCheck.Evaluate(Context{Program: prog, Filename: "test.js", Cwd: testCwd})
			require.NoError(t, err)
			assert.Equal(t, tc.wantDiag, diag != nil)
			assert.Equal(t, tc.comments, prog.Comments, "inputs must not be mutated")
		})
	}
}

func TestRequireTSCheck_AppliesToAgreesWithEvaluate(t *testing.T) {
	empty := parser.NewProgram("x", 0, nil, nil)
	paths := []string{"a.js", "lib/b.jsx", "node_modules/c.js", "src/d.ts", "e.json", "vendor/node_modules_x/f.js"}
	optionSets := [][]Options{nil, {{Include: []string{"**/*.ts"}}}, {{Exclude: []string{}}}, {{Include: []string{}}}}

	for _, opts := range optionSets {
		for _, p := range paths {
			applies, err := RequireTSCheck.AppliesTo(p, testCwd, opts)
			require.NoError(t, err)
			diag, err := RequireTSCheck.Evaluate(Context{Program: empty, Filename: p, Cwd: testCwd, Options: opts})
			require.NoError(t, err)
			assert.Equal(t, applies, diag != nil, "path %s options %v", p, opts)
		}
	}
}

func TestIsTSCheckDirective(t *testing.T) {
	cases := map[string]bool{
		" @ts-check":               true,
		"@ts-check":                true,
		"   @TS-CHECK":             true,
		" @ts-check with comments": true,
		" @ts-checked":             true,
		" some comments @ts-check": false,
		" ts-check":                false,
		" @tscheck":                false,
		" @ts-chec":                false,
		"":                         false,
		"\u00a0@ts-check":          true,
		" @ts-nocheck":             false,
	}
	for value, want := range cases {
		assert.Equal(t, want, IsTSCheckDirective(value), "%q", value)
	}
}
