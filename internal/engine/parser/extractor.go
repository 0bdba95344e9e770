package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	kindComment     = "comment"
	kindHTMLComment = "html_comment"
	kindHashBang    = "hash_bang_line"
)

// Extractor turns a parsed tree into a Program.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*Program, error)
}

// ProgramExtractor collects top-level statements and every comment. The same
// node kinds are used by the JavaScript and TypeScript grammars.
type ProgramExtractor struct {
	engine *ExtractorEngine
}

func NewProgramExtractor() *ProgramExtractor {
	handlers := map[string]NodeHandler{
		kindComment:     collectComment,
		kindHTMLComment: collectComment,
	}
	engine := NewExtractorEngine(handlers).WithFallback(collectErrorNode)
	return &ProgramExtractor{engine: engine}
}

func (e *ProgramExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*Program, error) {
	ctx := &ExtractionContext{Source: source, Path: filePath}
	e.engine.Walk(ctx, root)

	body := make([]Node, 0, root.NamedChildCount())
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil || !isStatement(child) {
			continue
		}
		body = append(body, NodeOf(child))
	}

	prog := NewProgram(filePath, len(source), body, ctx.Comments)
	if len(ctx.Errors) > 0 {
		return prog, newSyntaxError(filePath, ctx.Errors[0])
	}
	return prog, nil
}

func isStatement(node *sitter.Node) bool {
	switch node.Kind() {
	case kindComment, kindHTMLComment, kindHashBang:
		return false
	}
	return !node.IsExtra()
}

func collectComment(ctx *ExtractionContext, node *sitter.Node) bool {
	kind, value := splitComment(ctx.Text(node))
	ctx.Comments = append(ctx.Comments, Comment{
		Kind:  kind,
		Value: value,
		Range: Range{Start: int(node.StartByte()), End: int(node.EndByte())},
	})
	return true
}

func collectErrorNode(ctx *ExtractionContext, node *sitter.Node) bool {
	if node.IsError() || node.IsMissing() {
		ctx.Errors = append(ctx.Errors, NodeOf(node))
		return true
	}
	return false
}

// splitComment classifies raw comment text and strips its delimiters.
func splitComment(raw string) (CommentKind, string) {
	switch {
	case strings.HasPrefix(raw, "//"):
		return CommentLine, strings.TrimSuffix(raw[2:], "\r")
	case strings.HasPrefix(raw, "/*"):
		return CommentBlock, strings.TrimSuffix(raw[2:], "*/")
	case strings.HasPrefix(raw, "<!--"):
		return CommentLine, strings.TrimSuffix(raw[4:], "\r")
	case strings.HasPrefix(raw, "-->"):
		return CommentLine, strings.TrimSuffix(raw[3:], "\r")
	default:
		return CommentLine, raw
	}
}
