package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node during a walk.
// Returns true if the walker should not descend into the node's children.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries the source and the parts collected so far.
type ExtractionContext struct {
	Source   []byte
	Path     string
	Comments []Comment
	Errors   []Node
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
	fallback NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

// WithFallback installs a handler consulted for kinds without a specific one.
func (e *ExtractorEngine) WithFallback(h NodeHandler) *ExtractorEngine {
	e.fallback = h
	return e
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	stop := false
	if handler, ok := e.handlers[node.Kind()]; ok {
		stop = handler(ctx, node)
	} else if e.fallback != nil {
		stop = e.fallback(ctx, node)
	}
	if stop {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// NodeOf reduces a tree-sitter node to a Node with 1-based position.
func NodeOf(node *sitter.Node) Node {
	pos := node.StartPosition()
	return Node{
		Kind:   node.Kind(),
		Range:  Range{Start: int(node.StartByte()), End: int(node.EndByte())},
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
}
