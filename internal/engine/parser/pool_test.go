package parser

import (
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

func javascriptLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_javascript.Language())
}

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(javascriptLanguage())

	sp := pool.Get()
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	if pool.Leased() != 1 {
		t.Fatalf("expected 1 leased parser, got %d", pool.Leased())
	}

	pool.Put(sp)
	if pool.Leased() != 0 {
		t.Fatalf("expected 0 leased parsers after Put, got %d", pool.Leased())
	}
}

func TestParserPool_PutNil(t *testing.T) {
	pool := NewParserPool(javascriptLanguage())
	pool.Put(nil)
	if pool.Leased() != 0 {
		t.Fatalf("Put(nil) must not change the lease count, got %d", pool.Leased())
	}
}

func TestParserPool_ParsesJavaScript(t *testing.T) {
	pool := NewParserPool(javascriptLanguage())

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse([]byte("// @ts-check\nconst a = 1;\n"), nil)
	if tree == nil {
		t.Fatal("expected non-nil tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.Kind() != "program" {
		t.Fatalf("expected program root, got %q", root.Kind())
	}
	if root.HasError() {
		t.Fatal("unexpected syntax error in valid source")
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(javascriptLanguage())
	src := []byte("function f() { return 1; }")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sp := pool.Get()
			defer pool.Put(sp)
			tree := sp.Parse(src, nil)
			if tree == nil {
				t.Error("expected non-nil tree")
				return
			}
			tree.Close()
		}()
	}
	wg.Wait()

	if pool.Leased() != 0 {
		t.Fatalf("expected all parsers returned, got %d leased", pool.Leased())
	}
}
