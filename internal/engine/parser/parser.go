package parser

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tscheck/internal/core/errors"
	"tscheck/internal/shared/observability"
	"tscheck/internal/shared/util"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
	extensions map[string]string
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		extensions: make(map[string]string),
	}
	for lang, spec := range loader.LanguageRegistry() {
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			p.extensions[strings.ToLower(ext)] = lang
		}
	}
	return p
}

// NewDefaultParser loads every built-in grammar and registers the program
// extractor for each.
func NewDefaultParser() (*Parser, error) {
	loader, err := NewGrammarLoader()
	if err != nil {
		return nil, err
	}
	p := NewParser(loader)
	p.RegisterDefaultExtractors()
	return p, nil
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

func (p *Parser) RegisterDefaultExtractors() {
	extractor := NewProgramExtractor()
	for lang, spec := range p.loader.LanguageRegistry() {
		if spec.Enabled {
			p.RegisterExtractor(lang, extractor)
		}
	}
}

// ParseFile parses content as the language implied by path's extension.
// On syntax errors the partial Program is returned with a CodeParse error.
func (p *Parser) ParseFile(path string, content []byte) (*Program, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		de := &errors.DomainError{Code: errors.CodeNotSupported, Message: "unsupported language"}
		return nil, de.WithContext(errors.CtxPath, path)
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", lang))
	}

	pool := p.loader.Pool(lang)
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	}()

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	defer tree.Close()

	prog, err := extractor.Extract(tree.RootNode(), content, path)
	if prog != nil {
		prog.Language = lang
	}
	return prog, err
}

func (p *Parser) detectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	return p.extensions[ext]
}

func (p *Parser) IsSupportedPath(filePath string) bool {
	return p.GetLanguage(filePath) != ""
}

func (p *Parser) GetLanguage(path string) string {
	return p.detectLanguage(path)
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedStringKeys(p.extensions)
}

func newSyntaxError(path string, at Node) error {
	de := &errors.DomainError{Code: errors.CodeParse, Message: "syntax error"}
	return de.WithContext(errors.CtxPath, path).
		WithContext(errors.CtxLine, at.Line).
		WithContext(errors.CtxColumn, at.Column)
}

// ErrorPosition extracts the line/column recorded on a syntax error.
func ErrorPosition(err error) (line, column int, ok bool) {
	var de *errors.DomainError
	if !stderrors.As(err, &de) || de.Code != errors.CodeParse {
		return 0, 0, false
	}
	line, lok := de.Context[errors.CtxLine].(int)
	column, cok := de.Context[errors.CtxColumn].(int)
	return line, column, lok && cok
}
