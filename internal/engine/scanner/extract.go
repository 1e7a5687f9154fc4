package scanner

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// Import is one flattened crate path found in a source file.
type Import struct {
	File string
	Line int
	// Raw is the "::"-joined path, e.g. "windows::Win32::Foundation::HWND".
	Raw string
}

// nodeHandler processes a node. Returning true stops descent into its children.
type nodeHandler func(ctx *extractionContext, node *sitter.Node) bool

type extractionContext struct {
	source  []byte
	path    string
	imports []Import
}

func (c *extractionContext) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.source[node.StartByte():node.EndByte()])
}

// extractorEngine walks the syntax tree and dispatches handlers by node kind.
type extractorEngine struct {
	handlers map[string]nodeHandler
}

func (e *extractorEngine) walk(ctx *extractionContext, node *sitter.Node) {
	if node == nil {
		return
	}
	if handler, ok := e.handlers[node.Kind()]; ok && handler(ctx, node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(ctx, node.Child(i))
	}
}

// Extractor pulls crate imports out of Rust source with tree-sitter.
// Safe for concurrent use.
type Extractor struct {
	crate  string
	lang   *sitter.Language
	pool   sync.Pool
	engine *extractorEngine
}

func NewExtractor(crate string) *Extractor {
	crate = strings.TrimSpace(crate)
	if crate == "" {
		crate = "windows"
	}
	e := &Extractor{
		crate: crate,
		lang:  sitter.NewLanguage(tree_sitter_rust.Language()),
	}
	e.pool.New = func() any {
		sp := sitter.NewParser()
		_ = sp.SetLanguage(e.lang)
		return sp
	}
	e.engine = &extractorEngine{handlers: map[string]nodeHandler{
		"use_declaration": e.extractUse,
	}}
	return e
}

// Crate returns the crate name imports are filtered on.
func (e *Extractor) Crate() string {
	return e.crate
}

// Extract returns every import of the crate in src, in source order.
func (e *Extractor) Extract(path string, src []byte) ([]Import, error) {
	sp := e.pool.Get().(*sitter.Parser)
	defer func() {
		sp.Reset()
		e.pool.Put(sp)
	}()

	tree := sp.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no syntax tree produced", path)
	}
	defer tree.Close()

	ctx := &extractionContext{source: src, path: path}
	e.engine.walk(ctx, tree.RootNode())
	return ctx.imports, nil
}

func (e *Extractor) extractUse(ctx *extractionContext, node *sitter.Node) bool {
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return true
	}
	line := int(node.StartPosition().Row) + 1
	for _, p := range expandUseTree(ctx, arg, "") {
		if !strings.HasPrefix(p, e.crate+"::") {
			continue
		}
		ctx.imports = append(ctx.imports, Import{File: ctx.path, Line: line, Raw: p})
	}
	return true
}

// expandUseTree flattens a use tree into full paths: groups are distributed
// over their prefix, aliases are dropped and "self" entries are skipped.
func expandUseTree(ctx *extractionContext, node *sitter.Node, prefix string) []string {
	switch node.Kind() {
	case "use_list":
		var out []string
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "line_comment", "block_comment":
				continue
			}
			out = append(out, expandUseTree(ctx, child, prefix)...)
		}
		return out
	case "scoped_use_list":
		next := prefix
		if path := node.ChildByFieldName("path"); path != nil {
			next = joinPath(prefix, ctx.text(path))
		}
		list := node.ChildByFieldName("list")
		if list == nil {
			return nil
		}
		return expandUseTree(ctx, list, next)
	case "use_as_clause":
		path := node.ChildByFieldName("path")
		if path == nil {
			return nil
		}
		return expandUseTree(ctx, path, prefix)
	case "self":
		return nil
	default:
		p := joinPath(prefix, ctx.text(node))
		if p == "" {
			return nil
		}
		return []string{p}
	}
}

func joinPath(prefix, segment string) string {
	segment = strings.Join(strings.Fields(segment), "")
	segment = strings.TrimPrefix(segment, "::")
	switch {
	case segment == "":
		return prefix
	case prefix == "":
		return segment
	default:
		return prefix + "::" + segment
	}
}

// ExpandStatement flattens a single statement such as
// "use windows::Win32::{Foundation::HWND, UI::*};". The leading "use" and the
// trailing ";" are optional.
func (e *Extractor) ExpandStatement(text string) []string {
	stmt := strings.TrimSpace(text)
	if stmt == "" {
		return nil
	}
	if !strings.HasPrefix(stmt, "use ") && !strings.HasPrefix(stmt, "pub ") {
		stmt = "use " + stmt
	}
	if !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}
	found, err := e.Extract("", []byte(stmt))
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(found))
	for _, imp := range found {
		out = append(out, imp.Raw)
	}
	return out
}
