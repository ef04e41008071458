//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package treesitter is the reference parser front end: it wraps
// tree-sitter's concrete syntax tree for Java and Go into the shared
// cst.Node representation, driven by a parserconfig.Config. Grammar
// sources for tree-sitter-java and tree-sitter-go are vendored
// alongside this package at build time (CGO_CFLAGS points at their
// "src" directories); this file only declares the two entry points it
// needs from them.
package treesitter

// #include "api.h"
// #include "parser.h"
// #include <stdlib.h>
// #include <string.h>
// TSLanguage *tree_sitter_java();
// TSLanguage *tree_sitter_go();
import "C"

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/ctmerge/ctmerge/cst"
	"github.com/ctmerge/ctmerge/parserconfig"
)

// File extensions recognized by this front end.
const (
	GoExt   = ".go"
	JavaExt = ".java"
)

// LanguageForExt returns the language name (as used by
// parserconfig.Load) for a recognized extension, or "" if the
// extension is not supported by this front end.
func LanguageForExt(ext string) string {
	switch ext {
	case GoExt:
		return "go"
	case JavaExt:
		return "java"
	default:
		return ""
	}
}

// builder carries the per-parse state needed to turn tree-sitter's
// cursor-based walk into a cst.Node tree: the source buffer (nodes
// borrow slices of it), the node-identity generator, and the
// language's parserconfig.
type builder struct {
	source string
	ids    *cst.IDGen
	config *parserconfig.Config
}

// ParseFile reads path, parses it with the tree-sitter grammar
// selected by its extension, and returns the CST root. The returned
// root's LeadingWhitespace is the raw prefix of the file preceding the
// first token (normally empty). ids must be shared with any other tree
// this one will be matched against (see Parse).
func ParseFile(path string, config *parserconfig.Config, ids *cst.IDGen) (cst.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("treesitter: reading %q: %w", path, err)
	}
	return Parse(string(data), filepath.Ext(path), config, ids)
}

// Parse parses source using the grammar selected by ext ("."-prefixed,
// e.g. ".java") and returns the CST root. Node identities are drawn
// from ids, which callers comparing multiple trees (base/left/right)
// must share across every Parse call in that comparison: the matcher
// keys a node by its raw identity, and two independently-started
// generators would assign the same small integers to unrelated nodes
// in different trees.
func Parse(source string, ext string, config *parserconfig.Config, ids *cst.IDGen) (cst.Node, error) {
	var language *C.TSLanguage
	switch ext {
	case GoExt:
		language = C.tree_sitter_go()
	case JavaExt:
		language = C.tree_sitter_java()
	default:
		return nil, fmt.Errorf("treesitter: no grammar available for extension %q", ext)
	}

	parser := C.ts_parser_new()
	defer C.ts_parser_delete(parser)
	C.ts_parser_set_language(parser, language)

	cSource := C.CString(source)
	defer C.free(unsafe.Pointer(cSource))
	tsTree := C.ts_parser_parse_string(parser, nil, cSource, C.uint(C.strlen(cSource)))
	if tsTree == nil {
		return nil, errors.New("treesitter: parser returned no tree")
	}
	defer C.ts_tree_delete(tsTree)

	root := C.ts_tree_root_node(tsTree)
	cursorStruct := C.ts_tree_cursor_new(root)
	cursor := &cursorStruct
	defer C.ts_tree_cursor_delete(cursor)

	b := &builder{source: source, config: config, ids: ids}
	node, err := b.build(cursor)
	if err != nil {
		return nil, err
	}
	node.SetLeadingWhitespace(source[:node.Start().Byte])
	return node, nil
}

// build recursively builds a cst.Node from the cursor's current
// position. It is guaranteed to leave the cursor pointing at the same
// node it started at. Children do not yet have their leading
// whitespace set: the caller (the parent frame, or Parse for the root)
// is responsible for that, since it depends on a node's position among
// its siblings.
func (b *builder) build(cursor *C.TSTreeCursor) (cst.Node, error) {
	tsNode := C.ts_tree_cursor_current_node(cursor)
	nodeType := C.GoString(C.ts_node_type(tsNode))
	if nodeType == "ERROR" {
		return nil, fmt.Errorf("treesitter: parse error near byte %d", uint32(C.ts_node_start_byte(tsNode)))
	}

	start := cst.Position{Byte: int(uint32(C.ts_node_start_byte(tsNode)))}
	end := cst.Position{Byte: int(uint32(C.ts_node_end_byte(tsNode)))}

	// Leaves and opaque (stop_at) kinds become Terminal nodes holding
	// their exact source slice; we never look past the configured
	// boundary of a stop_at kind even if tree-sitter exposes children
	// for it (e.g. escape sequences inside a string_literal).
	hasChildren := C.ts_node_child_count(tsNode) > 0 && !b.config.IsStopAt(nodeType)
	if !hasChildren {
		id := b.ids.Next()
		return cst.NewTerminal(id, nodeType, b.source[start.Byte:end.Byte], start, end, ""), nil
	}

	if !C.ts_tree_cursor_goto_first_child(cursor) {
		id := b.ids.Next()
		return cst.NewTerminal(id, nodeType, b.source[start.Byte:end.Byte], start, end, ""), nil
	}

	var children []cst.Node
	childKinds := make([]parserconfig.Child, 0)
	prevEnd := start.Byte
	for {
		child, err := b.build(cursor)
		if err != nil {
			return nil, err
		}
		child.SetLeadingWhitespace(b.source[prevEnd:child.Start().Byte])
		prevEnd = child.End().Byte
		children = append(children, child)
		childKinds = append(childKinds, parserconfig.Child{Kind: child.Kind(), Text: child.Contents()})

		if !C.ts_tree_cursor_goto_next_sibling(cursor) {
			break
		}
	}
	C.ts_tree_cursor_goto_parent(cursor)

	id := b.ids.Next()
	nt := cst.NewNonTerminal(id, nodeType, children, start, end, "")
	nt.SetUnordered(b.config.IsUnordered(nodeType))
	if open, closeLex, ok := b.config.DelimitersFor(nodeType); ok {
		nt.SetDelimiters(&cst.Delimiters{Start: open, End: closeLex})
	}
	if extractor := b.config.ExtractorFor(nodeType); extractor != nil {
		nt.SetIdentifier(extractor(childKinds))
	}
	return nt, nil
}
