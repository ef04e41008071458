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

// Package gomodfront is a parser front end for go.mod files. Unlike
// the tree-sitter front end, it builds its CST directly from
// golang.org/x/mod/modfile's syntax tree, at line granularity: each
// top-level statement (a single directive line, or a whole factored
// block like `require (...)`) becomes one node, and a factored block's
// own lines become its unordered children so that independent edits to
// different requirements don't collide during merge.
package gomodfront

import (
	"fmt"

	"golang.org/x/mod/modfile"

	"github.com/ctmerge/ctmerge/cst"
)

// Ext is the file extension this front end claims.
const Ext = ".mod"

// Frontend is a driver.Frontend for go.mod files.
type Frontend struct{}

func (Frontend) Extensions() []string { return []string{Ext} }

func (Frontend) Parse(source, _ string, ids *cst.IDGen) (cst.Node, error) {
	file, err := modfile.ParseLax("go.mod", []byte(source), nil)
	if err != nil {
		return nil, fmt.Errorf("gomodfront: %w", err)
	}

	var children []cst.Node
	prevEnd := 0

	for _, stmt := range file.Syntax.Stmt {
		switch v := stmt.(type) {
		case *modfile.CommentBlock:
			node, newEnd, ok := buildCommentBlock(v, source, ids, prevEnd)
			if !ok {
				continue
			}
			children = append(children, node)
			prevEnd = newEnd
		case *modfile.LineBlock:
			node, newEnd := buildLineBlock(v, source, ids, prevEnd)
			children = append(children, node)
			prevEnd = newEnd
		default:
			start, end := stmt.Span()
			term := cst.NewTerminal(ids.Next(), "gomod_line", source[start.Byte:end.Byte], start, end, "")
			term.SetLeadingWhitespace(source[prevEnd:start.Byte])
			children = append(children, term)
			prevEnd = end.Byte
		}
	}

	if prevEnd < len(source) {
		pos := cst.Position{Byte: len(source)}
		trailing := cst.NewTerminal(ids.Next(), "gomod_trailing_trivia", source[prevEnd:], cst.Position{Byte: prevEnd}, pos, "")
		children = append(children, trailing)
	}

	root := cst.NewNonTerminal(ids.Next(), "gomod_file", children, cst.Position{Byte: 0}, cst.Position{Byte: len(source)}, "")
	return root, nil
}

// buildCommentBlock handles a comment-only block (one not attached to
// any directive line). modfile gives it a zero-width Span, so its
// extent is derived from its own Before comments instead.
func buildCommentBlock(v *modfile.CommentBlock, source string, ids *cst.IDGen, prevEnd int) (cst.Node, int, bool) {
	if len(v.Before) == 0 {
		return nil, prevEnd, false
	}
	start := v.Before[0].Start.Byte
	last := v.Before[len(v.Before)-1]
	end := last.Start.Byte + len(last.Token)

	term := cst.NewTerminal(ids.Next(), "gomod_comment_block", source[start:end], cst.Position{Byte: start}, cst.Position{Byte: end}, "")
	term.SetLeadingWhitespace(source[prevEnd:start])
	return term, end, true
}

// buildLineBlock turns a factored block (e.g. `require (...)`) into an
// unordered NonTerminal: an opening delimiter terminal, one terminal
// per inner line, and a closing delimiter terminal. Marking it
// unordered lets the merger reconcile edits to different requirements
// inside the same block without a spurious whole-block conflict.
func buildLineBlock(v *modfile.LineBlock, source string, ids *cst.IDGen, prevEnd int) (cst.Node, int) {
	start, end := v.Span()
	openEnd := v.LParen.Pos.Byte + 1

	open := cst.NewTerminal(ids.Next(), "gomod_line_block_open", source[start.Byte:openEnd], start, cst.Position{Byte: openEnd}, "")
	open.SetLeadingWhitespace(source[prevEnd:start.Byte])

	children := []cst.Node{open}
	inner := openEnd
	for _, li := range v.Line {
		lstart, lend := li.Span()
		t := cst.NewTerminal(ids.Next(), "gomod_line", source[lstart.Byte:lend.Byte], lstart, lend, "")
		t.SetLeadingWhitespace(source[inner:lstart.Byte])
		children = append(children, t)
		inner = lend.Byte
	}

	closeStart := v.RParen.Pos.Byte
	closeEnd := closeStart + 1
	closeTerm := cst.NewTerminal(ids.Next(), "gomod_line_block_close", source[closeStart:closeEnd], cst.Position{Byte: closeStart}, cst.Position{Byte: closeEnd}, "")
	closeTerm.SetLeadingWhitespace(source[inner:closeStart])
	children = append(children, closeTerm)

	nt := cst.NewNonTerminal(ids.Next(), "gomod_line_block", children, start, end, "")
	nt.SetUnordered(true)
	nt.SetDelimiters(&cst.Delimiters{Start: "(", End: ")"})
	return nt, end.Byte
}
