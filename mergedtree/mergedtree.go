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

// Package mergedtree defines the output tree produced by the merger and
// consumed by the renderer. Unlike cst.Node, a merged tree is
// rendering-oriented and independent of the input trees' node identity:
// it is built fresh by the merger and owns (or borrows) whatever text
// it needs to reproduce source bytes.
package mergedtree

import "github.com/ctmerge/ctmerge/cst"

// Node is implemented by Terminal, NonTerminal and Conflict.
type Node interface {
	node()
}

// Terminal is a leaf carrying its own rendered value.
type Terminal struct {
	Kind              string
	Value             string
	LeadingWhitespace string
}

func (*Terminal) node() {}

// NonTerminal is an interior node with an ordered list of merged
// children. Order here is always significant: the unordered-merge
// logic has already picked a concrete order for its output by the time
// a NonTerminal is constructed.
type NonTerminal struct {
	Kind              string
	Children          []Node
	LeadingWhitespace string
}

func (*NonTerminal) node() {}

// Conflict represents a genuine, unresolved divergence between left
// and right relative to base. At least one of Left/Right is non-nil;
// both nil is a construction error (see NewConflict).
type Conflict struct {
	Left, Right       Node
	LeadingWhitespace string
}

func (*Conflict) node() {}

// NewConflict builds a Conflict node, panicking if both sides are nil
// (a Conflict with nothing to show is a bug in the caller, not
// something a renderer can meaningfully recover from).
func NewConflict(left, right Node) *Conflict {
	if left == nil && right == nil {
		panic("mergedtree: conflict with both sides nil")
	}
	return &Conflict{Left: left, Right: right}
}

// HasConflict reports whether any Conflict node exists anywhere in the
// subtree rooted at n.
func HasConflict(n Node) bool {
	switch v := n.(type) {
	case *Conflict:
		return true
	case *NonTerminal:
		for _, c := range v.Children {
			if HasConflict(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// CountConflicts returns the number of Conflict nodes in the subtree
// rooted at n.
func CountConflicts(n Node) int {
	switch v := n.(type) {
	case *Conflict:
		return 1
	case *NonTerminal:
		total := 0
		for _, c := range v.Children {
			total += CountConflicts(c)
		}
		return total
	default:
		return 0
	}
}

// FromSource builds a merged tree that is a verbatim copy of a cst.Node
// subtree, borrowing its terminal value. It is used whenever a side of
// the merge is emitted unchanged (e.g. the ordered merger's "emit cR
// as-is" actions).
func FromSource(n cst.Node) Node {
	if nt, ok := n.(*cst.NonTerminal); ok {
		children := make([]Node, 0, len(nt.Children()))
		for _, c := range nt.Children() {
			child := FromSource(c)
			SetLeadingWhitespace(child, c.LeadingWhitespace())
			children = append(children, child)
		}
		return &NonTerminal{Kind: n.Kind(), Children: children}
	}
	t := n.(*cst.Terminal)
	return &Terminal{Kind: t.Kind(), Value: t.Value()}
}

// SetLeadingWhitespace sets the leading whitespace of any merged-tree
// node variant. Leading whitespace is attached by a node's parent (it
// depends on sibling position), so callers building a NonTerminal's
// children, or emitting a node as a direct child of the merge result,
// set it explicitly after construction rather than at literal-time.
func SetLeadingWhitespace(n Node, ws string) {
	switch v := n.(type) {
	case *Terminal:
		v.LeadingWhitespace = ws
	case *NonTerminal:
		v.LeadingWhitespace = ws
	case *Conflict:
		v.LeadingWhitespace = ws
	}
}
