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

// Package render linearizes a mergedtree.Node back into source text,
// inserting fixed conflict-marker blocks wherever the merger left a
// Conflict node.
package render

import (
	"strings"

	"github.com/ctmerge/ctmerge/mergedtree"
)

// Conflict marker lines, fixed literals per the renderer's contract.
const (
	markerStart = "<<<<<<<"
	markerMid   = "======="
	markerEnd   = ">>>>>>>"
)

// Render linearizes n into source text.
func Render(n mergedtree.Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n mergedtree.Node) {
	switch v := n.(type) {
	case *mergedtree.Terminal:
		b.WriteString(v.LeadingWhitespace)
		b.WriteString(v.Value)
	case *mergedtree.NonTerminal:
		b.WriteString(v.LeadingWhitespace)
		for _, child := range v.Children {
			write(b, child)
		}
	case *mergedtree.Conflict:
		b.WriteString(v.LeadingWhitespace)
		writeConflict(b, v)
	}
}

func writeConflict(b *strings.Builder, c *mergedtree.Conflict) {
	b.WriteString(markerStart)
	b.WriteByte('\n')
	if c.Left != nil {
		write(b, c.Left)
		b.WriteByte('\n')
	}
	b.WriteString(markerMid)
	b.WriteByte('\n')
	if c.Right != nil {
		write(b, c.Right)
		b.WriteByte('\n')
	}
	b.WriteString(markerEnd)
}

// HasConflict reports whether the rendered tree contains any Conflict
// node; the driver uses this to choose the CLI's exit classification.
func HasConflict(n mergedtree.Node) bool {
	return mergedtree.HasConflict(n)
}
