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

package merge

import (
	"github.com/ctmerge/ctmerge/cst"
	"github.com/ctmerge/ctmerge/mergedtree"
)

// mergeUnordered implements §4.3.3's two-pass algorithm over an
// unordered child list (e.g. the members of a class body): pass one
// walks left's children against the base-left and left-right
// matchings, pass two sweeps up whatever right's children pass one
// left untouched. Order in the output follows left, then right-only
// additions in right's order; leading whitespace is inherited from
// left, matching the ordered merger's convention.
func (ms *matchSet) mergeUnordered(base, left, right *cst.NonTerminal) (mergedtree.Node, error) {
	leftChildren := left.Children()
	rightChildren := right.Children()

	processedRight := make(map[int]bool, len(rightChildren))

	var children []mergedtree.Node
	stable := true

	blockEnd := left.Delimiters()

	for _, cL := range leftChildren {
		if blockEnd != nil && isBlockEndDelimiter(cL, blockEnd.End) {
			break
		}

		bMatch, okB := ms.baseLeft.Find(cL)
		rMatch, okR := ms.leftRight.Find(cL)

		var node mergedtree.Node
		var err error
		switch {
		case !okB && !okR:
			node = mergedtree.FromSource(cL)
		case !okB && okR:
			node, err = ms.mergeNode(cL, cL, rMatch.Partner)
		case okB && !okR:
			if bMatch.IsPerfectMatch {
				continue
			}
			node = mergedtree.NewConflict(mergedtree.FromSource(cL), nil)
		default: // okB && okR
			node, err = ms.mergeNode(bMatch.Partner, cL, rMatch.Partner)
		}
		if err != nil {
			return nil, err
		}

		mergedtree.SetLeadingWhitespace(node, cL.LeadingWhitespace())
		if _, isConflict := node.(*mergedtree.Conflict); isConflict {
			stable = false
		}
		children = append(children, node)

		if okR {
			processedRight[rMatch.Partner.ID()] = true
		}
	}

	for _, cR := range rightChildren {
		if processedRight[cR.ID()] {
			continue
		}
		if blockEnd != nil && isBlockEndDelimiter(cR, blockEnd.End) {
			continue
		}

		bMatch, okB := ms.baseRight.Find(cR)
		lMatch, okL := ms.leftRight.Find(cR)

		var node mergedtree.Node
		var err error
		switch {
		case !okB && !okL:
			node = mergedtree.FromSource(cR)
		case !okB && okL:
			node, err = ms.mergeNode(cR, lMatch.Partner, cR)
		case okB && !okL:
			if bMatch.IsPerfectMatch {
				processedRight[cR.ID()] = true
				continue
			}
			node = mergedtree.NewConflict(nil, mergedtree.FromSource(cR))
		default: // okB && okL
			node, err = ms.mergeNode(bMatch.Partner, lMatch.Partner, cR)
		}
		if err != nil {
			return nil, err
		}

		mergedtree.SetLeadingWhitespace(node, cR.LeadingWhitespace())
		if _, isConflict := node.(*mergedtree.Conflict); isConflict {
			stable = false
		}
		children = append(children, node)
		processedRight[cR.ID()] = true
	}

	if blockEnd != nil {
		if closing, found := findBlockEnd(left, blockEnd.End); found {
			node := mergedtree.FromSource(closing)
			mergedtree.SetLeadingWhitespace(node, closing.LeadingWhitespace())
			children = append(children, node)
		}
	}

	kind := ChunkStable
	if !stable {
		kind = ChunkUnstable
	}
	ms.log.record(left.Kind(), kind, len(children), "unordered merge")

	return &mergedtree.NonTerminal{Kind: left.Kind(), Children: children, LeadingWhitespace: left.LeadingWhitespace()}, nil
}

func isBlockEndDelimiter(n cst.Node, end string) bool {
	t, ok := n.(*cst.Terminal)
	return ok && t.Value() == end
}

// findBlockEnd returns the last child of nt whose value is the
// configured block-end delimiter (e.g. the closing "}" of a class
// body), which pass one breaks out on without consuming.
func findBlockEnd(nt *cst.NonTerminal, end string) (cst.Node, bool) {
	children := nt.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if isBlockEndDelimiter(children[i], end) {
			return children[i], true
		}
	}
	return nil, false
}
