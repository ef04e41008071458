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
	"github.com/ctmerge/ctmerge/match"
	"github.com/ctmerge/ctmerge/mergedtree"
)

// mergeOrdered walks left's and right's children in lock-step,
// deciding at each position whether to recurse into a matched triple,
// emit one side verbatim, skip a cleanly-deleted child, or emit a
// Conflict — per the cursor-advancement table of §4.3.2. It is a
// deterministic finite automaton over, at each position, whether the
// current left child and current right child are each matched (to
// anything) in the left-right matchings, and whether each is matched
// to a base child.
func (ms *matchSet) mergeOrdered(base, left, right *cst.NonTerminal) (mergedtree.Node, error) {
	leftChildren := left.Children()
	rightChildren := right.Children()

	var children []mergedtree.Node
	stable := true

	i, j := 0, 0
	for i < len(leftChildren) && j < len(rightChildren) {
		cL := leftChildren[i]
		cR := rightChildren[j]

		lrL, okLRL := ms.leftRight.Find(cL)
		_, okLRR := ms.leftRight.Find(cR)
		mutual := okLRL && okLRR && lrL.Partner.ID() == cR.ID()

		switch {
		case mutual:
			bl, okBL := ms.baseLeft.Find(cL)
			br, okBR := ms.baseRight.Find(cR)

			var mergeBase cst.Node
			switch {
			case okBL:
				mergeBase = bl.Partner
			case okBR:
				mergeBase = br.Partner
			default:
				mergeBase = cL
			}

			merged, err := ms.mergeNode(mergeBase, cL, cR)
			if err != nil {
				return nil, err
			}
			mergedtree.SetLeadingWhitespace(merged, cL.LeadingWhitespace())
			if _, isConflict := merged.(*mergedtree.Conflict); isConflict {
				stable = false
			}
			children = append(children, merged)
			i++
			j++

		case okLRL:
			// cL has a partner elsewhere; hold it and resolve cR alone.
			node, consumed := ms.resolveAgainstBase(cR, ms.baseRight, true)
			if node != nil {
				children = append(children, node)
			}
			if !consumed {
				stable = false
			}
			j++

		case okLRR:
			// cR has a partner elsewhere; hold it and resolve cL alone.
			node, consumed := ms.resolveAgainstBase(cL, ms.baseLeft, false)
			if node != nil {
				children = append(children, node)
			}
			if !consumed {
				stable = false
			}
			i++

		default:
			// Neither child is matched across left-right: both are
			// isolated relative to base.
			bl, okBL := ms.baseLeft.Find(cL)
			br, okBR := ms.baseRight.Find(cR)

			var node mergedtree.Node
			switch {
			case okBL && okBR:
				node = resolveIsolatedPair(cL, cR, bl.IsPerfectMatch, br.IsPerfectMatch)
			case okBL && !okBR:
				if bl.IsPerfectMatch {
					node = mergedtree.FromSource(cR)
					mergedtree.SetLeadingWhitespace(node, cR.LeadingWhitespace())
				} else {
					node = conflictOf(cL, cR)
				}
			case !okBL && okBR:
				if br.IsPerfectMatch {
					node = mergedtree.FromSource(cL)
					mergedtree.SetLeadingWhitespace(node, cL.LeadingWhitespace())
				} else {
					node = conflictOf(cL, cR)
				}
			default:
				node = conflictOf(cL, cR)
			}
			if _, isConflict := node.(*mergedtree.Conflict); isConflict {
				stable = false
			}
			if node != nil {
				children = append(children, node)
			}
			i++
			j++
		}
	}

	for ; i < len(leftChildren); i++ {
		node := mergedtree.FromSource(leftChildren[i])
		mergedtree.SetLeadingWhitespace(node, leftChildren[i].LeadingWhitespace())
		children = append(children, node)
	}
	for ; j < len(rightChildren); j++ {
		node := mergedtree.FromSource(rightChildren[j])
		mergedtree.SetLeadingWhitespace(node, rightChildren[j].LeadingWhitespace())
		children = append(children, node)
	}

	kind := ChunkStable
	if !stable {
		kind = ChunkUnstable
	}
	ms.log.record(left.Kind(), kind, len(children), "ordered merge")

	return &mergedtree.NonTerminal{Kind: left.Kind(), Children: children, LeadingWhitespace: left.LeadingWhitespace()}, nil
}

// resolveAgainstBase handles a child one side at a time (its partner
// is matched elsewhere in the left-right matchings, so it is skipped
// this iteration): if it has a base match, a perfect match means it
// was deleted cleanly and is dropped; otherwise it surfaces as a
// one-sided conflict. Absent a base match, it is a novel child and is
// emitted as-is. consumed reports whether the node resolved without a
// conflict (true for "emitted" or "cleanly skipped").
func (ms *matchSet) resolveAgainstBase(child cst.Node, baseMatch *match.Matchings, childIsRight bool) (mergedtree.Node, bool) {
	m, ok := baseMatch.Find(child)
	if !ok {
		node := mergedtree.FromSource(child)
		mergedtree.SetLeadingWhitespace(node, child.LeadingWhitespace())
		return node, true
	}
	if m.IsPerfectMatch {
		return nil, true
	}
	var conflict *mergedtree.Conflict
	if childIsRight {
		conflict = mergedtree.NewConflict(nil, mergedtree.FromSource(child))
	} else {
		conflict = mergedtree.NewConflict(mergedtree.FromSource(child), nil)
	}
	mergedtree.SetLeadingWhitespace(conflict, child.LeadingWhitespace())
	return conflict, false
}

// resolveIsolatedPair handles two mutually-unmatched children that
// each have their own (different) base counterpart, dispatching on
// (leftPerfect, rightPerfect) exactly as the original's
// (false, None, Some, None, Some) arm does: both sides unchanged from
// their own base child means nothing to merge (drop both); otherwise
// the side(s) that are not a perfect match of their own base child
// surface in the conflict.
func resolveIsolatedPair(cL, cR cst.Node, leftPerfect, rightPerfect bool) mergedtree.Node {
	switch {
	case leftPerfect && rightPerfect:
		return nil
	case leftPerfect && !rightPerfect:
		conflict := mergedtree.NewConflict(nil, mergedtree.FromSource(cR))
		mergedtree.SetLeadingWhitespace(conflict, cR.LeadingWhitespace())
		return conflict
	case !leftPerfect && rightPerfect:
		conflict := mergedtree.NewConflict(mergedtree.FromSource(cL), nil)
		mergedtree.SetLeadingWhitespace(conflict, cL.LeadingWhitespace())
		return conflict
	default:
		return conflictOf(cL, cR)
	}
}

func conflictOf(cL, cR cst.Node) *mergedtree.Conflict {
	conflict := mergedtree.NewConflict(mergedtree.FromSource(cL), mergedtree.FromSource(cR))
	mergedtree.SetLeadingWhitespace(conflict, cL.LeadingWhitespace())
	return conflict
}
