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

// matchSet bundles the three pairwise matchings a three-way merge
// needs at every level of recursion, so they can be threaded through
// without a long parameter list.
type matchSet struct {
	baseLeft  *match.Matchings
	baseRight *match.Matchings
	leftRight *match.Matchings
	log       *ChunkLog
}

// Merge performs a structured three-way merge of base, left and right,
// given their three pairwise matchings (base-left, base-right,
// left-right), returning the merged tree or an error if the three
// roots disagree structurally in a way the merger cannot reconcile.
// log may be nil; when non-nil, one chunk is recorded to it for every
// NonTerminal the ordered or unordered merger produces (terminal merges
// are not recorded).
func Merge(base, left, right cst.Node, baseLeft, baseRight, leftRight *match.Matchings, log *ChunkLog) (mergedtree.Node, error) {
	ms := &matchSet{baseLeft: baseLeft, baseRight: baseRight, leftRight: leftRight, log: log}
	return ms.mergeNode(base, left, right)
}

func (ms *matchSet) mergeNode(base, left, right cst.Node) (mergedtree.Node, error) {
	baseTerm, baseIsTerm := base.(*cst.Terminal)
	leftTerm, leftIsTerm := left.(*cst.Terminal)
	rightTerm, rightIsTerm := right.(*cst.Terminal)

	if leftIsTerm && rightIsTerm && baseIsTerm {
		return mergeTerminal(baseTerm, leftTerm, rightTerm), nil
	}
	if leftIsTerm || rightIsTerm || baseIsTerm {
		return nil, &StructuralMismatchError{}
	}

	baseNT := base.(*cst.NonTerminal)
	leftNT := left.(*cst.NonTerminal)
	rightNT := right.(*cst.NonTerminal)

	if leftNT.Kind() != rightNT.Kind() {
		return nil, &KindMismatchError{Left: leftNT.Kind(), Right: rightNT.Kind()}
	}

	if leftNT.Unordered() && rightNT.Unordered() {
		return ms.mergeUnordered(baseNT, leftNT, rightNT)
	}
	return ms.mergeOrdered(baseNT, leftNT, rightNT)
}

// mergeTerminal implements §4.3.1: kind comes from left; the value is
// resolved by straight three-way comparison. The result carries no
// leading whitespace; the calling merger attaches it.
func mergeTerminal(base, left, right *cst.Terminal) mergedtree.Node {
	bv, lv, rv := base.Value(), left.Value(), right.Value()

	var value string
	switch {
	case lv == rv:
		value = lv
	case lv == bv:
		value = rv
	case rv == bv:
		value = lv
	default:
		return mergedtree.NewConflict(
			&mergedtree.Terminal{Kind: left.Kind(), Value: lv},
			&mergedtree.Terminal{Kind: right.Kind(), Value: rv},
		)
	}
	return &mergedtree.Terminal{Kind: left.Kind(), Value: value}
}
