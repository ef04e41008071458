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

package match

import (
	"strings"

	"github.com/ctmerge/ctmerge/cst"
)

// identifierKey renders a node's identifier tuple into a string
// suitable for exact-match lookup.
func identifierKey(id []string) string {
	return strings.Join(id, "\x00")
}

func allHaveIdentifier(nodes []cst.Node) bool {
	for _, n := range nodes {
		nt, ok := n.(*cst.NonTerminal)
		if !ok || !nt.HasIdentifier() {
			return false
		}
	}
	return true
}

// matchUnordered matches two unordered children lists (e.g. the members
// of two class bodies), using whichever of the two mutually exclusive
// strategies the spec calls for:
//
//   - if every child on both sides carries an identifier tuple, pairing
//     is by identifier equality alone (the unique-label path);
//   - otherwise, every left child is scored against every right child
//     and the pairing that maximizes total score is chosen by solving a
//     maximum-weight bipartite assignment problem (the assignment
//     path).
func matchUnordered(a, b []cst.Node) (*Matchings, int) {
	if allHaveIdentifier(a) && allHaveIdentifier(b) {
		return matchByIdentifier(a, b)
	}
	return matchByAssignment(a, b)
}

func matchByIdentifier(a, b []cst.Node) (*Matchings, int) {
	byKey := make(map[string]cst.Node, len(b))
	for _, bn := range b {
		bnt := bn.(*cst.NonTerminal)
		byKey[identifierKey(bnt.Identifier())] = bn
	}

	result := Empty()
	total := 0
	for _, an := range a {
		ant := an.(*cst.NonTerminal)
		bn, found := byKey[identifierKey(ant.Identifier())]
		if !found {
			continue // unpaired children are dropped, not scored
		}
		matchings, entry, ok := Match(an, bn)
		if !ok {
			continue
		}
		result.Extend(matchings)
		total += entry.Score
	}
	return result, total
}

// matchByAssignment pads a and b to a common square size with dummy
// zero-weight entries, solves the assignment problem, then keeps only
// assignments between two real nodes whose score is strictly positive.
func matchByAssignment(a, b []cst.Node) (*Matchings, int) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return Empty(), 0
	}

	size := n
	if m > size {
		size = m
	}

	precomputed := make(map[[2]int]*pairResult, n*m)
	weight := make([][]int, size)
	for i := range weight {
		weight[i] = make([]int, size)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			matchings, entry, ok := Match(a[i], b[j])
			if !ok {
				continue
			}
			precomputed[[2]int{i, j}] = &pairResult{matchings: matchings, entry: entry, ok: true}
			weight[i][j] = entry.Score
		}
	}

	assignment := maxWeightAssignment(weight)

	result := Empty()
	total := 0
	for i, j := range assignment {
		if i >= n || j >= m {
			continue // one side is a padding row/column
		}
		pair, ok := precomputed[[2]int{i, j}]
		if !ok || pair.entry.Score <= 0 {
			continue
		}
		result.Extend(pair.matchings)
		total += pair.entry.Score
	}
	return result, total
}
